package garmin

import (
	"context"
	"encoding/json"
	"net/url"
)

// GetDailyWeighIns returns the weigh-ins for a calendar date.
func (c *Client) GetDailyWeighIns(ctx context.Context, date string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("includeAll", "true")
	return c.getJSON(ctx, "/weight-service/weight/dayview/"+escape(date), q)
}

// GetWeighIns returns weigh-ins for a date range.
func (c *Client) GetWeighIns(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("includeAll", "true")
	return c.getJSON(ctx, "/weight-service/weight/range/"+escape(startDate)+"/"+escape(endDate), q)
}

// AddWeighIn records a manual weigh-in. Weight is in kilograms.
func (c *Client) AddWeighIn(ctx context.Context, date string, weightKg float64) (json.RawMessage, error) {
	body := map[string]interface{}{
		"dateTimestamp": date + "T00:00:00.00",
		"gmtTimestamp":  date + "T00:00:00.00",
		"unitKey":       "kg",
		"sourceType":    "MANUAL",
		"value":         weightKg,
	}
	return c.postJSON(ctx, "/weight-service/user-weight", body)
}

// DeleteWeighIn removes a weigh-in by its version key.
func (c *Client) DeleteWeighIn(ctx context.Context, date, versionID string) (json.RawMessage, error) {
	return c.deleteJSON(ctx, "/weight-service/weight/"+escape(date)+"/byversion/"+escape(versionID))
}
