package garmin

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// GetBloodPressure returns blood pressure measurements for a date range.
func (c *Client) GetBloodPressure(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("includeAll", "true")
	return c.getJSON(ctx, "/bloodpressure-service/bloodpressure/range/"+escape(startDate)+"/"+escape(endDate), q)
}

// AddBloodPressure records a manual blood pressure measurement.
func (c *Client) AddBloodPressure(ctx context.Context, date string, systolic, diastolic, pulse int, notes string) (json.RawMessage, error) {
	body := map[string]interface{}{
		"measurementTimestampLocal": date + "T12:00:00.00",
		"systolic":                  systolic,
		"diastolic":                 diastolic,
		"pulse":                     pulse,
		"sourceType":                "MANUAL",
		"notes":                     notes,
	}
	return c.postJSON(ctx, "/bloodpressure-service/bloodpressure", body)
}

// AddHydration logs a hydration amount (milliliters) for a calendar date.
func (c *Client) AddHydration(ctx context.Context, date string, valueML float64) (json.RawMessage, error) {
	body := map[string]interface{}{
		"calendarDate":   date,
		"valueInML":      valueML,
		"timestampLocal": time.Now().Format("2006-01-02T15:04:05.00"),
	}
	return c.putJSON(ctx, "/usersummary-service/usersummary/hydration/log", body)
}

// UploadActivity uploads an activity file (FIT, GPX or TCX).
func (c *Client) UploadActivity(ctx context.Context, filename string, content []byte) (json.RawMessage, error) {
	return c.postMultipart(ctx, "/upload-service/upload", filename, content)
}

// DownloadActivity returns the original file bytes for an activity.
func (c *Client) DownloadActivity(ctx context.Context, activityID string) ([]byte, error) {
	return c.getRaw(ctx, "/download-service/files/activity/"+escape(activityID))
}
