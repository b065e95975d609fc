package garmin

import (
	"context"
	"encoding/json"
)

// GetMenstrualDayView returns menstrual cycle data for a calendar date.
func (c *Client) GetMenstrualDayView(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/periodichealth-service/menstrualcycle/dayview/"+escape(date), nil)
}

// GetMenstrualCalendar returns menstrual cycle calendar data for a date
// range.
func (c *Client) GetMenstrualCalendar(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/periodichealth-service/menstrualcycle/calendar/"+escape(startDate)+"/"+escape(endDate), nil)
}

// GetPregnancySummary returns the pregnancy snapshot, if tracking is
// enabled.
func (c *Client) GetPregnancySummary(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/periodichealth-service/menstrualcycle/pregnancysnapshot", nil)
}
