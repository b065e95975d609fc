package garmin

import (
	"context"
	"encoding/json"
	"net/url"
)

// GetDailySummary returns the user summary (steps, calories, distance and
// friends) for a calendar date.
func (c *Client) GetDailySummary(ctx context.Context, date string) (json.RawMessage, error) {
	displayName, err := c.profileDisplayName(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("calendarDate", date)
	return c.getJSON(ctx, "/usersummary-service/usersummary/daily/"+escape(displayName), q)
}

// GetSteps returns daily step totals for a date range.
func (c *Client) GetSteps(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/usersummary-service/stats/steps/daily/"+escape(startDate)+"/"+escape(endDate), nil)
}

// GetHeartRates returns heart rate samples for a calendar date.
func (c *Client) GetHeartRates(ctx context.Context, date string) (json.RawMessage, error) {
	displayName, err := c.profileDisplayName(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("date", date)
	return c.getJSON(ctx, "/wellness-service/wellness/dailyHeartRate/"+escape(displayName), q)
}

// GetRestingHeartRate returns resting heart rate data for a calendar date.
func (c *Client) GetRestingHeartRate(ctx context.Context, date string) (json.RawMessage, error) {
	displayName, err := c.profileDisplayName(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("fromDate", date)
	q.Set("untilDate", date)
	q.Set("metricId", "60")
	return c.getJSON(ctx, "/userstats-service/wellness/daily/"+escape(displayName), q)
}

// GetSleep returns sleep data for a calendar date.
func (c *Client) GetSleep(ctx context.Context, date string) (json.RawMessage, error) {
	displayName, err := c.profileDisplayName(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("date", date)
	q.Set("nonSleepBufferMinutes", "60")
	return c.getJSON(ctx, "/wellness-service/wellness/dailySleepData/"+escape(displayName), q)
}

// GetStress returns stress level data for a calendar date.
func (c *Client) GetStress(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/dailyStress/"+escape(date), nil)
}

// GetBodyBattery returns Body Battery data for a date range.
func (c *Client) GetBodyBattery(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	return c.getJSON(ctx, "/wellness-service/wellness/bodyBattery/reports/daily", q)
}

// GetSpo2 returns pulse-ox (SpO2) data for a calendar date.
func (c *Client) GetSpo2(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/daily/spo2/"+escape(date), nil)
}

// GetRespiration returns respiration rate data for a calendar date.
func (c *Client) GetRespiration(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/daily/respiration/"+escape(date), nil)
}

// GetHydration returns hydration logging data for a calendar date.
func (c *Client) GetHydration(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/usersummary-service/usersummary/hydration/daily/"+escape(date), nil)
}

// GetFloors returns floors climbed data for a calendar date.
func (c *Client) GetFloors(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/floorsChartData/daily/"+escape(date), nil)
}

// GetIntensityMinutes returns weekly intensity minutes for a calendar date.
func (c *Client) GetIntensityMinutes(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/daily/im/"+escape(date), nil)
}

// GetHRV returns heart rate variability data for a calendar date.
func (c *Client) GetHRV(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/hrv-service/hrv/"+escape(date), nil)
}

// GetTrainingReadiness returns the training readiness score for a date.
func (c *Client) GetTrainingReadiness(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/metrics-service/metrics/trainingreadiness/"+escape(date), nil)
}

// GetTrainingStatus returns the aggregated training status for a date.
func (c *Client) GetTrainingStatus(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/metrics-service/metrics/trainingstatus/aggregated/"+escape(date), nil)
}

// GetMaxMetrics returns VO2 max and fitness metrics for a date.
func (c *Client) GetMaxMetrics(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/metrics-service/metrics/maxmet/daily/"+escape(date)+"/"+escape(date), nil)
}
