package garmin

import (
	"context"
	"encoding/json"
	"net/url"
)

// GetRacePredictions returns the latest race time predictions.
func (c *Client) GetRacePredictions(ctx context.Context) (json.RawMessage, error) {
	displayName, err := c.profileDisplayName(ctx)
	if err != nil {
		return nil, err
	}
	return c.getJSON(ctx, "/metrics-service/metrics/racepredictions/latest/"+escape(displayName), nil)
}

// GetEnduranceScore returns the endurance score for a date range.
func (c *Client) GetEnduranceScore(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	q.Set("aggregation", "weekly")
	return c.getJSON(ctx, "/metrics-service/metrics/endurancescore/stats", q)
}

// GetHillScore returns the hill score for a date range.
func (c *Client) GetHillScore(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	q.Set("aggregation", "daily")
	return c.getJSON(ctx, "/metrics-service/metrics/hillscore/stats", q)
}

// GetFitnessAge returns the fitness age calculation for a date.
func (c *Client) GetFitnessAge(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/fitnessage-service/fitnessage/"+escape(date), nil)
}

// GetGoals returns the account's goals filtered by status
// (active, future or past).
func (c *Client) GetGoals(ctx context.Context, status string, start, limit int) (json.RawMessage, error) {
	if status == "" {
		status = "active"
	}
	q := challengePage(start, limit)
	q.Set("status", status)
	q.Set("sortOrder", "asc")
	return c.getJSON(ctx, "/goal-service/goal/goals", q)
}

// GetPersonalRecords returns the account's personal records.
func (c *Client) GetPersonalRecords(ctx context.Context) (json.RawMessage, error) {
	displayName, err := c.profileDisplayName(ctx)
	if err != nil {
		return nil, err
	}
	return c.getJSON(ctx, "/personalrecord-service/personalrecord/prs/"+escape(displayName), nil)
}
