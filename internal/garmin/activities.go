package garmin

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// ListActivities returns a page of the account's activities, newest first.
func (c *Client) ListActivities(ctx context.Context, start, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("limit", strconv.Itoa(limit))
	return c.getJSON(ctx, "/activitylist-service/activities/search/activities", q)
}

// GetActivitiesByDate returns activities within a date range, optionally
// filtered by activity type.
func (c *Client) GetActivitiesByDate(ctx context.Context, startDate, endDate, activityType string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	if activityType != "" {
		q.Set("activityType", activityType)
	}
	return c.getJSON(ctx, "/activitylist-service/activities/search/activities", q)
}

// GetLastActivity returns the most recent activity.
func (c *Client) GetLastActivity(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activitylist-service/activities/search/activities", url.Values{
		"start": {"0"},
		"limit": {"1"},
	})
}

// GetActivity returns the summary for a single activity.
func (c *Client) GetActivity(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+escape(activityID), nil)
}

// GetActivitySplits returns the lap/split data for an activity.
func (c *Client) GetActivitySplits(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+escape(activityID)+"/splits", nil)
}

// GetActivityDetails returns the detailed metric samples for an activity.
func (c *Client) GetActivityDetails(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+escape(activityID)+"/details", nil)
}

// GetActivityWeather returns the recorded weather for an activity.
func (c *Client) GetActivityWeather(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+escape(activityID)+"/weather", nil)
}

// GetActivityHRZones returns time-in-heart-rate-zones for an activity.
func (c *Client) GetActivityHRZones(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+escape(activityID)+"/hrTimeInZones", nil)
}

// GetActivityExerciseSets returns strength-training exercise sets for an
// activity.
func (c *Client) GetActivityExerciseSets(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+escape(activityID)+"/exerciseSets", nil)
}

// CountActivities returns the total activity count for the account.
func (c *Client) CountActivities(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activitylist-service/activities/count", nil)
}
