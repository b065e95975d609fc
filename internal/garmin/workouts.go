package garmin

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// ListWorkouts returns a page of the account's saved workouts.
func (c *Client) ListWorkouts(ctx context.Context, start, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("limit", strconv.Itoa(limit))
	return c.getJSON(ctx, "/workout-service/workouts", q)
}

// GetWorkout returns a workout definition by ID.
func (c *Client) GetWorkout(ctx context.Context, workoutID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/workout-service/workout/"+escape(workoutID), nil)
}

// DownloadWorkout returns the FIT file bytes for a workout.
func (c *Client) DownloadWorkout(ctx context.Context, workoutID string) ([]byte, error) {
	return c.getRaw(ctx, "/workout-service/workout/FIT/"+escape(workoutID))
}

// CreateWorkout uploads a workout definition. The payload is the Garmin
// workout JSON document.
func (c *Client) CreateWorkout(ctx context.Context, workout json.RawMessage) (json.RawMessage, error) {
	return c.postJSON(ctx, "/workout-service/workout", workout)
}

// ScheduleWorkout schedules a workout on a calendar date.
func (c *Client) ScheduleWorkout(ctx context.Context, workoutID, date string) (json.RawMessage, error) {
	body := map[string]interface{}{"date": date}
	return c.postJSON(ctx, "/workout-service/schedule/"+escape(workoutID), body)
}

// DeleteWorkout removes a saved workout.
func (c *Client) DeleteWorkout(ctx context.Context, workoutID string) (json.RawMessage, error) {
	return c.deleteJSON(ctx, "/workout-service/workout/"+escape(workoutID))
}
