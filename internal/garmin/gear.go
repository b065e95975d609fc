package garmin

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// ListGear returns all gear (shoes, bikes) registered to the account.
func (c *Client) ListGear(ctx context.Context) (json.RawMessage, error) {
	profileID, err := c.userProfileID(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("userProfilePk", strconv.FormatInt(profileID, 10))
	return c.getJSON(ctx, "/gear-service/gear/filterGear", q)
}

// GetGearDefaults returns the default gear assignments per activity type.
func (c *Client) GetGearDefaults(ctx context.Context) (json.RawMessage, error) {
	profileID, err := c.userProfileID(ctx)
	if err != nil {
		return nil, err
	}
	return c.getJSON(ctx, "/gear-service/gear/user/"+strconv.FormatInt(profileID, 10)+"/activityTypes", nil)
}

// GetGearStats returns cumulative usage statistics for a piece of gear.
func (c *Client) GetGearStats(ctx context.Context, gearUUID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/gear-service/gear/stats/"+escape(gearUUID), nil)
}

// GetGearActivities returns the activities a piece of gear was used on.
func (c *Client) GetGearActivities(ctx context.Context, gearUUID string, start, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("limit", strconv.Itoa(limit))
	return c.getJSON(ctx, "/gear-service/gear/"+escape(gearUUID)+"/activities", q)
}

// SetGearDefault marks or unmarks a piece of gear as the default for an
// activity type. Garmin models "unset" as a DELETE of the assignment.
func (c *Client) SetGearDefault(ctx context.Context, gearUUID string, activityTypeID int, defaultGear bool) (json.RawMessage, error) {
	path := "/gear-service/gear/" + escape(gearUUID) + "/activityType/" + strconv.Itoa(activityTypeID)
	if defaultGear {
		return c.putJSON(ctx, path+"/default/true", nil)
	}
	return c.deleteJSON(ctx, path)
}

// RetireGear marks a piece of gear as retired.
func (c *Client) RetireGear(ctx context.Context, gearUUID string) (json.RawMessage, error) {
	return c.putJSON(ctx, "/gear-service/gear/retire/"+escape(gearUUID), nil)
}
