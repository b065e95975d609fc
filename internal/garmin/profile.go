package garmin

import (
	"context"
	"encoding/json"
)

// GetSocialProfile returns the public social profile for the account.
func (c *Client) GetSocialProfile(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/userprofile-service/socialProfile", nil)
}

// GetPersonalInformation returns the account's personal information
// (age, gender, height, weight).
func (c *Client) GetPersonalInformation(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/userprofile-service/userprofile/personal-information", nil)
}

// GetUserSettings returns the account's settings (units, formats, sleep
// windows).
func (c *Client) GetUserSettings(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/userprofile-service/userprofile/user-settings", nil)
}
