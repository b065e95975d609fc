package garmin

import (
	"context"
	"encoding/json"
)

// ListDevices returns the devices registered to the account.
func (c *Client) ListDevices(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/device-service/deviceregistration/devices", nil)
}

// GetDeviceSettings returns the settings for a device.
func (c *Client) GetDeviceSettings(ctx context.Context, deviceID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/device-service/deviceservice/device-info/settings/"+escape(deviceID), nil)
}

// GetDeviceLastUsed returns information about the most recently synced
// device.
func (c *Client) GetDeviceLastUsed(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/device-service/deviceservice/mylastused", nil)
}

// GetDeviceAlarms returns the alarms configured across all devices.
func (c *Client) GetDeviceAlarms(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/device-service/deviceservice/alarms", nil)
}

// GetPrimaryTrainingDevice returns the primary training device selection.
func (c *Client) GetPrimaryTrainingDevice(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/web-gateway/device-info/primary-training-device", nil)
}
