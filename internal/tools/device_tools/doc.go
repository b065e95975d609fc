// Package device_tools provides MCP tools for the Garmin devices
// registered to the account: inventory, per-device settings, alarms and
// the primary training device.
package device_tools
