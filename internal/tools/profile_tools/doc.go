// Package profile_tools provides MCP tools for the Garmin Connect user
// profile: social profile, personal information and account settings.
package profile_tools
