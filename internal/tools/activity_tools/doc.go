// Package activity_tools provides MCP tools for browsing Garmin Connect
// activities: listing, filtering by date, and fetching per-activity detail
// views such as splits, weather and heart rate zones.
package activity_tools
