// Package womens_health_tools provides MCP tools for Garmin Connect
// menstrual cycle and pregnancy tracking data.
package womens_health_tools
