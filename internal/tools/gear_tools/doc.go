// Package gear_tools provides MCP tools for Garmin Connect gear tracking:
// shoes, bikes and other equipment, their usage stats and retirement.
package gear_tools
