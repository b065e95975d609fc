// Package health_tools provides MCP tools for Garmin Connect wellness
// data: daily summaries, sleep, stress, heart rate, body battery and the
// training readiness metrics.
package health_tools
