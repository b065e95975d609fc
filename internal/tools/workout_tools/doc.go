// Package workout_tools provides MCP tools for Garmin Connect workouts:
// listing, inspecting, downloading as FIT, creating, scheduling and
// deleting structured workouts.
package workout_tools
