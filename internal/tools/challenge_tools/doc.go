// Package challenge_tools provides MCP tools for Garmin Connect badge,
// ad-hoc and virtual challenges.
package challenge_tools
