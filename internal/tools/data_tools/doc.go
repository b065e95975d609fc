// Package data_tools provides MCP tools for raw data exchange with Garmin
// Connect: blood pressure and hydration logging, and activity file upload
// and download.
package data_tools
