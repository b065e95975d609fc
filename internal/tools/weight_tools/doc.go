// Package weight_tools provides MCP tools for Garmin Connect weigh-ins:
// reading daily and ranged measurements and recording or deleting manual
// entries.
package weight_tools
