// Package cmd implements the command-line interface for garmin-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide Garmin Connect tools for AI assistants
//   - version: Display version information
package cmd
