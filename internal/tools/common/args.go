package common

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// RequiredString extracts a required string argument. Returns an error when
// the argument is missing, empty or not a string.
func RequiredString(args map[string]interface{}, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

// OptionalString extracts an optional string argument, falling back to def.
func OptionalString(args map[string]interface{}, key, def string) string {
	if value, ok := args[key].(string); ok && value != "" {
		return value
	}
	return def
}

// OptionalInt extracts an optional integer argument, falling back to def.
// JSON numbers arrive as float64 over the MCP transport.
func OptionalInt(args map[string]interface{}, key string, def int) int {
	switch value := args[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	}
	return def
}

// OptionalBool extracts an optional boolean argument with a default.
func OptionalBool(args map[string]interface{}, key string, def bool) bool {
	if value, ok := args[key].(bool); ok {
		return value
	}
	return def
}

// RequiredInt extracts a required integer argument.
func RequiredInt(args map[string]interface{}, key string) (int, error) {
	switch value := args[key].(type) {
	case float64:
		return int(value), nil
	case int:
		return value, nil
	}
	return 0, fmt.Errorf("%s is required", key)
}

// RequiredFloat extracts a required numeric argument.
func RequiredFloat(args map[string]interface{}, key string) (float64, error) {
	switch value := args[key].(type) {
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	}
	return 0, fmt.Errorf("%s is required", key)
}

// JSONResult wraps a raw Garmin Connect response as an indented text result.
// Responses that fail to indent (non-JSON bodies) are passed through as-is.
func JSONResult(raw json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return mcp.NewToolResultText(string(raw))
	}
	return mcp.NewToolResultText(buf.String())
}
