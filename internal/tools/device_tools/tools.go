package device_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/garmin"
	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/server"
	"github.com/teemow/garmin-mcp/internal/tools/common"
)

// RegisterDeviceTools registers all device-related tools with the MCP server
func RegisterDeviceTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	deviceTools := []struct {
		name        string
		description string
		operation   string
		failureMsg  string
		fetch       func(ctx context.Context, client *garmin.Client) (json.RawMessage, error)
	}{
		{
			name:        "garmin_list_devices",
			description: "List all Garmin devices registered to the account",
			operation:   "list",
			failureMsg:  "Failed to list devices",
			fetch: func(ctx context.Context, client *garmin.Client) (json.RawMessage, error) {
				return client.ListDevices(ctx)
			},
		},
		{
			name:        "garmin_get_device_last_used",
			description: "Get the most recently synced device",
			operation:   "get",
			failureMsg:  "Failed to get last used device",
			fetch: func(ctx context.Context, client *garmin.Client) (json.RawMessage, error) {
				return client.GetDeviceLastUsed(ctx)
			},
		},
		{
			name:        "garmin_get_device_alarms",
			description: "Get the alarms configured across all devices",
			operation:   "list",
			failureMsg:  "Failed to get device alarms",
			fetch: func(ctx context.Context, client *garmin.Client) (json.RawMessage, error) {
				return client.GetDeviceAlarms(ctx)
			},
		},
		{
			name:        "garmin_get_primary_training_device",
			description: "Get the primary training device and its capabilities",
			operation:   "get",
			failureMsg:  "Failed to get primary training device",
			fetch: func(ctx context.Context, client *garmin.Client) (json.RawMessage, error) {
				return client.GetPrimaryTrainingDevice(ctx)
			},
		},
	}

	for _, dt := range deviceTools {
		tool := mcp.NewTool(dt.name,
			mcp.WithDescription(dt.description),
		)

		s.AddTool(tool, common.GuardedToolHandler(dt.name, instrumentation.ServiceDevices, dt.operation, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				raw, err := dt.fetch(ctx, client)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("%s: %v", dt.failureMsg, err)), nil
				}
				return common.JSONResult(raw), nil
			}))
	}

	deviceSettingsTool := mcp.NewTool("garmin_get_device_settings",
		mcp.WithDescription("Get the settings of a specific device"),
		mcp.WithString("deviceId",
			mcp.Required(),
			mcp.Description("The ID of the device"),
		),
	)

	s.AddTool(deviceSettingsTool, common.GuardedToolHandler("garmin_get_device_settings", instrumentation.ServiceDevices, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			deviceID, err := common.RequiredString(args, "deviceId")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetDeviceSettings(ctx, deviceID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get device settings: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	return nil
}
