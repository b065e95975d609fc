package gear_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/server"
	"github.com/teemow/garmin-mcp/internal/tools/common"
)

// RegisterGearTools registers all gear-related tools with the MCP server
func RegisterGearTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listGearTool := mcp.NewTool("garmin_list_gear",
		mcp.WithDescription("List all gear (shoes, bikes, equipment) registered to the account"),
	)

	s.AddTool(listGearTool, common.GuardedToolHandler("garmin_list_gear", instrumentation.ServiceGear, "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.ListGear(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list gear: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	gearDefaultsTool := mcp.NewTool("garmin_get_gear_defaults",
		mcp.WithDescription("Get the default gear assignments per activity type"),
	)

	s.AddTool(gearDefaultsTool, common.GuardedToolHandler("garmin_get_gear_defaults", instrumentation.ServiceGear, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetGearDefaults(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get gear defaults: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	gearStatsTool := mcp.NewTool("garmin_get_gear_stats",
		mcp.WithDescription("Get cumulative usage stats (distance, activities) for a piece of gear"),
		mcp.WithString("gearUuid",
			mcp.Required(),
			mcp.Description("The UUID of the gear"),
		),
	)

	s.AddTool(gearStatsTool, common.GuardedToolHandler("garmin_get_gear_stats", instrumentation.ServiceGear, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			gearUUID, err := common.RequiredString(args, "gearUuid")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetGearStats(ctx, gearUUID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get gear stats: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	gearActivitiesTool := mcp.NewTool("garmin_get_gear_activities",
		mcp.WithDescription("List the activities recorded with a piece of gear"),
		mcp.WithString("gearUuid",
			mcp.Required(),
			mcp.Description("The UUID of the gear"),
		),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default: 0)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of activities to return (default: 20)"),
		),
	)

	s.AddTool(gearActivitiesTool, common.GuardedToolHandler("garmin_get_gear_activities", instrumentation.ServiceGear, "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			gearUUID, err := common.RequiredString(args, "gearUuid")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			start := common.OptionalInt(args, "start", 0)
			limit := common.OptionalInt(args, "limit", 20)

			raw, err := client.GetGearActivities(ctx, gearUUID, start, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get gear activities: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	// Default assignment and retirement change account state, so they stay
	// behind the read-only gate
	if !readOnly {
		setGearDefaultTool := mcp.NewTool("garmin_set_gear_default",
			mcp.WithDescription("Set or unset a piece of gear as the default for an activity type"),
			mcp.WithString("gearUuid",
				mcp.Required(),
				mcp.Description("The UUID of the gear"),
			),
			mcp.WithNumber("activityTypeId",
				mcp.Required(),
				mcp.Description("The numeric activity type ID the gear should default to"),
			),
			mcp.WithBoolean("default",
				mcp.Description("true assigns the gear as default, false removes the assignment (default: true)"),
			),
		)

		s.AddTool(setGearDefaultTool, common.GuardedToolHandler("garmin_set_gear_default", instrumentation.ServiceGear, "update", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				gearUUID, err := common.RequiredString(args, "gearUuid")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				activityTypeID, err := common.RequiredInt(args, "activityTypeId")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				defaultGear := common.OptionalBool(args, "default", true)

				raw, err := client.SetGearDefault(ctx, gearUUID, activityTypeID, defaultGear)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to set gear default: %v", err)), nil
				}
				return common.JSONResult(raw), nil
			}))

		retireGearTool := mcp.NewTool("garmin_retire_gear",
			mcp.WithDescription("Retire a piece of gear so it no longer accumulates usage"),
			mcp.WithString("gearUuid",
				mcp.Required(),
				mcp.Description("The UUID of the gear to retire"),
			),
		)

		s.AddTool(retireGearTool, common.GuardedToolHandler("garmin_retire_gear", instrumentation.ServiceGear, "update", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				gearUUID, err := common.RequiredString(args, "gearUuid")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				raw, err := client.RetireGear(ctx, gearUUID)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to retire gear: %v", err)), nil
				}
				return common.JSONResult(raw), nil
			}))
	}

	return nil
}
