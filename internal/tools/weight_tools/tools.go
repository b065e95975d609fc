package weight_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/server"
	"github.com/teemow/garmin-mcp/internal/tools/common"
)

// RegisterWeightTools registers all weigh-in tools with the MCP server
func RegisterWeightTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	dailyWeighInsTool := mcp.NewTool("garmin_get_daily_weigh_ins",
		mcp.WithDescription("Get the weigh-ins recorded on a calendar date"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Calendar date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(dailyWeighInsTool, common.GuardedToolHandler("garmin_get_daily_weigh_ins", instrumentation.ServiceWeight, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			date, err := common.RequiredString(args, "date")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetDailyWeighIns(ctx, date)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get daily weigh-ins: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	weighInsTool := mcp.NewTool("garmin_get_weigh_ins",
		mcp.WithDescription("Get weigh-ins for a date range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(weighInsTool, common.GuardedToolHandler("garmin_get_weigh_ins", instrumentation.ServiceWeight, "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			startDate, err := common.RequiredString(args, "startDate")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			endDate, err := common.RequiredString(args, "endDate")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetWeighIns(ctx, startDate, endDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get weigh-ins: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	if !readOnly {
		addWeighInTool := mcp.NewTool("garmin_add_weigh_in",
			mcp.WithDescription("Record a manual weigh-in"),
			mcp.WithString("date",
				mcp.Required(),
				mcp.Description("Calendar date of the measurement (YYYY-MM-DD)"),
			),
			mcp.WithNumber("weightKg",
				mcp.Required(),
				mcp.Description("Body weight in kilograms"),
			),
		)

		s.AddTool(addWeighInTool, common.GuardedToolHandler("garmin_add_weigh_in", instrumentation.ServiceWeight, "create", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				date, err := common.RequiredString(args, "date")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				weightKg, err := common.RequiredFloat(args, "weightKg")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				raw, err := client.AddWeighIn(ctx, date, weightKg)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to add weigh-in: %v", err)), nil
				}
				return common.JSONResult(raw), nil
			}))

		deleteWeighInTool := mcp.NewTool("garmin_delete_weigh_in",
			mcp.WithDescription("Delete a weigh-in entry"),
			mcp.WithString("date",
				mcp.Required(),
				mcp.Description("Calendar date of the measurement (YYYY-MM-DD)"),
			),
			mcp.WithString("versionId",
				mcp.Required(),
				mcp.Description("The version ID of the weigh-in entry, as returned by garmin_get_daily_weigh_ins"),
			),
		)

		s.AddTool(deleteWeighInTool, common.GuardedToolHandler("garmin_delete_weigh_in", instrumentation.ServiceWeight, "delete", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				date, err := common.RequiredString(args, "date")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				versionID, err := common.RequiredString(args, "versionId")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				if _, err := client.DeleteWeighIn(ctx, date, versionID); err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to delete weigh-in: %v", err)), nil
				}
				return mcp.NewToolResultText(fmt.Sprintf("Weigh-in %s on %s deleted successfully", versionID, date)), nil
			}))
	}

	return nil
}
