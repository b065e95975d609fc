package womens_health_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/server"
	"github.com/teemow/garmin-mcp/internal/tools/common"
)

// RegisterWomensHealthTools registers all women's health tools with the MCP server
func RegisterWomensHealthTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	dayViewTool := mcp.NewTool("garmin_get_menstrual_day_view",
		mcp.WithDescription("Get menstrual cycle data for a calendar date"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Calendar date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(dayViewTool, common.GuardedToolHandler("garmin_get_menstrual_day_view", instrumentation.ServiceWomensHealth, "get", sc,
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

			raw, err := client.GetMenstrualDayView(ctx, date)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get menstrual day view: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	calendarTool := mcp.NewTool("garmin_get_menstrual_calendar",
		mcp.WithDescription("Get menstrual cycle calendar data for a date range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(calendarTool, common.GuardedToolHandler("garmin_get_menstrual_calendar", instrumentation.ServiceWomensHealth, "list", sc,
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

			raw, err := client.GetMenstrualCalendar(ctx, startDate, endDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get menstrual calendar: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	pregnancyTool := mcp.NewTool("garmin_get_pregnancy_summary",
		mcp.WithDescription("Get the pregnancy tracking snapshot, if tracking is enabled"),
	)

	s.AddTool(pregnancyTool, common.GuardedToolHandler("garmin_get_pregnancy_summary", instrumentation.ServiceWomensHealth, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetPregnancySummary(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get pregnancy summary: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	return nil
}
