package training_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/server"
	"github.com/teemow/garmin-mcp/internal/tools/common"
)

// RegisterTrainingTools registers all training metric tools with the MCP server
func RegisterTrainingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	racePredictionsTool := mcp.NewTool("garmin_get_race_predictions",
		mcp.WithDescription("Get the latest race time predictions (5K, 10K, half, marathon)"),
	)

	s.AddTool(racePredictionsTool, common.GuardedToolHandler("garmin_get_race_predictions", instrumentation.ServiceTraining, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetRacePredictions(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get race predictions: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	enduranceScoreTool := mcp.NewTool("garmin_get_endurance_score",
		mcp.WithDescription("Get the endurance score trend for a date range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(enduranceScoreTool, common.GuardedToolHandler("garmin_get_endurance_score", instrumentation.ServiceTraining, "get", sc,
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

			raw, err := client.GetEnduranceScore(ctx, startDate, endDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get endurance score: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	hillScoreTool := mcp.NewTool("garmin_get_hill_score",
		mcp.WithDescription("Get the hill score trend for a date range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(hillScoreTool, common.GuardedToolHandler("garmin_get_hill_score", instrumentation.ServiceTraining, "get", sc,
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

			raw, err := client.GetHillScore(ctx, startDate, endDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get hill score: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	fitnessAgeTool := mcp.NewTool("garmin_get_fitness_age",
		mcp.WithDescription("Get the fitness age calculation for a date"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Calendar date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(fitnessAgeTool, common.GuardedToolHandler("garmin_get_fitness_age", instrumentation.ServiceTraining, "get", sc,
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

			raw, err := client.GetFitnessAge(ctx, date)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get fitness age: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	goalsTool := mcp.NewTool("garmin_get_goals",
		mcp.WithDescription("List the account's goals filtered by status"),
		mcp.WithString("status",
			mcp.Description("Goal status filter: 'active', 'future' or 'past' (default: 'active')"),
		),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default: 0)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of goals to return (default: 20)"),
		),
	)

	s.AddTool(goalsTool, common.GuardedToolHandler("garmin_get_goals", instrumentation.ServiceTraining, "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			status := common.OptionalString(args, "status", "active")
			start := common.OptionalInt(args, "start", 0)
			limit := common.OptionalInt(args, "limit", 20)

			raw, err := client.GetGoals(ctx, status, start, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get goals: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	personalRecordsTool := mcp.NewTool("garmin_get_personal_records",
		mcp.WithDescription("Get the account's personal records"),
	)

	s.AddTool(personalRecordsTool, common.GuardedToolHandler("garmin_get_personal_records", instrumentation.ServiceTraining, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetPersonalRecords(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get personal records: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	return nil
}
