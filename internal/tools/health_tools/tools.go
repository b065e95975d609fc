package health_tools

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

// dailyMetric describes a wellness tool that takes a single calendar date.
type dailyMetric struct {
	name        string
	description string
	failureMsg  string
	fetch       func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error)
}

// dailyMetrics lists the wellness views keyed by a single calendar date.
var dailyMetrics = []dailyMetric{
	{
		name:        "garmin_get_daily_summary",
		description: "Get the daily wellness summary (steps, calories, distance, stress) for a date",
		failureMsg:  "Failed to get daily summary",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetDailySummary(ctx, date)
		},
	},
	{
		name:        "garmin_get_heart_rates",
		description: "Get heart rate samples and summary values for a date",
		failureMsg:  "Failed to get heart rates",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetHeartRates(ctx, date)
		},
	},
	{
		name:        "garmin_get_resting_heart_rate",
		description: "Get the resting heart rate for a date",
		failureMsg:  "Failed to get resting heart rate",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetRestingHeartRate(ctx, date)
		},
	},
	{
		name:        "garmin_get_sleep",
		description: "Get sleep stages, duration and sleep score for a date",
		failureMsg:  "Failed to get sleep data",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetSleep(ctx, date)
		},
	},
	{
		name:        "garmin_get_stress",
		description: "Get the stress level timeline for a date",
		failureMsg:  "Failed to get stress data",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetStress(ctx, date)
		},
	},
	{
		name:        "garmin_get_spo2",
		description: "Get pulse ox (SpO2) readings for a date",
		failureMsg:  "Failed to get SpO2 data",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetSpo2(ctx, date)
		},
	},
	{
		name:        "garmin_get_respiration",
		description: "Get respiration rate readings for a date",
		failureMsg:  "Failed to get respiration data",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetRespiration(ctx, date)
		},
	},
	{
		name:        "garmin_get_hydration",
		description: "Get logged hydration intake for a date",
		failureMsg:  "Failed to get hydration data",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetHydration(ctx, date)
		},
	},
	{
		name:        "garmin_get_floors",
		description: "Get floors climbed for a date",
		failureMsg:  "Failed to get floors data",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetFloors(ctx, date)
		},
	},
	{
		name:        "garmin_get_intensity_minutes",
		description: "Get weekly intensity minutes as of a date",
		failureMsg:  "Failed to get intensity minutes",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetIntensityMinutes(ctx, date)
		},
	},
	{
		name:        "garmin_get_hrv",
		description: "Get heart rate variability (HRV) data for a date",
		failureMsg:  "Failed to get HRV data",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetHRV(ctx, date)
		},
	},
	{
		name:        "garmin_get_training_readiness",
		description: "Get the training readiness score for a date",
		failureMsg:  "Failed to get training readiness",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetTrainingReadiness(ctx, date)
		},
	},
	{
		name:        "garmin_get_training_status",
		description: "Get the training status (load, VO2 max trend) for a date",
		failureMsg:  "Failed to get training status",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetTrainingStatus(ctx, date)
		},
	},
	{
		name:        "garmin_get_max_metrics",
		description: "Get max metrics (VO2 max, fitness age inputs) for a date",
		failureMsg:  "Failed to get max metrics",
		fetch: func(ctx context.Context, client *garmin.Client, date string) (json.RawMessage, error) {
			return client.GetMaxMetrics(ctx, date)
		},
	},
}

// RegisterHealthTools registers all wellness-related tools with the MCP server
func RegisterHealthTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	for _, metric := range dailyMetrics {
		tool := mcp.NewTool(metric.name,
			mcp.WithDescription(metric.description),
			mcp.WithString("date",
				mcp.Required(),
				mcp.Description("Calendar date (YYYY-MM-DD)"),
			),
		)

		s.AddTool(tool, common.GuardedToolHandler(metric.name, instrumentation.ServiceHealth, "get", sc,
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

				raw, err := metric.fetch(ctx, client, date)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("%s: %v", metric.failureMsg, err)), nil
				}
				return common.JSONResult(raw), nil
			}))
	}

	stepsTool := mcp.NewTool("garmin_get_steps",
		mcp.WithDescription("Get daily step counts for a date range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(stepsTool, common.GuardedToolHandler("garmin_get_steps", instrumentation.ServiceHealth, "list", sc,
		rangeHandler(sc, "Failed to get steps",
			func(ctx context.Context, client *garmin.Client, startDate, endDate string) (json.RawMessage, error) {
				return client.GetSteps(ctx, startDate, endDate)
			})))

	bodyBatteryTool := mcp.NewTool("garmin_get_body_battery",
		mcp.WithDescription("Get body battery levels for a date range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(bodyBatteryTool, common.GuardedToolHandler("garmin_get_body_battery", instrumentation.ServiceHealth, "list", sc,
		rangeHandler(sc, "Failed to get body battery",
			func(ctx context.Context, client *garmin.Client, startDate, endDate string) (json.RawMessage, error) {
				return client.GetBodyBattery(ctx, startDate, endDate)
			})))

	return nil
}

// rangeHandler builds a handler for tools that take a startDate/endDate pair.
func rangeHandler(
	sc *server.ServerContext,
	failureMsg string,
	fetch func(ctx context.Context, client *garmin.Client, startDate, endDate string) (json.RawMessage, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

		raw, err := fetch(ctx, client, startDate, endDate)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", failureMsg, err)), nil
		}
		return common.JSONResult(raw), nil
	}
}
