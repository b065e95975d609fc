package activity_tools

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

// activityDetailHandler builds a handler for the single-activity detail
// tools, which all take one required activityId argument.
func activityDetailHandler(
	sc *server.ServerContext,
	failureMsg string,
	fetch func(ctx context.Context, client *garmin.Client, activityID string) (json.RawMessage, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		client, err := common.GarminClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		activityID, err := common.RequiredString(args, "activityId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		raw, err := fetch(ctx, client, activityID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", failureMsg, err)), nil
		}
		return common.JSONResult(raw), nil
	}
}

// RegisterActivityTools registers all activity-related tools with the MCP server
func RegisterActivityTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listActivitiesTool := mcp.NewTool("garmin_list_activities",
		mcp.WithDescription("List recent activities, newest first"),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default: 0)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of activities to return (default: 20)"),
		),
	)

	s.AddTool(listActivitiesTool, common.GuardedToolHandler("garmin_list_activities", instrumentation.ServiceActivities, "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			start := common.OptionalInt(args, "start", 0)
			limit := common.OptionalInt(args, "limit", 20)

			raw, err := client.ListActivities(ctx, start, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list activities: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	activitiesByDateTool := mcp.NewTool("garmin_get_activities_by_date",
		mcp.WithDescription("List activities within a date range, optionally filtered by activity type"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
		mcp.WithString("activityType",
			mcp.Description("Activity type filter, e.g. 'running' or 'cycling'"),
		),
	)

	s.AddTool(activitiesByDateTool, common.GuardedToolHandler("garmin_get_activities_by_date", instrumentation.ServiceActivities, "list", sc,
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
			activityType := common.OptionalString(args, "activityType", "")

			raw, err := client.GetActivitiesByDate(ctx, startDate, endDate, activityType)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get activities: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	lastActivityTool := mcp.NewTool("garmin_get_last_activity",
		mcp.WithDescription("Get the most recent activity"),
	)

	s.AddTool(lastActivityTool, common.GuardedToolHandler("garmin_get_last_activity", instrumentation.ServiceActivities, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetLastActivity(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get last activity: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	activityTool := mcp.NewTool("garmin_get_activity",
		mcp.WithDescription("Get the summary view of an activity"),
		mcp.WithString("activityId",
			mcp.Required(),
			mcp.Description("The ID of the activity"),
		),
	)

	s.AddTool(activityTool, common.GuardedToolHandler("garmin_get_activity", instrumentation.ServiceActivities, "get", sc,
		activityDetailHandler(sc, "Failed to get activity",
			func(ctx context.Context, client *garmin.Client, activityID string) (json.RawMessage, error) {
				return client.GetActivity(ctx, activityID)
			})))

	splitsTool := mcp.NewTool("garmin_get_activity_splits",
		mcp.WithDescription("Get the lap/split breakdown of an activity"),
		mcp.WithString("activityId",
			mcp.Required(),
			mcp.Description("The ID of the activity"),
		),
	)

	s.AddTool(splitsTool, common.GuardedToolHandler("garmin_get_activity_splits", instrumentation.ServiceActivities, "get", sc,
		activityDetailHandler(sc, "Failed to get activity splits",
			func(ctx context.Context, client *garmin.Client, activityID string) (json.RawMessage, error) {
				return client.GetActivitySplits(ctx, activityID)
			})))

	detailsTool := mcp.NewTool("garmin_get_activity_details",
		mcp.WithDescription("Get the detailed metric samples of an activity"),
		mcp.WithString("activityId",
			mcp.Required(),
			mcp.Description("The ID of the activity"),
		),
	)

	s.AddTool(detailsTool, common.GuardedToolHandler("garmin_get_activity_details", instrumentation.ServiceActivities, "get", sc,
		activityDetailHandler(sc, "Failed to get activity details",
			func(ctx context.Context, client *garmin.Client, activityID string) (json.RawMessage, error) {
				return client.GetActivityDetails(ctx, activityID)
			})))

	weatherTool := mcp.NewTool("garmin_get_activity_weather",
		mcp.WithDescription("Get the recorded weather conditions of an activity"),
		mcp.WithString("activityId",
			mcp.Required(),
			mcp.Description("The ID of the activity"),
		),
	)

	s.AddTool(weatherTool, common.GuardedToolHandler("garmin_get_activity_weather", instrumentation.ServiceActivities, "get", sc,
		activityDetailHandler(sc, "Failed to get activity weather",
			func(ctx context.Context, client *garmin.Client, activityID string) (json.RawMessage, error) {
				return client.GetActivityWeather(ctx, activityID)
			})))

	hrZonesTool := mcp.NewTool("garmin_get_activity_hr_zones",
		mcp.WithDescription("Get the heart rate zone distribution of an activity"),
		mcp.WithString("activityId",
			mcp.Required(),
			mcp.Description("The ID of the activity"),
		),
	)

	s.AddTool(hrZonesTool, common.GuardedToolHandler("garmin_get_activity_hr_zones", instrumentation.ServiceActivities, "get", sc,
		activityDetailHandler(sc, "Failed to get activity HR zones",
			func(ctx context.Context, client *garmin.Client, activityID string) (json.RawMessage, error) {
				return client.GetActivityHRZones(ctx, activityID)
			})))

	exerciseSetsTool := mcp.NewTool("garmin_get_activity_exercise_sets",
		mcp.WithDescription("Get the exercise sets of a strength training activity"),
		mcp.WithString("activityId",
			mcp.Required(),
			mcp.Description("The ID of the activity"),
		),
	)

	s.AddTool(exerciseSetsTool, common.GuardedToolHandler("garmin_get_activity_exercise_sets", instrumentation.ServiceActivities, "get", sc,
		activityDetailHandler(sc, "Failed to get exercise sets",
			func(ctx context.Context, client *garmin.Client, activityID string) (json.RawMessage, error) {
				return client.GetActivityExerciseSets(ctx, activityID)
			})))

	countTool := mcp.NewTool("garmin_count_activities",
		mcp.WithDescription("Get the total number of recorded activities"),
	)

	s.AddTool(countTool, common.GuardedToolHandler("garmin_count_activities", instrumentation.ServiceActivities, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.CountActivities(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to count activities: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	return nil
}
