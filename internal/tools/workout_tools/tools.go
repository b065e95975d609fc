package workout_tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/server"
	"github.com/teemow/garmin-mcp/internal/tools/common"
)

// RegisterWorkoutTools registers all workout-related tools with the MCP server
func RegisterWorkoutTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listWorkoutsTool := mcp.NewTool("garmin_list_workouts",
		mcp.WithDescription("List the account's saved workouts"),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default: 0)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of workouts to return (default: 20)"),
		),
	)

	s.AddTool(listWorkoutsTool, common.GuardedToolHandler("garmin_list_workouts", instrumentation.ServiceWorkouts, "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			start := common.OptionalInt(args, "start", 0)
			limit := common.OptionalInt(args, "limit", 20)

			raw, err := client.ListWorkouts(ctx, start, limit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list workouts: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	getWorkoutTool := mcp.NewTool("garmin_get_workout",
		mcp.WithDescription("Get a workout definition by ID"),
		mcp.WithString("workoutId",
			mcp.Required(),
			mcp.Description("The ID of the workout"),
		),
	)

	s.AddTool(getWorkoutTool, common.GuardedToolHandler("garmin_get_workout", instrumentation.ServiceWorkouts, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			workoutID, err := common.RequiredString(args, "workoutId")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw, err := client.GetWorkout(ctx, workoutID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get workout: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	downloadWorkoutTool := mcp.NewTool("garmin_download_workout",
		mcp.WithDescription("Download a workout as a FIT file, returned base64-encoded"),
		mcp.WithString("workoutId",
			mcp.Required(),
			mcp.Description("The ID of the workout"),
		),
	)

	s.AddTool(downloadWorkoutTool, common.GuardedToolHandler("garmin_download_workout", instrumentation.ServiceWorkouts, "download", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			workoutID, err := common.RequiredString(args, "workoutId")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			data, err := client.DownloadWorkout(ctx, workoutID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to download workout: %v", err)), nil
			}
			return mcp.NewToolResultText(base64.StdEncoding.EncodeToString(data)), nil
		}))

	if !readOnly {
		createWorkoutTool := mcp.NewTool("garmin_create_workout",
			mcp.WithDescription("Create a workout from a Garmin workout JSON document"),
			mcp.WithString("workout",
				mcp.Required(),
				mcp.Description("The workout definition as a JSON document"),
			),
		)

		s.AddTool(createWorkoutTool, common.GuardedToolHandler("garmin_create_workout", instrumentation.ServiceWorkouts, "create", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				workout, err := common.RequiredString(args, "workout")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				if !json.Valid([]byte(workout)) {
					return mcp.NewToolResultError("workout must be a valid JSON document"), nil
				}

				raw, err := client.CreateWorkout(ctx, json.RawMessage(workout))
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to create workout: %v", err)), nil
				}
				return common.JSONResult(raw), nil
			}))

		scheduleWorkoutTool := mcp.NewTool("garmin_schedule_workout",
			mcp.WithDescription("Schedule a workout on a calendar date"),
			mcp.WithString("workoutId",
				mcp.Required(),
				mcp.Description("The ID of the workout"),
			),
			mcp.WithString("date",
				mcp.Required(),
				mcp.Description("Calendar date to schedule the workout on (YYYY-MM-DD)"),
			),
		)

		s.AddTool(scheduleWorkoutTool, common.GuardedToolHandler("garmin_schedule_workout", instrumentation.ServiceWorkouts, "update", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				workoutID, err := common.RequiredString(args, "workoutId")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				date, err := common.RequiredString(args, "date")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				raw, err := client.ScheduleWorkout(ctx, workoutID, date)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to schedule workout: %v", err)), nil
				}
				return common.JSONResult(raw), nil
			}))

		deleteWorkoutTool := mcp.NewTool("garmin_delete_workout",
			mcp.WithDescription("Delete a saved workout"),
			mcp.WithString("workoutId",
				mcp.Required(),
				mcp.Description("The ID of the workout to delete"),
			),
		)

		s.AddTool(deleteWorkoutTool, common.GuardedToolHandler("garmin_delete_workout", instrumentation.ServiceWorkouts, "delete", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				workoutID, err := common.RequiredString(args, "workoutId")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				if _, err := client.DeleteWorkout(ctx, workoutID); err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to delete workout: %v", err)), nil
				}
				return mcp.NewToolResultText(fmt.Sprintf("Workout %s deleted successfully", workoutID)), nil
			}))
	}

	return nil
}
