package data_tools

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/server"
	"github.com/teemow/garmin-mcp/internal/tools/common"
)

// RegisterDataTools registers all data exchange tools with the MCP server
func RegisterDataTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	bloodPressureTool := mcp.NewTool("garmin_get_blood_pressure",
		mcp.WithDescription("Get blood pressure measurements for a date range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(bloodPressureTool, common.GuardedToolHandler("garmin_get_blood_pressure", instrumentation.ServiceData, "list", sc,
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

			raw, err := client.GetBloodPressure(ctx, startDate, endDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get blood pressure: %v", err)), nil
			}
			return common.JSONResult(raw), nil
		}))

	downloadActivityTool := mcp.NewTool("garmin_download_activity",
		mcp.WithDescription("Download the original recording of an activity, returned base64-encoded"),
		mcp.WithString("activityId",
			mcp.Required(),
			mcp.Description("The ID of the activity"),
		),
	)

	s.AddTool(downloadActivityTool, common.GuardedToolHandler("garmin_download_activity", instrumentation.ServiceData, "download", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.GarminClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			activityID, err := common.RequiredString(args, "activityId")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			data, err := client.DownloadActivity(ctx, activityID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to download activity: %v", err)), nil
			}
			return mcp.NewToolResultText(base64.StdEncoding.EncodeToString(data)), nil
		}))

	if !readOnly {
		addBloodPressureTool := mcp.NewTool("garmin_add_blood_pressure",
			mcp.WithDescription("Record a manual blood pressure measurement"),
			mcp.WithString("date",
				mcp.Required(),
				mcp.Description("Calendar date of the measurement (YYYY-MM-DD)"),
			),
			mcp.WithNumber("systolic",
				mcp.Required(),
				mcp.Description("Systolic pressure in mmHg"),
			),
			mcp.WithNumber("diastolic",
				mcp.Required(),
				mcp.Description("Diastolic pressure in mmHg"),
			),
			mcp.WithNumber("pulse",
				mcp.Required(),
				mcp.Description("Pulse in beats per minute"),
			),
			mcp.WithString("notes",
				mcp.Description("Free-form notes for the measurement"),
			),
		)

		s.AddTool(addBloodPressureTool, common.GuardedToolHandler("garmin_add_blood_pressure", instrumentation.ServiceData, "create", sc,
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
				systolic, err := common.RequiredInt(args, "systolic")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				diastolic, err := common.RequiredInt(args, "diastolic")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				pulse, err := common.RequiredInt(args, "pulse")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				notes := common.OptionalString(args, "notes", "")

				raw, err := client.AddBloodPressure(ctx, date, systolic, diastolic, pulse, notes)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to add blood pressure: %v", err)), nil
				}
				return common.JSONResult(raw), nil
			}))

		addHydrationTool := mcp.NewTool("garmin_add_hydration",
			mcp.WithDescription("Log a hydration amount for a calendar date"),
			mcp.WithString("date",
				mcp.Required(),
				mcp.Description("Calendar date (YYYY-MM-DD)"),
			),
			mcp.WithNumber("valueMl",
				mcp.Required(),
				mcp.Description("Amount of liquid in milliliters"),
			),
		)

		s.AddTool(addHydrationTool, common.GuardedToolHandler("garmin_add_hydration", instrumentation.ServiceData, "create", sc,
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
				valueML, err := common.RequiredFloat(args, "valueMl")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				raw, err := client.AddHydration(ctx, date, valueML)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to add hydration: %v", err)), nil
				}
				return common.JSONResult(raw), nil
			}))

		uploadActivityTool := mcp.NewTool("garmin_upload_activity",
			mcp.WithDescription("Upload an activity file (FIT, GPX or TCX) from base64-encoded content"),
			mcp.WithString("filename",
				mcp.Required(),
				mcp.Description("The file name including its extension, e.g. 'run.fit'"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("The base64-encoded file content"),
			),
		)

		s.AddTool(uploadActivityTool, common.GuardedToolHandler("garmin_upload_activity", instrumentation.ServiceData, "upload", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				filename, err := common.RequiredString(args, "filename")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				encoded, err := common.RequiredString(args, "content")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				content, err := base64.StdEncoding.DecodeString(encoded)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("content is not valid base64: %v", err)), nil
				}

				raw, err := client.UploadActivity(ctx, filename, content)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to upload activity: %v", err)), nil
				}
				return common.JSONResult(raw), nil
			}))
	}

	return nil
}
