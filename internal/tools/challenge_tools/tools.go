package challenge_tools

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

// RegisterChallengeTools registers all challenge-related tools with the MCP server
func RegisterChallengeTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	challengeTools := []struct {
		name        string
		description string
		failureMsg  string
		fetch       func(ctx context.Context, client *garmin.Client, start, limit int) (json.RawMessage, error)
	}{
		{
			name:        "garmin_get_badge_challenges",
			description: "List completed badge challenges",
			failureMsg:  "Failed to get badge challenges",
			fetch: func(ctx context.Context, client *garmin.Client, start, limit int) (json.RawMessage, error) {
				return client.GetBadgeChallenges(ctx, start, limit)
			},
		},
		{
			name:        "garmin_get_available_badge_challenges",
			description: "List badge challenges currently available to join",
			failureMsg:  "Failed to get available badge challenges",
			fetch: func(ctx context.Context, client *garmin.Client, start, limit int) (json.RawMessage, error) {
				return client.GetAvailableBadgeChallenges(ctx, start, limit)
			},
		},
		{
			name:        "garmin_get_non_completed_badge_challenges",
			description: "List joined badge challenges that are not yet completed",
			failureMsg:  "Failed to get non-completed badge challenges",
			fetch: func(ctx context.Context, client *garmin.Client, start, limit int) (json.RawMessage, error) {
				return client.GetNonCompletedBadgeChallenges(ctx, start, limit)
			},
		},
		{
			name:        "garmin_get_adhoc_challenges",
			description: "List ad-hoc challenges with friends",
			failureMsg:  "Failed to get ad-hoc challenges",
			fetch: func(ctx context.Context, client *garmin.Client, start, limit int) (json.RawMessage, error) {
				return client.GetAdhocChallenges(ctx, start, limit)
			},
		},
		{
			name:        "garmin_get_in_progress_virtual_challenges",
			description: "List expedition style virtual challenges in progress",
			failureMsg:  "Failed to get virtual challenges",
			fetch: func(ctx context.Context, client *garmin.Client, start, limit int) (json.RawMessage, error) {
				return client.GetInProgressVirtualChallenges(ctx, start, limit)
			},
		},
	}

	for _, ct := range challengeTools {
		tool := mcp.NewTool(ct.name,
			mcp.WithDescription(ct.description),
			mcp.WithNumber("start",
				mcp.Description("Pagination offset (default: 0)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of challenges to return (default: 20)"),
			),
		)

		s.AddTool(tool, common.GuardedToolHandler(ct.name, instrumentation.ServiceChallenges, "list", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				start := common.OptionalInt(args, "start", 0)
				limit := common.OptionalInt(args, "limit", 20)

				raw, err := ct.fetch(ctx, client, start, limit)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("%s: %v", ct.failureMsg, err)), nil
				}
				return common.JSONResult(raw), nil
			}))
	}

	return nil
}
