package profile_tools

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

// RegisterProfileTools registers all profile-related tools with the MCP server
func RegisterProfileTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	profileTools := []struct {
		name        string
		description string
		failureMsg  string
		fetch       func(ctx context.Context, client *garmin.Client) (json.RawMessage, error)
	}{
		{
			name:        "garmin_get_social_profile",
			description: "Get the public social profile of the connected account",
			failureMsg:  "Failed to get social profile",
			fetch: func(ctx context.Context, client *garmin.Client) (json.RawMessage, error) {
				return client.GetSocialProfile(ctx)
			},
		},
		{
			name:        "garmin_get_personal_information",
			description: "Get personal information (age, height, weight, gender) of the connected account",
			failureMsg:  "Failed to get personal information",
			fetch: func(ctx context.Context, client *garmin.Client) (json.RawMessage, error) {
				return client.GetPersonalInformation(ctx)
			},
		},
		{
			name:        "garmin_get_user_settings",
			description: "Get the account's user settings (units, formats, sleep windows)",
			failureMsg:  "Failed to get user settings",
			fetch: func(ctx context.Context, client *garmin.Client) (json.RawMessage, error) {
				return client.GetUserSettings(ctx)
			},
		},
	}

	for _, pt := range profileTools {
		tool := mcp.NewTool(pt.name,
			mcp.WithDescription(pt.description),
		)

		s.AddTool(tool, common.GuardedToolHandler(pt.name, instrumentation.ServiceProfile, "get", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				client, err := common.GarminClient(sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				raw, err := pt.fetch(ctx, client)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("%s: %v", pt.failureMsg, err)), nil
				}
				return common.JSONResult(raw), nil
			}))
	}

	return nil
}
