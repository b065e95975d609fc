package common

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/garmin-mcp/internal/mcp/oauth"
	"github.com/teemow/garmin-mcp/internal/server"
)

func TestGuardedToolHandlerDeniesRevokedIdentity(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)
	handlerCalled := false
	guarded := GuardedToolHandler("garmin_get_sleep", "health", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			handlerCalled = true
			return mcp.NewToolResultText("ok"), nil
		})

	ctx := oauth.ContextWithIdentity(context.Background(), oauth.Identity{
		Username: "intruder",
		Decision: oauth.DecisionDenied,
	})
	result, err := guarded(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("guarded handler error = %v", err)
	}
	if handlerCalled {
		t.Error("inner handler ran for a denied identity")
	}
	if !result.IsError {
		t.Fatal("expected an error result for a denied identity")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Access denied") {
		t.Errorf("result = %q, want access denied message", text)
	}
	if !strings.Contains(text, "intruder") {
		t.Errorf("result = %q, want the GitHub user named", text)
	}
}

func TestGuardedToolHandlerPassesGrantedIdentity(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)
	handlerCalled := false
	guarded := GuardedToolHandler("garmin_get_sleep", "health", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			handlerCalled = true
			return mcp.NewToolResultText("ok"), nil
		})

	ctx := oauth.ContextWithIdentity(context.Background(), oauth.Identity{
		Username: "octocat",
		Decision: oauth.DecisionGranted,
	})
	result, err := guarded(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("guarded handler error = %v", err)
	}
	if !handlerCalled {
		t.Fatal("inner handler was not called")
	}
	if result.IsError {
		t.Errorf("result marked as error: %q", resultText(t, result))
	}
}

func TestGuardedToolHandlerPassesAnonymous(t *testing.T) {
	// Stdio transport carries no identity at all
	sc := server.NewServerContext(context.Background(), nil)
	handlerCalled := false
	guarded := GuardedToolHandler("garmin_get_sleep", "health", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			handlerCalled = true
			return mcp.NewToolResultText("ok"), nil
		})

	if _, err := guarded(context.Background(), mcp.CallToolRequest{}); err != nil {
		t.Fatalf("guarded handler error = %v", err)
	}
	if !handlerCalled {
		t.Error("inner handler was not called without an identity")
	}
}

func TestGarminClientUnconfigured(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)
	_, err := GarminClient(sc)
	if err == nil {
		t.Fatal("expected error with no Garmin client configured")
	}
	if !strings.Contains(err.Error(), "GARMIN_EMAIL") {
		t.Errorf("error = %q, want configuration hint", err.Error())
	}
}
