package common

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/mcp/oauth"
	"github.com/teemow/garmin-mcp/internal/server"
)

// GuardedToolHandler wraps a tool handler with access enforcement, metrics
// and audit logging.
//
// Tokens carrying a denied identity pass the bearer middleware so that the
// MCP session itself works; the denial is enforced here, per tool call,
// with a readable error naming the GitHub user. Granted (or anonymous, in
// open mode) calls run the handler and are recorded against the Garmin
// service group.
//
// Usage:
//
//	s.AddTool(myTool, common.GuardedToolHandler("my_tool", instrumentation.ServiceActivities, "list", sc, handler))
func GuardedToolHandler(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		identity, hasIdentity := oauth.GetIdentityFromContext(ctx)

		// Enforce the access decision before touching Garmin Connect
		if hasIdentity && identity.Decision == oauth.DecisionDenied {
			if metrics != nil {
				metrics.RecordToolInvocationWithUser(ctx, toolName, instrumentation.StatusError, identity.Username, 0)
			}
			if auditLogger != nil {
				invocation := instrumentation.NewToolInvocation(toolName).
					WithUser(identity.Username).
					WithService(serviceName, operation).
					WithSpanContext(ctx).
					CompleteWithError(fmt.Errorf("access denied"))
				auditLogger.LogToolInvocation(invocation)
			}
			return mcp.NewToolResultError(fmt.Sprintf(
				"Access denied: GitHub user %q is not authorized to use this server", identity.Username)), nil
		}

		// If no instrumentation configured, just call the handler
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		// Start timing and create invocation record
		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(serviceName, operation)
		if hasIdentity {
			invocation.WithUser(identity.Username)
		}

		// Call the actual handler
		result, err := handler(ctx, request)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		// Record metrics
		if metrics != nil {
			metrics.RecordToolInvocationWithUser(ctx, toolName, status, identity.Username, duration)

			// Service-level metrics show which Garmin endpoints are used
			// most and how they perform
			metrics.RecordGarminAPIOperation(ctx, serviceName, operation, status, duration)
		}

		// Log audit
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
