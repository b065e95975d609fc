package health_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/server"
)

func TestRegisterHealthTools(t *testing.T) {
	s := mcpserver.NewMCPServer("garmin-mcp", "test",
		mcpserver.WithToolCapabilities(true),
	)
	sc := server.NewServerContext(context.Background(), nil)

	if err := RegisterHealthTools(s, sc, true); err != nil {
		t.Fatalf("RegisterHealthTools() error = %v", err)
	}
}
