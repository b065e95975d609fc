package gear_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/server"
)

func TestRegisterGearTools(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)

	for _, readOnly := range []bool{true, false} {
		s := mcpserver.NewMCPServer("garmin-mcp", "test",
			mcpserver.WithToolCapabilities(true),
		)
		if err := RegisterGearTools(s, sc, readOnly); err != nil {
			t.Fatalf("RegisterGearTools(readOnly=%v) error = %v", readOnly, err)
		}
	}
}
