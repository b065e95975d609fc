package weight_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/server"
)

func TestRegisterWeightTools(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)

	// Registration must succeed with and without the write tools
	for _, readOnly := range []bool{true, false} {
		s := mcpserver.NewMCPServer("garmin-mcp", "test",
			mcpserver.WithToolCapabilities(true),
		)
		if err := RegisterWeightTools(s, sc, readOnly); err != nil {
			t.Fatalf("RegisterWeightTools(readOnly=%v) error = %v", readOnly, err)
		}
	}
}
