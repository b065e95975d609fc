package common

import (
	"fmt"

	"github.com/teemow/garmin-mcp/internal/garmin"
	"github.com/teemow/garmin-mcp/internal/server"
)

// GarminClient returns the shared Garmin Connect client, or an error when
// the server was started without one.
func GarminClient(sc *server.ServerContext) (*garmin.Client, error) {
	client := sc.GarminClient()
	if client == nil {
		return nil, fmt.Errorf("Garmin Connect client is not configured. Set GARMIN_EMAIL and GARMIN_PASSWORD or provide a token file via GARMINTOKENS")
	}
	return client, nil
}
