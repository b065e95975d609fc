package server

import (
	"context"
	"sync"

	"github.com/teemow/garmin-mcp/internal/garmin"
	"github.com/teemow/garmin-mcp/internal/instrumentation"
)

// ServerContext holds the shared dependencies for the MCP server.
// Every tool handler receives it and reaches Garmin Connect through the
// single client it owns.
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	garminClient *garmin.Client
	metrics      *instrumentation.Metrics
	auditLogger  *instrumentation.AuditLogger
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context wrapping the given Garmin
// client. The client may be disconnected at startup; tools surface that as
// a per-call error.
func NewServerContext(ctx context.Context, client *garmin.Client) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		garminClient: client,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// GarminClient returns the shared Garmin Connect client
func (sc *ServerContext) GarminClient() *garmin.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.garminClient
}

// SetGarminClient replaces the Garmin Connect client. Used by tests.
func (sc *ServerContext) SetGarminClient(client *garmin.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.garminClient = client
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder for tool instrumentation
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is
// disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger for tool invocations
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
