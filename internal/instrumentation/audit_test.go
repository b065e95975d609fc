package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolInvocationLifecycle(t *testing.T) {
	ti := NewToolInvocation("garmin_get_sleep").
		WithUser("octocat").
		WithService(ServiceHealth, "get").
		CompleteSuccess()

	assert.Equal(t, "garmin_get_sleep", ti.Tool)
	assert.Equal(t, "octocat", ti.Username)
	assert.Equal(t, ServiceHealth, ti.ServiceName)
	assert.Equal(t, "get", ti.Operation)
	assert.True(t, ti.Success)
	assert.Empty(t, ti.Error)
	assert.Equal(t, StatusSuccess, ti.Status())
	assert.GreaterOrEqual(t, ti.Duration, time.Duration(0))
}

func TestToolInvocationError(t *testing.T) {
	ti := NewToolInvocation("garmin_list_activities").
		WithService(ServiceActivities, "list").
		CompleteWithError(errors.New("connection refused"))

	assert.False(t, ti.Success)
	assert.Equal(t, "connection refused", ti.Error)
	assert.Equal(t, StatusError, ti.Status())
}

func TestLogAttrsAnonymizeUser(t *testing.T) {
	ti := NewToolInvocation("garmin_get_sleep").
		WithUser("octocat").
		CompleteSuccess()

	attrs := ti.LogAttrs()
	keys := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		keys[attr.Key] = attr.Value.String()
	}

	require.Contains(t, keys, "user_hash")
	assert.NotContains(t, keys["user_hash"], "octocat")
	assert.NotContains(t, keys, "user")
}

func TestLogAuditAttrsIncludeUser(t *testing.T) {
	ti := NewToolInvocation("garmin_get_sleep").
		WithUser("octocat").
		CompleteSuccess()

	attrs := ti.LogAuditAttrs()
	keys := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		keys[attr.Key] = attr.Value.String()
	}

	require.Contains(t, keys, "user")
	assert.Equal(t, "octocat", keys["user"])
}

func TestAuditLoggerLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	al := NewAuditLogger(logger)

	al.LogToolInvocation(NewToolInvocation("garmin_get_sleep").
		WithUser("octocat").
		CompleteSuccess())
	assert.Contains(t, buf.String(), "tool_executed")
	assert.NotContains(t, buf.String(), "octocat", "default audit logging must not leak the username")

	buf.Reset()
	al.LogToolInvocation(NewToolInvocation("garmin_get_sleep").
		CompleteWithError(errors.New("boom")))
	assert.Contains(t, buf.String(), "tool_failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestAuditLoggerDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation("garmin_get_sleep").CompleteSuccess())
	assert.Empty(t, buf.String())
}

func TestAuditLoggerIncludePII(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true, IncludePII: true})

	al.LogToolInvocation(NewToolInvocation("garmin_get_sleep").
		WithUser("octocat").
		CompleteSuccess())
	assert.Contains(t, buf.String(), "octocat")
}
