package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProviderIsNoOp(t *testing.T) {
	p, err := NewProvider(context.Background(), "workspace-mcp", "test", false)
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.Handler())
	require.NotNil(t, p.Metrics())

	// Recording against a no-op provider must not panic.
	p.Metrics().RecordToolCall(context.Background(), "drive_search_files", "drive", "success", time.Millisecond)
	p.Metrics().RecordGoogleAPIOperation(context.Background(), "drive", "files.list", "success", time.Millisecond)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestEnabledProviderRecords(t *testing.T) {
	p, err := NewProvider(context.Background(), "workspace-mcp", "test", true)
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(context.Background()) }()

	assert.True(t, p.Enabled())
	assert.NotNil(t, p.Handler())

	p.Metrics().RecordToolCall(context.Background(), "gmail_search_messages", "gmail", "error", 50*time.Millisecond)
	p.Metrics().RecordGoogleAPIOperation(context.Background(), "gmail", "messages.list", "error", 50*time.Millisecond)

	err = p.Metrics().ObserveCacheStats(func() (uint64, uint64, uint64) { return 3, 1, 0 })
	assert.NoError(t, err)
}

func TestNilMetricsRecorderIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordToolCall(context.Background(), "t", "s", "success", time.Second)
	m.RecordGoogleAPIOperation(context.Background(), "s", "op", "success", time.Second)
	assert.NoError(t, m.ObserveCacheStats(func() (uint64, uint64, uint64) { return 0, 0, 0 }))
}
