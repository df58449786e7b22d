// Package instrumentation provides OpenTelemetry metrics for tool
// invocations and Google API operations, exposed via a Prometheus
// endpoint when metrics serving is enabled.
package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrTool      = "tool"
	attrService   = "service"
	attrOperation = "operation"
	attrStatus    = "status"
)

// Metrics provides methods for recording observability metrics. The zero
// value is a no-op recorder.
type Metrics struct {
	meter metric.Meter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordToolCall records an MCP tool invocation with tool name, backing
// service, status and duration. Status is "success" or "error".
func (m *Metrics) RecordToolCall(ctx context.Context, tool, service, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
		attribute.String(attrService, service),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGoogleAPIOperation records a Google API operation with service,
// operation, status and duration.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// ObserveCacheStats registers observable counters fed from the response
// cache. stats is polled at each metrics collection; a no-op recorder or
// a nil stats function registers nothing.
func (m *Metrics) ObserveCacheStats(stats func() (hits, misses, evictions uint64)) error {
	if m == nil || m.meter == nil || stats == nil {
		return nil
	}

	hitsTotal, err := m.meter.Int64ObservableCounter(
		"mcp_cache_hits_total",
		metric.WithDescription("Total number of response cache hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create mcp_cache_hits_total counter: %w", err)
	}
	missesTotal, err := m.meter.Int64ObservableCounter(
		"mcp_cache_misses_total",
		metric.WithDescription("Total number of response cache misses"),
	)
	if err != nil {
		return fmt.Errorf("failed to create mcp_cache_misses_total counter: %w", err)
	}
	evictionsTotal, err := m.meter.Int64ObservableCounter(
		"mcp_cache_evictions_total",
		metric.WithDescription("Total number of response cache evictions"),
	)
	if err != nil {
		return fmt.Errorf("failed to create mcp_cache_evictions_total counter: %w", err)
	}

	_, err = m.meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		hits, misses, evictions := stats()
		o.ObserveInt64(hitsTotal, int64(hits))
		o.ObserveInt64(missesTotal, int64(misses))
		o.ObserveInt64(evictionsTotal, int64(evictions))
		return nil
	}, hitsTotal, missesTotal, evictionsTotal)
	if err != nil {
		return fmt.Errorf("failed to register cache stats callback: %w", err)
	}
	return nil
}
