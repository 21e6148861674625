package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service. A nil *Metrics is valid
// and records nothing, so tests can pass nil.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	RecordOpsTotal    metric.Int64Counter
	IDsAllocatedTotal metric.Int64Counter

	// Report metrics
	RenderDurationMs    metric.Float64Histogram
	RenderFailuresTotal metric.Int64Counter
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/tinyhearts/records-service")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	recordOpsTotal, err := meter.Int64Counter(
		"record_operations_total",
		metric.WithDescription("Total number of patient record operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	idsAllocatedTotal, err := meter.Int64Counter(
		"patient_ids_allocated_total",
		metric.WithDescription("Total number of candidate patient IDs allocated"),
		metric.WithUnit("{id}"),
	)
	if err != nil {
		return nil, err
	}

	renderDurationMs, err := meter.Float64Histogram(
		"report_render_duration_milliseconds",
		metric.WithDescription("PDF report render duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	renderFailuresTotal, err := meter.Int64Counter(
		"report_render_failures_total",
		metric.WithDescription("Total number of failed PDF report renders"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPDurationMs:      httpDurationMs,
		RecordOpsTotal:      recordOpsTotal,
		IDsAllocatedTotal:   idsAllocatedTotal,
		RenderDurationMs:    renderDurationMs,
		RenderFailuresTotal: renderFailuresTotal,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordRecordOperation records a patient record operation metric
func (m *Metrics) RecordRecordOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.RecordOpsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordIDAllocation records a candidate patient ID allocation metric
func (m *Metrics) RecordIDAllocation(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.IDsAllocatedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("clinic_code", code),
	))
}

// RecordRender records a report render metric
func (m *Metrics) RecordRender(ctx context.Context, durationMs float64, failed bool) {
	if m == nil {
		return
	}
	m.RenderDurationMs.Record(ctx, durationMs, metric.WithAttributes(
		attribute.Bool("failed", failed),
	))
	if failed {
		m.RenderFailuresTotal.Add(ctx, 1)
	}
}
