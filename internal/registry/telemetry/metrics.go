// Package telemetry wires OpenTelemetry metrics to a Prometheus endpoint.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	serviceName = "agent-builder"
	meterName   = "agent_builder"
)

// ShutdownFunc flushes and stops the meter provider.
type ShutdownFunc func(ctx context.Context) error

// Metrics holds the instruments recorded by the server.
type Metrics struct {
	// Requests counts handled HTTP requests
	Requests metric.Int64Counter
	// ErrorCount counts HTTP responses with status >= 400
	ErrorCount metric.Int64Counter
	// RequestDuration records request latency in seconds
	RequestDuration metric.Float64Histogram
	// Exports counts rendered agent exports, by format
	Exports metric.Int64Counter
	// Imports counts module imports, by whether the module was recognized
	Imports metric.Int64Counter

	registry *prometheus.Registry
}

// InitMetrics creates a meter provider backed by a dedicated Prometheus registry.
func InitMetrics(version string) (ShutdownFunc, *Metrics, error) {
	reg := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	if err := runtime.Start(
		runtime.WithMeterProvider(provider),
		runtime.WithMinimumReadMemStatsInterval(15*time.Second),
	); err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, nil, fmt.Errorf("failed to start runtime instrumentation: %w", err)
	}

	meter := provider.Meter(meterName)
	metrics, err := newMetrics(meter)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, nil, err
	}
	metrics.registry = reg

	return provider.Shutdown, metrics, nil
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter(
		meterName+".http.requests",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create requests counter: %w", err)
	}

	errorCount, err := meter.Int64Counter(
		meterName+".http.errors",
		metric.WithDescription("Total number of HTTP requests that returned an error status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram(
		meterName+".http.request.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	exports, err := meter.Int64Counter(
		meterName+".exports",
		metric.WithDescription("Number of agent exports rendered"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exports counter: %w", err)
	}

	imports, err := meter.Int64Counter(
		meterName+".imports",
		metric.WithDescription("Number of agent modules imported"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create imports counter: %w", err)
	}

	return &Metrics{
		Requests:        requests,
		ErrorCount:      errorCount,
		RequestDuration: requestDuration,
		Exports:         exports,
		Imports:         imports,
	}, nil
}

// RecordExport counts one rendered export.
func (m *Metrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.Exports.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordImport counts one import attempt.
func (m *Metrics) RecordImport(ctx context.Context, recognized bool) {
	if m == nil {
		return
	}
	m.Imports.Add(ctx, 1, metric.WithAttributes(attribute.Bool("recognized", recognized)))
}

// PrometheusHandler serves the metrics collected by this provider.
func (m *Metrics) PrometheusHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
