// Package metrics wires the OpenTelemetry instruments recorded by the HTTP
// middleware and the services.
package metrics

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Config struct {
	Endpoint    string
	ServiceName string
	Interval    time.Duration
}

// AppMetrics holds the instruments. A nil *AppMetrics records nothing.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	OrdersCreated metric.Int64Counter
	RevenueTotal  metric.Float64Counter
	CacheHits     metric.Int64Counter
	CacheMisses   metric.Int64Counter

	serviceName string
}

// ShutdownFunc flushes and stops the exporter.
type ShutdownFunc func(context.Context) error

// Init exports over OTLP/HTTP when cfg.Endpoint is set and falls back to a
// no-op meter otherwise.
func Init(ctx context.Context, cfg Config) (*AppMetrics, ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		log.Println("[METRICS] [INFO] no OTLP endpoint configured, metrics disabled")
		m, err := newAppMetrics(noop.NewMeterProvider().Meter(cfg.ServiceName), cfg.ServiceName)
		return m, func(context.Context) error { return nil }, err
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporterOpts []otlpmetrichttp.Option
	if strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://") {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithEndpointURL(strings.TrimSuffix(cfg.Endpoint, "/")+"/v1/metrics"))
	} else {
		exporterOpts = append(exporterOpts,
			otlpmetrichttp.WithEndpoint(cfg.Endpoint),
			otlpmetrichttp.WithURLPath("/v1/metrics"),
			otlpmetrichttp.WithInsecure(),
		)
	}

	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(provider)
	log.Printf("[METRICS] [INFO] exporting to %s every %s", cfg.Endpoint, interval)

	m, err := newAppMetrics(provider.Meter(cfg.ServiceName), cfg.ServiceName)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, err
	}
	return m, provider.Shutdown, nil
}

// NewWithMeter builds the instruments on an existing meter.
func NewWithMeter(meter metric.Meter, serviceName string) (*AppMetrics, error) {
	return newAppMetrics(meter, serviceName)
}

func newAppMetrics(meter metric.Meter, serviceName string) (*AppMetrics, error) {
	buckets := []float64{2, 4, 6, 8, 10, 50, 100, 200, 400, 800, 1000, 1400, 2000, 5000, 10000}

	var err error
	m := &AppMetrics{serviceName: serviceName}

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}
	if m.HTTPRequestsErrors, err = meter.Int64Counter(
		"http.server.request.error.count",
		metric.WithDescription("Total number of HTTP error requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http errors counter: %w", err)
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}
	if m.OrdersCreated, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of orders created"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create orders counter: %w", err)
	}
	if m.RevenueTotal, err = meter.Float64Counter(
		"revenue_total",
		metric.WithDescription("Total value of orders created"),
	); err != nil {
		return nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}
	if m.CacheHits, err = meter.Int64Counter(
		"cache_hits_total",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache hits counter: %w", err)
	}
	if m.CacheMisses, err = meter.Int64Counter(
		"cache_misses_total",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache misses counter: %w", err)
	}
	return m, nil
}

func (m *AppMetrics) withServiceName(attrs ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(append(attrs, attribute.String("service.name", m.serviceName))...)
}

func (m *AppMetrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := m.withServiceName(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	if status >= 400 {
		m.HTTPRequestsErrors.Add(ctx, 1, attrs)
	}
	m.HTTPRequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (m *AppMetrics) RecordCache(ctx context.Context, kind string, hit bool) {
	if m == nil {
		return
	}
	attrs := m.withServiceName(attribute.String("cache.kind", kind))
	if hit {
		m.CacheHits.Add(ctx, 1, attrs)
		return
	}
	m.CacheMisses.Add(ctx, 1, attrs)
}

func (m *AppMetrics) RecordOrder(ctx context.Context, total float64, paymentMethod string) {
	if m == nil {
		return
	}
	attrs := m.withServiceName(attribute.String("payment.method", paymentMethod))
	m.OrdersCreated.Add(ctx, 1, attrs)
	m.RevenueTotal.Add(ctx, total, attrs)
}
