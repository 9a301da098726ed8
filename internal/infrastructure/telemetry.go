package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"

	"equitycli/internal/config"
)

// MeterName is the instrumentation scope of the analysis metrics
const MeterName = "equitycli"

// Telemetry holds the providers of one CLI run
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prom.Registry
	Meter          metric.Meter
	Metrics        *AnalysisMetrics
	logger         *slog.Logger
}

// TelemetryOption customises InitializeTelemetry
type TelemetryOption func(*telemetryOptions)

type telemetryOptions struct {
	spanWriter io.Writer
}

// WithSpanWriter sends exported spans to w instead of stdout
func WithSpanWriter(w io.Writer) TelemetryOption {
	return func(o *telemetryOptions) {
		o.spanWriter = w
	}
}

// InitializeTelemetry installs a meter provider backed by a private
// Prometheus registry and, when cfg.ExportSpans is set, a tracer provider
// that writes spans as JSON. Both become the OpenTelemetry globals.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger, opts ...TelemetryOption) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := telemetryOptions{spanWriter: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	t := &Telemetry{
		Registry: prom.NewRegistry(),
		logger:   logger.With(slog.String("component", "telemetry")),
	}

	if cfg.ExportSpans {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(o.spanWriter))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(t.TracerProvider)
	}

	exporter, err := prometheus.New(prometheus.WithRegisterer(t.Registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(t.MeterProvider)

	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	t.Metrics, err = NewAnalysisMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis metrics: %w", err)
	}

	t.logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.Bool("export_spans", cfg.ExportSpans))
	return t, nil
}

// WriteMetrics snapshots the registry to path in the Prometheus text format
func (t *Telemetry) WriteMetrics(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	t.logger.Info("Metrics written", slog.String("path", path))
	return nil
}

// Shutdown flushes pending spans and stops both providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
