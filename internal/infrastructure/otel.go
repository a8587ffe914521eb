package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jocelynchengyang/correlationAnalysis/internal/config"
)

const (
	ServiceVersion = "1.0.0"
	MeterName      = "correlationAnalysis"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	EnableTracing  bool
	EnableMetrics  bool
	TraceFile      string // spans as pretty-printed JSON
	MetricsFile    string // Prometheus text format, written on shutdown
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *AnalysisMetrics
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	traceFile   *os.File
	metricsFile string
}

// NewOTelConfig resolves the telemetry settings against the run's output directory
func NewOTelConfig(cfg config.TelemetryConfig, outDir string) *OTelConfig {
	return &OTelConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: ServiceVersion,
		EnableTracing:  cfg.Tracing,
		EnableMetrics:  cfg.Metrics,
		TraceFile:      resolve(outDir, cfg.TraceFile),
		MetricsFile:    resolve(outDir, cfg.MetricsFile),
	}
}

func resolve(dir, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// InitializeOTel sets up tracing and metrics. Disabled signals get no-op
// providers, so callers never need to nil-check Tracer, Meter or Metrics.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = &OTelConfig{ServiceName: MeterName, ServiceVersion: ServiceVersion}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()
	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	if cfg.EnableTracing || cfg.EnableMetrics {
		res := createResource(cfg)

		if cfg.EnableTracing {
			if err := initializeTracing(ctx, cfg, res, providers); err != nil {
				return nil, fmt.Errorf("failed to initialize tracing: %w", err)
			}
		}
		if cfg.EnableMetrics {
			if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
				providers.Shutdown(ctx)
				return nil, fmt.Errorf("failed to initialize metrics: %w", err)
			}
		}
	}

	metrics, err := CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		providers.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	providers.Metrics = metrics

	logger.DebugContext(ctx, "OpenTelemetry initialization complete",
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	)
}

// initializeTracing sets up a stdout exporter writing to the trace file
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	if cfg.TraceFile == "" {
		return errors.New("trace file is not set")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.Create(cfg.TraceFile)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	providers.traceFile = file
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	providers.Logger.DebugContext(ctx, "Tracing initialized",
		slog.String("trace_file", cfg.TraceFile))
	return nil
}

// initializeMetrics sets up the prometheus exporter on a private registry
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	if cfg.MetricsFile == "" {
		return errors.New("metrics file is not set")
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.metricsFile = cfg.MetricsFile
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetMeterProvider(mp)

	providers.Logger.DebugContext(ctx, "Metrics initialized",
		slog.String("metrics_file", cfg.MetricsFile))
	return nil
}

// AnalysisMetrics holds the per-measurement instruments
type AnalysisMetrics struct {
	MeasurementsAnalyzed metric.Int64Counter
	MeasurementsSkipped  metric.Int64Counter
	MeasurementDuration  metric.Float64Histogram
}

// CreateAnalysisMetrics creates the analysis instruments on meter
func CreateAnalysisMetrics(meter metric.Meter) (*AnalysisMetrics, error) {
	analyzed, err := meter.Int64Counter(
		"measurements_analyzed_total",
		metric.WithDescription("Total number of measurements with computed statistics"),
	)
	if err != nil {
		return nil, err
	}

	skipped, err := meter.Int64Counter(
		"measurements_skipped_total",
		metric.WithDescription("Total number of measurements skipped for insufficient data"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"measurement_duration_seconds",
		metric.WithDescription("Time spent extracting, computing and plotting one measurement"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &AnalysisMetrics{
		MeasurementsAnalyzed: analyzed,
		MeasurementsSkipped:  skipped,
		MeasurementDuration:  duration,
	}, nil
}

// RecordMeasurement records the outcome and duration of one measurement
func RecordMeasurement(ctx context.Context, metrics *AnalysisMetrics, key, status string, skipped bool, duration time.Duration) {
	if metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("measurement.key", key),
		attribute.String("status", status),
	)
	if skipped {
		metrics.MeasurementsSkipped.Add(ctx, 1, attrs)
	} else {
		metrics.MeasurementsAnalyzed.Add(ctx, 1, attrs)
	}
	metrics.MeasurementDuration.Record(ctx, duration.Seconds(), attrs)
}

// Shutdown flushes spans, writes the metrics file and releases the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
		p.TracerProvider = nil
	}
	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace file: %w", err))
		}
		p.traceFile = nil
	}

	if p.MeterProvider != nil {
		if err := prometheus.WriteToTextfile(p.metricsFile, p.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics file: %w", err))
		}
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
		p.MeterProvider = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %w", errors.Join(errs...))
	}

	p.Logger.DebugContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts the active span's trace ID for log correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}
