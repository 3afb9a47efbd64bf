package infrastructure

import (
	"context"
	"fmt"
	"io"
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
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"custetl/internal/config"
)

const (
	ServiceName = config.AppName
	MeterName   = "custetl"
)

// Run status values recorded on custetl_runs
const (
	RunStatusSuccess = "success"
	RunStatusFailure = "failure"
)

// TelemetryOptions holds OpenTelemetry configuration for a single run
type TelemetryOptions struct {
	// TraceExporter is "none" or "stdout"
	TraceExporter string
	// MetricsFile receives the Prometheus text exposition on Shutdown; empty disables
	MetricsFile string
	// TraceWriter receives exported spans; nil means stderr
	TraceWriter io.Writer
}

// Telemetry holds the providers and instruments of one pipeline run
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *PipelineMetrics
	Registry       *prometheus.Registry

	metricsFile string
	logger      *slog.Logger
}

// PipelineMetrics holds the instruments recorded by the pipeline
type PipelineMetrics struct {
	RowsRead      metric.Int64Counter
	RowsWritten   metric.Int64Counter
	RowsDropped   metric.Int64Counter
	StageDuration metric.Float64Histogram
	Runs          metric.Int64Counter
}

// InitializeTelemetry builds tracing and metrics for a run.
// Metrics are always collected into a private registry so that nothing leaks
// between runs in the same process.
func InitializeTelemetry(opts TelemetryOptions, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TraceExporter == "" {
		opts.TraceExporter = config.TraceExporterNone
	}

	ctx := context.Background()

	res, err := createResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t := &Telemetry{
		metricsFile: opts.MetricsFile,
		logger:      logger,
	}

	if err := t.initializeTracing(opts, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := t.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", opts.TraceExporter),
		slog.String("metrics_file", opts.MetricsFile))

	return t, nil
}

// NewNoopTelemetry returns telemetry that records metrics in memory and drops spans
func NewNoopTelemetry() *Telemetry {
	t, err := InitializeTelemetry(TelemetryOptions{TraceExporter: config.TraceExporterNone}, nil)
	if err != nil {
		// Only the resource and instrument constructors can fail and none of
		// them do with static arguments.
		panic(fmt.Sprintf("failed to create noop telemetry: %v", err))
	}
	return t
}

func createResource() (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

func (t *Telemetry) initializeTracing(opts TelemetryOptions, res *resource.Resource) error {
	switch opts.TraceExporter {
	case config.TraceExporterNone:
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
		return nil
	case config.TraceExporterStdout:
	default:
		return fmt.Errorf("unsupported trace exporter: %s", opts.TraceExporter)
	}

	w := opts.TraceWriter
	if w == nil {
		w = os.Stderr
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	t.TracerProvider = tp
	t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	otel.SetTracerProvider(tp)

	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = prometheus.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(t.Registry),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
		otelprom.WithoutUnits(),
		otelprom.WithoutCounterSuffixes(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	t.Metrics, err = CreatePipelineMetrics(t.Meter)
	return err
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"custetl_rows_read",
		metric.WithDescription("Rows read from the raw customer file"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"custetl_rows_written",
		metric.WithDescription("Rows written per output file"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"custetl_rows_dropped",
		metric.WithDescription("Rows dropped during cleaning by reason"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"custetl_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter(
		"custetl_runs",
		metric.WithDescription("Pipeline runs by final status"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsRead:      rowsRead,
		RowsWritten:   rowsWritten,
		RowsDropped:   rowsDropped,
		StageDuration: stageDuration,
		Runs:          runs,
	}, nil
}

// RecordRowsRead adds n to custetl_rows_read
func (m *PipelineMetrics) RecordRowsRead(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.RowsRead.Add(ctx, int64(n))
}

// RecordRowsWritten adds n to custetl_rows_written for output
func (m *PipelineMetrics) RecordRowsWritten(ctx context.Context, output string, n int) {
	if m == nil {
		return
	}
	m.RowsWritten.Add(ctx, int64(n), metric.WithAttributes(attribute.String("output", output)))
}

// RecordRowsDropped adds one sample per reason
func (m *PipelineMetrics) RecordRowsDropped(ctx context.Context, dropped map[string]int) {
	if m == nil {
		return
	}
	for reason, n := range dropped {
		m.RowsDropped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// RecordStageDuration records how long stage took
func (m *PipelineMetrics) RecordStageDuration(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRun counts a finished run
func (m *PipelineMetrics) RecordRun(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// Shutdown flushes spans and writes the metrics file when one is configured
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.metricsFile != "" {
		if err := t.WriteMetricsFile(t.metricsFile); err != nil {
			errs = append(errs, err)
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}

	t.logger.DebugContext(ctx, "Telemetry shutdown complete")
	return nil
}

// WriteMetricsFile writes the current registry contents in Prometheus text format
func (t *Telemetry) WriteMetricsFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
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
