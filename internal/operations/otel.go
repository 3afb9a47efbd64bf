package operations

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"custetl/internal/infrastructure"
)

const (
	TracerName = "custetl.pipeline"
)

// StageTracer provides OpenTelemetry instrumentation for pipeline stages
type StageTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewStageTracer creates a stage tracer from run telemetry
func NewStageTracer(tel *infrastructure.Telemetry) *StageTracer {
	return &StageTracer{
		tracer:  tel.Tracer,
		metrics: tel.Metrics,
	}
}

// TraceRun creates the root span of a pipeline run
func (st *StageTracer) TraceRun(ctx context.Context, runID, root string) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.root", root),
		),
	)
}

// TraceStage creates a span for one stage
func (st *StageTracer) TraceStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "pipeline."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("stage", stage)),
	)
}

// EndStage records the stage outcome on its span and the duration metric
func (st *StageTracer) EndStage(ctx context.Context, span trace.Span, stage string, duration time.Duration, err error) {
	st.metrics.RecordStageDuration(ctx, stage, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// EndRun closes the run span and counts the run by status
func (st *StageTracer) EndRun(ctx context.Context, span trace.Span, summary RunCounts, err error) {
	status := infrastructure.RunStatusSuccess
	if err != nil {
		status = infrastructure.RunStatusFailure
		infrastructure.RecordError(ctx, err)
	} else {
		span.SetAttributes(
			attribute.Int("rows.raw", summary.Raw),
			attribute.Int("rows.clean", summary.Clean),
			attribute.Int("rows.features", summary.Features),
		)
		span.SetStatus(codes.Ok, "")
	}

	st.metrics.RecordRun(ctx, status)
	span.End()
}

// RunCounts are the row counts attached to the run span
type RunCounts struct {
	Raw      int
	Clean    int
	Features int
}
