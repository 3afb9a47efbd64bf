package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"custetl/internal/config"
	"custetl/internal/dataprocessing"
	"custetl/internal/exporter"
	"custetl/internal/infrastructure"
	"custetl/pkg/contracts/domain"
)

// Output names recorded on custetl_rows_written
const (
	OutputClean    = "clean"
	OutputFeatures = "features"
)

// Pipeline runs Extract, Transform, ComputeFeatures and the two loads against
// resolved project paths
type Pipeline struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	tel    *infrastructure.Telemetry
	tracer *StageTracer

	cleaner    *dataprocessing.Cleaner
	validator  *dataprocessing.RecordValidator
	summarizer *dataprocessing.Summarizer
	writer     *exporter.CSVWriter
}

// NewPipeline wires the stages. A nil logger falls back to the global logger and
// nil telemetry records metrics in memory only.
func NewPipeline(cfg *config.Config, paths *config.Paths, logger *slog.Logger, tel *infrastructure.Telemetry) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if paths == nil {
		return nil, fmt.Errorf("pipeline requires resolved paths")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if tel == nil {
		tel = infrastructure.NewNoopTelemetry()
	}

	p := &Pipeline{
		cfg:        cfg,
		paths:      paths,
		logger:     logger.With("component", "pipeline"),
		tel:        tel,
		tracer:     NewStageTracer(tel),
		cleaner:    dataprocessing.NewCleaner(cfg.Pipeline.AllowedStates, logger),
		summarizer: dataprocessing.NewSummarizer(logger),
		writer:     exporter.NewCSVWriter(logger),
	}

	if cfg.Pipeline.StrictValidation {
		v, err := dataprocessing.NewRecordValidator(cfg.Pipeline.AllowedStates)
		if err != nil {
			return nil, fmt.Errorf("failed to create record validator: %w", err)
		}
		p.validator = v
	}

	return p, nil
}

// RunPipeline runs the job under root with the default configuration
func RunPipeline(ctx context.Context, root string) (*domain.RunSummary, error) {
	cfg := config.Default()
	paths, err := config.NewPaths(root, cfg)
	if err != nil {
		return nil, err
	}

	p, err := NewPipeline(cfg, paths, nil, nil)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

// Run executes every stage in order. The first failure aborts the run and is
// returned as a *StageError; files written before it remain on disk.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunSummary, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)

	ctx, runSpan := p.tracer.TraceRun(ctx, runID, p.paths.Root)
	start := time.Now()

	p.logger.InfoContext(ctx, "Pipeline run started",
		slog.String("root", p.paths.Root),
		slog.String("source", p.paths.RawCustomersCSV),
		slog.Bool("strict_validation", p.validator != nil))

	summary, err := p.run(ctx, runID)

	counts := RunCounts{}
	if summary != nil {
		counts = RunCounts{Raw: summary.RawRowCount, Clean: summary.CleanRowCount, Features: summary.FeaturesRowCount}
	}
	p.tracer.EndRun(ctx, runSpan, counts, err)

	if err != nil {
		p.logger.ErrorContext(ctx, "Pipeline run failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return nil, err
	}

	p.logger.InfoContext(ctx, "Pipeline run completed",
		slog.String("clean_path", summary.CleanPath),
		slog.String("features_path", summary.FeaturesPath),
		slog.Int("clean_rows", summary.CleanRowCount),
		slog.Int("features_rows", summary.FeaturesRowCount),
		slog.Duration("duration", time.Since(start)))

	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, runID string) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{RunID: runID}
	metrics := p.tel.Metrics

	var raw *domain.Table
	err := p.stage(ctx, StageExtract, func(ctx context.Context) error {
		var err error
		raw, err = dataprocessing.Extract(p.paths.RawCustomersCSV)
		return err
	})
	if err != nil {
		return nil, err
	}
	summary.RawRowCount = raw.Len()
	metrics.RecordRowsRead(ctx, raw.Len())

	var clean domain.CustomerTable
	err = p.stage(ctx, StageTransform, func(ctx context.Context) error {
		var report dataprocessing.CleaningReport
		var err error
		clean, report, err = p.cleaner.Transform(ctx, raw)
		if err != nil {
			return err
		}
		summary.DroppedRows = report.DroppedRows()
		metrics.RecordRowsDropped(ctx, summary.DroppedRows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	summary.CleanRowCount = len(clean)

	if p.validator != nil {
		err = p.stage(ctx, StageValidate, func(ctx context.Context) error {
			return p.validator.Validate(clean)
		})
		if err != nil {
			return nil, err
		}
	}

	var features domain.FeatureTable
	err = p.stage(ctx, StageFeatures, func(ctx context.Context) error {
		var err error
		features, err = p.summarizer.Summarize(ctx, clean)
		return err
	})
	if err != nil {
		return nil, err
	}
	summary.FeaturesRowCount = len(features)

	err = p.stage(ctx, StageLoadClean, func(ctx context.Context) error {
		var err error
		summary.CleanPath, err = p.writer.WriteTable(ctx, exporter.CustomersTable(clean), p.paths.CleanCustomersCSV)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRowsWritten(ctx, OutputClean, len(clean))

	err = p.stage(ctx, StageLoadFeatures, func(ctx context.Context) error {
		var err error
		summary.FeaturesPath, err = p.writer.WriteTable(ctx, exporter.FeaturesTable(features), p.paths.SpendingByStateCSV)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRowsWritten(ctx, OutputFeatures, len(features))

	return summary, nil
}

// stage runs fn inside a span and wraps its failure in a StageError
func (p *Pipeline) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := p.tracer.TraceStage(ctx, name)
	start := time.Now()

	err := fn(ctx)
	p.tracer.EndStage(ctx, span, name, time.Since(start), err)

	if err != nil {
		return &StageError{Stage: name, Err: err}
	}

	p.logger.DebugContext(ctx, "Stage completed",
		slog.String("stage", name),
		slog.Duration("duration", time.Since(start)))
	return nil
}
