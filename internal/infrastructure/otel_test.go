package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custetl/internal/config"
)

func TestInitializeTelemetry(t *testing.T) {
	tests := []struct {
		name        string
		opts        TelemetryOptions
		wantErr     bool
		wantTracing bool
	}{
		{name: "defaults to no tracing", opts: TelemetryOptions{}},
		{name: "none", opts: TelemetryOptions{TraceExporter: config.TraceExporterNone}},
		{
			name:        "stdout",
			opts:        TelemetryOptions{TraceExporter: config.TraceExporterStdout, TraceWriter: &bytes.Buffer{}},
			wantTracing: true,
		},
		{name: "unsupported exporter", opts: TelemetryOptions{TraceExporter: "otlp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tel, err := InitializeTelemetry(tt.opts, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.NotNil(t, tel.Tracer)
			assert.NotNil(t, tel.MeterProvider)
			assert.NotNil(t, tel.Registry)
			require.NotNil(t, tel.Metrics)
			if tt.wantTracing {
				assert.NotNil(t, tel.TracerProvider)
			} else {
				assert.Nil(t, tel.TracerProvider)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, tel.Shutdown(ctx))
		})
	}
}

func TestTelemetry_StdoutSpans(t *testing.T) {
	var buf bytes.Buffer
	tel, err := InitializeTelemetry(TelemetryOptions{TraceExporter: config.TraceExporterStdout, TraceWriter: &buf}, nil)
	require.NoError(t, err)

	ctx, span := tel.Tracer.Start(context.Background(), "pipeline.extract")
	assert.True(t, span.IsRecording())
	RecordError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "pipeline.extract")
	assert.Contains(t, buf.String(), "boom")
}

func TestPipelineMetrics_Gather(t *testing.T) {
	tel := NewNoopTelemetry()
	defer tel.Shutdown(context.Background())

	ctx := context.Background()
	tel.Metrics.RecordRowsRead(ctx, 10)
	tel.Metrics.RecordRowsWritten(ctx, "clean", 6)
	tel.Metrics.RecordRowsDropped(ctx, map[string]int{"disallowed_state": 1, "missing_value": 2})
	tel.Metrics.RecordStageDuration(ctx, "extract", 25*time.Millisecond)
	tel.Metrics.RecordRun(ctx, RunStatusSuccess)

	families, err := tel.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	for _, want := range []string{
		"custetl_rows_read",
		"custetl_rows_written",
		"custetl_rows_dropped",
		"custetl_stage_duration_seconds",
		"custetl_runs",
	} {
		assert.True(t, names[want], "missing metric family %s, got %v", want, names)
	}
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordRowsRead(ctx, 1)
		m.RecordRowsWritten(ctx, "clean", 1)
		m.RecordRowsDropped(ctx, map[string]int{"duplicate_id": 1})
		m.RecordStageDuration(ctx, "load", time.Second)
		m.RecordRun(ctx, RunStatusFailure)
	})
}

func TestTelemetry_ShutdownWritesMetricsFile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "metrics", "pipeline.prom")

	tel, err := InitializeTelemetry(TelemetryOptions{MetricsFile: metricsFile}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	tel.Metrics.RecordRowsRead(ctx, 3)
	tel.Metrics.RecordRowsWritten(ctx, "features", 2)

	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)

	assert.Contains(t, string(content), "custetl_rows_read 3")
	assert.Contains(t, string(content), `custetl_rows_written{output="features"} 2`)
}

func TestTelemetry_WriteMetricsFileError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	tel := NewNoopTelemetry()
	defer tel.Shutdown(context.Background())

	assert.Error(t, tel.WriteMetricsFile(filepath.Join(blocker, "pipeline.prom")))
}
