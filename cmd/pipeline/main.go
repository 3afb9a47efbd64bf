package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"custetl/internal/config"
	"custetl/internal/infrastructure"
	"custetl/internal/operations"
	"custetl/pkg/contracts"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one pipeline run and returns the process exit status.
// The run summary goes to stdout as indented JSON; logs and spans go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	root := fs.String("root", "", "project root holding data/raw/customers.csv (defaults to the current directory)")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}
	if *root == "" && fs.NArg() > 0 {
		*root = fs.Arg(0)
	}
	if *root == "" {
		*root = "."
	}

	cfg, err := config.Load(*root)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	paths, err := config.NewPaths(*root, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "failed to resolve paths: %v\n", err)
		return 1
	}

	logCfg := cfg.Logging
	logCfg.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(logCfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Configuration loaded", slog.String("config", cfg.String()))
	paths.LogPathResolution(logger)

	tel, err := infrastructure.InitializeTelemetry(infrastructure.TelemetryOptions{
		TraceExporter: cfg.Telemetry.TraceExporter,
		MetricsFile:   paths.MetricsFile,
		TraceWriter:   stderr,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}

	pipeline, err := operations.NewPipeline(cfg, paths, nil, tel)
	if err != nil {
		logger.Error("Failed to create pipeline", slog.String("error", err.Error()))
		return 1
	}

	ctx, _ = infrastructure.ContextWithRunID(ctx)
	summary, runErr := pipeline.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "pipeline failed: %v\n", runErr)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		fmt.Fprintf(stderr, "failed to write run summary: %v\n", err)
		return 1
	}
	return 0
}
