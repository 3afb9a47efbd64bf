package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file path a pipeline run touches.
// This is the single source of truth for file locations; all of them are
// resolved against the project root.
type Paths struct {
	Root string

	// Inputs
	RawCustomersCSV string

	// Outputs
	CleanCustomersCSV  string
	SpendingByStateCSV string

	// Optional configuration sources
	ConfigFile string
	EnvFile    string

	// Ambient outputs
	LogFile     string
	MetricsFile string
}

// NewPaths resolves the configured paths against root
func NewPaths(root string, cfg *Config) (*Paths, error) {
	if root == "" {
		root = "."
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %q: %w", root, err)
	}

	p := &Paths{
		Root:               absRoot,
		RawCustomersCSV:    resolve(absRoot, cfg.Pipeline.RawCustomersPath),
		CleanCustomersCSV:  resolve(absRoot, cfg.Pipeline.CleanCustomersPath),
		SpendingByStateCSV: resolve(absRoot, cfg.Pipeline.SpendingByStatePath),
		ConfigFile:         resolve(absRoot, DefaultConfigFile),
		EnvFile:            resolve(absRoot, DefaultEnvFile),
		LogFile:            resolve(absRoot, cfg.Logging.FilePath),
	}
	if cfg.Telemetry.MetricsFile != "" {
		p.MetricsFile = resolve(absRoot, cfg.Telemetry.MetricsFile)
	}

	return p, nil
}

// resolve joins a relative path onto root and leaves absolute paths untouched
func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// LogPathResolution logs every resolved path at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution",
		slog.String("root", p.Root),
		slog.String("raw_customers_csv", p.RawCustomersCSV),
		slog.String("clean_customers_csv", p.CleanCustomersCSV),
		slog.String("spending_by_state_csv", p.SpendingByStateCSV),
		slog.String("config_file", p.ConfigFile),
		slog.String("env_file", p.EnvFile),
		slog.String("log_file", p.LogFile),
		slog.String("metrics_file", p.MetricsFile))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
