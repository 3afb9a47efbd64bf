package config

import "custetl/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "custetl"
	AppVersion = contracts.Version

	// Environment variable prefix (CUSTETL_LOGGING_LEVEL, CUSTETL_PIPELINE_ALLOWED_STATES, ...)
	EnvPrefix = "CUSTETL"

	// Project-relative input and output files
	DefaultRawCustomersPath    = "data/raw/customers.csv"
	DefaultCleanCustomersPath  = "data/processed/customers_clean.csv"
	DefaultSpendingByStatePath = "data/processed/spending_by_state.csv"

	// Optional project-relative configuration sources
	DefaultConfigFile = "configs/pipeline.yaml"
	DefaultEnvFile    = ".env"

	// Logging
	DefaultLogLevel  = "info"
	DefaultLogOutput = "console"
	DefaultLogFile   = "logs/pipeline.log"

	// Telemetry
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"

	// File permissions
	DirPermissions  = 0755
	FilePermissions = 0644
)

// DefaultAllowedStates returns the states accepted by the cleaning stage
func DefaultAllowedStates() []string {
	return []string{"SP", "RJ", "MG", "PR"}
}
