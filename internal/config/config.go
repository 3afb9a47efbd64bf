package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "custetl/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// PipelineConfig contains the ETL parameters. Paths are relative to the project root
// unless absolute.
type PipelineConfig struct {
	RawCustomersPath    string   `yaml:"raw_customers_path" envconfig:"RAW_CUSTOMERS_PATH" validate:"required"`
	CleanCustomersPath  string   `yaml:"clean_customers_path" envconfig:"CLEAN_CUSTOMERS_PATH" validate:"required"`
	SpendingByStatePath string   `yaml:"spending_by_state_path" envconfig:"SPENDING_BY_STATE_PATH" validate:"required"`
	AllowedStates       []string `yaml:"allowed_states" envconfig:"ALLOWED_STATES" validate:"required,min=1,dive,required"`
	StrictValidation    bool     `yaml:"strict_validation" envconfig:"STRICT_VALIDATION"`
}

// TelemetryConfig contains tracing and metrics export configuration
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   "json",
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Pipeline: PipelineConfig{
			RawCustomersPath:    DefaultRawCustomersPath,
			CleanCustomersPath:  DefaultCleanCustomersPath,
			SpendingByStatePath: DefaultSpendingByStatePath,
			AllowedStates:       DefaultAllowedStates(),
		},
		Telemetry: TelemetryConfig{
			TraceExporter: TraceExporterNone,
		},
	}
}

// Load builds the configuration for a project root.
//
// Sources in increasing precedence: defaults, <root>/configs/pipeline.yaml,
// <root>/.env, process environment. Missing optional files are not an error.
func Load(root string) (*Config, error) {
	cfg := Default()

	configFile := filepath.Join(root, DefaultConfigFile)
	if FileExists(configFile) {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).
				WithContext("path", configFile)
		}
	}

	envFile := filepath.Join(root, DefaultEnvFile)
	if FileExists(envFile) {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(envFile); err != nil {
			return nil, apperrors.NewConfigError("failed to load env file", err).
				WithContext("path", envFile)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// normalize canonicalizes values that are compared case-sensitively downstream
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))

	states := make([]string, 0, len(c.Pipeline.AllowedStates))
	for _, state := range c.Pipeline.AllowedStates {
		states = append(states, strings.ToUpper(strings.TrimSpace(state)))
	}
	c.Pipeline.AllowedStates = states

	c.Telemetry.TraceExporter = strings.ToLower(strings.TrimSpace(c.Telemetry.TraceExporter))
	if c.Telemetry.TraceExporter == "" {
		c.Telemetry.TraceExporter = TraceExporterNone
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// String returns a short description of the config
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Raw: %s, AllowedStates: %v, LogLevel: %s}",
		c.Pipeline.RawCustomersPath,
		c.Pipeline.AllowedStates,
		c.Logging.Level,
	)
}
