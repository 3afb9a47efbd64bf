// Package config provides centralized configuration management for the customer ETL job.
// It handles loading configuration from multiple sources, validation, and resolves
// every file path the pipeline touches against the project root.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. <root>/.env (never overrides variables that are already set)
//	3. <root>/configs/pipeline.yaml
//	4. Default values (lowest priority)
//
// With no file and no environment the defaults reproduce the fixed layout:
//
//	data/raw/customers.csv                -> input
//	data/processed/customers_clean.csv    -> clean customers
//	data/processed/spending_by_state.csv  -> per-state features
//
// # Environment Variables
//
// All environment variables follow the pattern CUSTETL_* for namespacing:
//
//	CUSTETL_LOGGING_LEVEL=debug
//	CUSTETL_LOGGING_OUTPUT=both
//	CUSTETL_PIPELINE_ALLOWED_STATES=SP,RJ,MG,PR
//	CUSTETL_PIPELINE_STRICT_VALIDATION=true
//	CUSTETL_TELEMETRY_TRACE_EXPORTER=stdout
//	CUSTETL_TELEMETRY_METRICS_FILE=data/metrics/pipeline.prom
//
// # Usage
//
//	cfg, err := config.Load(root)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.NewPaths(root, cfg)
//
// Tests that need no file or environment use config.Default().
package config
