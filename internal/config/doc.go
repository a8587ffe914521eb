// Package config provides centralized configuration for the correlation analysis run.
// It handles loading configuration from multiple sources, validation, and the fixed
// measurement definitions the report compiler iterates over.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables, including a .env file (highest priority)
//	2. Configuration file (YAML or TOML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CORRELATION_<SECTION>_<FIELD>:
//
//	CORRELATION_ANALYSIS_MIN_PAIRS=3
//	CORRELATION_ANALYSIS_EXCLUDED_PATIENTS=7,12
//	CORRELATION_LOGGING_LEVEL=debug
//	CORRELATION_TELEMETRY_METRICS=true
//
// # Configuration File
//
// A file passed with --config, or the first of correlation.yaml, correlation.toml
// or configs/correlation.yaml found in the working directory:
//
//	analysis:
//	  id_column: "Pt ID"
//	  missing_marker: "x"
//	  excluded_patients: ["7", "12"]
//	plot:
//	  width: 1000
//	  height: 800
//
// A measurements list in the file replaces the default 15 definitions.
//
// # Validation
//
// All configuration is validated at load time with go-playground/validator:
//
//	- min_pairs is at least 3
//	- workers is between 1 and 64
//	- measurement keys are present and unique
//	- logging level, format and output are known values
package config
