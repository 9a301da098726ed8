// Package config loads and validates the configuration of the equitycli tools.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Command-line flags (applied by each command after Load)
//  2. Environment variables
//  3. A YAML configuration file
//  4. Default values
//
// # Environment Variables
//
// All environment variables follow the pattern EQUITY_<SECTION>_<FIELD>:
//
//	EQUITY_LOGGING_LEVEL=debug
//	EQUITY_CONCENTRATION_RESOLUTION=400
//	EQUITY_TREND_ALPHA=0.01
//	EQUITY_TREND_VALUE_COLUMNS=2001,2002,2003
//	EQUITY_TELEMETRY_METRICS_FILE=metrics.prom
//
// The configuration file is named by the -config flag, by EQUITY_CONFIG_FILE,
// or found as equitycli.yaml in the working directory or configs/.
//
// # Validation
//
// Validate runs go-playground/validator over the struct tags and returns an
// *errors.ValidationErrors listing every invalid field by its YAML path.
package config
