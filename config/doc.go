// Package config loads workflow configuration with Viper.
//
// Values come from, in increasing precedence: defaults passed with
// WithDefaults, a YAML file, and environment variables (including those
// read from a .env file by godotenv). Environment keys are matched to
// nested config keys by every underscore split, so RETRY_MAX_ATTEMPTS
// sets retry.max_attempts.
//
// # Usage
//
//	var cfg workflow.Config
//	err := config.LoadConfig("orders", &cfg, config.WithEnvPrefix("FLOWKIT_"))
//
// Without an explicit file, LoadConfig looks for workflows/<name>.yml,
// config/<name>.yml and config.yml relative to the working directory.
package config
