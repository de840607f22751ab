// Package validation validates flowkit configuration.
//
// Struct tags cover single-field rules:
//
//	type RetryConfig struct {
//	    MaxAttempts int `mapstructure:"max_attempts" validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
// The fluent Validator covers the rest:
//
//	err := validation.New().
//	    NonNegative("timeout", cfg.Timeout).
//	    Custom(!cfg.Tracing.Enabled || cfg.Tracing.Prefix != "", "tracing.prefix", "is required").
//	    Err()
//
// Both report a VALIDATION_FAILED AppError whose "fields" detail lists
// every failing field.
package validation
