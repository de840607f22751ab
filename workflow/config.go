package workflow

import (
	"time"

	"github.com/kbukum/flowkit/config"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/resilience"
	"github.com/kbukum/flowkit/validation"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig.
const EnvPrefix = "FLOWKIT_"

// Config holds the execution settings of a workflow.
//
//	name: checkout
//	timeout: 5s
//	retry:
//	  max_attempts: 3
//	  delay: 200ms
//	tracing:
//	  enabled: true
//	  prefix: checkout
type Config struct {
	Name            string        `yaml:"name" mapstructure:"name" validate:"required"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CancelOnTimeout bool          `yaml:"cancel_on_timeout" mapstructure:"cancel_on_timeout"`
	Retry           RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Tracing         TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Logging         logger.Config `yaml:"logging" mapstructure:"logging"`
}

// RetryConfig is the fixed-delay retry policy applied with RetryWith.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=1"`
	Delay       time.Duration `yaml:"delay" mapstructure:"delay"`
}

// Policy converts the settings into a resilience retry config.
func (c RetryConfig) Policy() resilience.RetryConfig {
	return resilience.FixedDelay(c.MaxAttempts, c.Delay)
}

// TracingConfig controls per-step spans.
type TracingConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Prefix  string `yaml:"prefix" mapstructure:"prefix"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Tracing.Prefix == "" {
		c.Tracing.Prefix = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the configuration and reports every invalid field.
func (c *Config) Validate() error {
	v := validation.New()
	v.Merge("config", validation.Validate(c))
	v.NonNegative("timeout", c.Timeout).
		NonNegative("retry.delay", c.Retry.Delay).
		Custom(!c.Tracing.Enabled || c.Tracing.Prefix != "", "tracing.prefix", "is required when tracing is enabled").
		Merge("logging", c.Logging.Validate())
	return v.Err()
}

// LoadConfig reads the configuration of the named workflow from
// workflows/<name>.yml (or the other config locations), .env files and
// FLOWKIT_* environment variables, then applies defaults and validates it.
func LoadConfig(name string, opts ...config.LoaderOption) (Config, error) {
	var cfg Config
	opts = append([]config.LoaderOption{
		config.WithEnvPrefix(EnvPrefix),
		config.WithDefaults(map[string]any{
			"name":               name,
			"retry.max_attempts": 3,
			"logging.level":      "info",
			"logging.format":     logger.FormatJSON,
		}),
	}, opts...)
	if err := config.LoadConfig(name, &cfg, opts...); err != nil {
		return Config{}, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithConfig applies the name, timeout, tracing and logging settings of cfg.
// Retry settings apply to a single step, see RetryConfig.Policy.
func (b Builder[I, O]) WithConfig(cfg Config) Builder[I, O] {
	next := b.WithName(cfg.Name).WithTimeout(cfg.Timeout)
	if cfg.CancelOnTimeout {
		next = next.WithCancelOnTimeout()
	}
	if cfg.Tracing.Enabled {
		next = next.WithTracing(cfg.Tracing.Prefix)
	}
	if cfg.Logging.Enabled {
		next = next.WithLogging(logger.New(&cfg.Logging, cfg.Name))
	}
	return next
}
