package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/flowkit/logger"
)

// Execution and step statuses used as metric attributes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusError   = "error"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service running the workflows.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval"`
	// Logger receives a line once the provider is installed. Optional.
	Logger *logger.Logger `mapstructure:"-"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global OTLP/HTTP meter provider.
// The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	if config.Logger != nil {
		config.Logger.Info("meter initialized", logger.Fields(
			"service", config.ServiceName,
			"endpoint", config.Endpoint,
			"interval", config.Interval.String(),
		))
	}

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments a workflow engine records into.
type Metrics struct {
	executionTotal    metric.Int64Counter
	executionDuration metric.Float64Histogram
	executionActive   metric.Int64UpDownCounter
	stepTotal         metric.Int64Counter
	stepDuration      metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	executionTotal, err := meter.Int64Counter("workflow.execution.total",
		metric.WithDescription("Total number of workflow executions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating workflow.execution.total counter: %w", err)
	}

	executionDuration, err := meter.Float64Histogram("workflow.execution.duration",
		metric.WithDescription("Duration of workflow executions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating workflow.execution.duration histogram: %w", err)
	}

	executionActive, err := meter.Int64UpDownCounter("workflow.execution.active",
		metric.WithDescription("Number of executions currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating workflow.execution.active gauge: %w", err)
	}

	stepTotal, err := meter.Int64Counter("workflow.step.total",
		metric.WithDescription("Total number of step invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating workflow.step.total counter: %w", err)
	}

	stepDuration, err := meter.Float64Histogram("workflow.step.duration",
		metric.WithDescription("Duration of step invocations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating workflow.step.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("workflow.error.total",
		metric.WithDescription("Total errors by code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating workflow.error.total counter: %w", err)
	}

	return &Metrics{
		executionTotal:    executionTotal,
		executionDuration: executionDuration,
		executionActive:   executionActive,
		stepTotal:         stepTotal,
		stepDuration:      stepDuration,
		errorTotal:        errorTotal,
	}, nil
}

// RecordExecutionStart increments the active execution count.
func (m *Metrics) RecordExecutionStart(ctx context.Context, workflow string) {
	m.executionActive.Add(ctx, 1, metric.WithAttributes(attribute.String("workflow", workflow)))
}

// RecordExecutionEnd decrements active executions and records the completed one.
func (m *Metrics) RecordExecutionEnd(ctx context.Context, workflow, status string, duration time.Duration) {
	m.executionActive.Add(ctx, -1, metric.WithAttributes(attribute.String("workflow", workflow)))
	m.executionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow", workflow),
		attribute.String("status", status),
	))
	m.executionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("workflow", workflow),
	))
}

// RecordStep records one step invocation.
func (m *Metrics) RecordStep(ctx context.Context, workflow, step, status string, duration time.Duration) {
	m.stepTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow", workflow),
		attribute.String("step", step),
		attribute.String("status", status),
	))
	m.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("workflow", workflow),
		attribute.String("step", step),
	))
}

// RecordError records an error by code.
func (m *Metrics) RecordError(ctx context.Context, workflow, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow", workflow),
		attribute.String("code", code),
	))
}
