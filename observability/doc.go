// Package observability provides OpenTelemetry tracing and metrics for
// workflow executions.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "orders.step")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &meterCfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("orders"))
//	metrics.RecordStep(ctx, "orders", "charge", observability.StatusSuccess, d)
package observability
