// Package logger provides structured logging for flowkit workflows
// using zerolog.
//
// Loggers write JSON by default, or a compact console format when
// format is "console". Every workflow log line carries the workflow name
// and, for step events, the step name, its index and the execution ID.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "orders")
//	log.Info("Executing step", logger.StepFields(id, "charge", 2))
package logger
