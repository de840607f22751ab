package logger

import (
	"time"
)

// Standard field keys emitted by workflow executions.
const (
	FieldWorkflow    = "workflow"
	FieldComponent   = "component"
	FieldExecutionID = "execution_id"
	FieldStep        = "step"
	FieldStepIndex   = "index"
	FieldTimeout     = "timeout_ms"
	FieldAttempt     = "attempt"
	FieldCode        = "code"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldTraceID     = "trace_id"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("done", logger.Fields("step", "charge", "index", 2))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// StepFields creates the fields attached to every step log line.
func StepFields(executionID, step string, index int) map[string]interface{} {
	return map[string]interface{}{
		FieldExecutionID: executionID,
		FieldStep:        step,
		FieldStepIndex:   index,
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
