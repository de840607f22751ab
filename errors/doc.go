// Package errors provides the structured error type shared by flowkit packages.
//
// Every failure a workflow can produce is classified by an ErrorCode: returned
// step failures, timeouts, exhausted retries, unhandled errors, and the
// contract violations reported by the engine itself (nil input, invalid
// builder usage, type-erasure mismatches).
//
//	res, err := wf.Execute(ctx, input)
//	if err != nil {
//	    // contract violation: INVALID_INPUT or TYPE_MISMATCH
//	}
//	if !res.IsSuccess() && res.Code() == errors.ErrCodeTimeout {
//	    // a step lost the race against the configured timeout
//	}
package errors
