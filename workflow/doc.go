// Package workflow composes typed steps into an executable pipeline.
//
// A chain is declared with a persistent Builder: every call returns a new
// builder and never changes the one it was called on, so two chains derived
// from a common prefix never share steps. Operations that change the output
// type are package functions; the rest are methods.
//
//	b := workflow.StartWith(parseMessage)
//	v := workflow.Then(b, validateMessage)
//	out := workflow.Branch(v, isValid,
//	    func(t workflow.Builder[Message, Message]) workflow.Builder[Message, Message] {
//	        return workflow.Then(t, processValid)
//	    },
//	    func(f workflow.Builder[Message, Message]) workflow.Builder[Message, Message] {
//	        return workflow.Then(f, processInvalid)
//	    },
//	)
//	wf, err := out.WithTimeout(5 * time.Second).Build()
//	res, err := wf.Execute(ctx, raw)
//
// A step reports an expected failure by returning Failure with a nil error;
// later steps do not run and Execute returns that Failure. A returned error
// (or a panic) is offered to the handlers registered with Catch, CatchCode
// and CatchWhen in order; the first one returning Success wins, otherwise
// Execute returns Failure("Unhandled exception: ...").
//
// Execute itself only returns an error for contract violations: a nil input
// (INVALID_INPUT) or a value of the wrong type between steps (TYPE_MISMATCH).
package workflow
