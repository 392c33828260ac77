package dialog

import "github.com/tripdesk/flightbot/prompt"

// ResultKind tags the outcome of one step.
type ResultKind string

const (
	// KindSuspend pauses the frame on a prompt until the next user turn.
	KindSuspend ResultKind = "suspend"
	// KindDelegate pushes a nested dialog, suspending the caller.
	KindDelegate ResultKind = "delegate"
	// KindAdvance passes a value to the next step of the same frame.
	KindAdvance ResultKind = "advance"
	// KindComplete pops the frame, returning a value to the caller.
	KindComplete ResultKind = "complete"
	// KindCancel pops the frame with no result.
	KindCancel ResultKind = "cancel"
	// KindReplace pops the frame and starts a new dialog in its place.
	KindReplace ResultKind = "replace"
)

// StepResult is the tagged outcome of one step execution.
type StepResult struct {
	Kind    ResultKind
	Prompt  prompt.Spec
	Dialog  ID
	Options any
	Value   any
}

// Suspend pauses on a prompt; the recognized reply resumes the next step.
func Suspend(spec prompt.Spec) StepResult {
	return StepResult{Kind: KindSuspend, Prompt: spec}
}

// Delegate pushes the named dialog with the given options; its completion
// value resumes the caller's next step.
func Delegate(id ID, options any) StepResult {
	return StepResult{Kind: KindDelegate, Dialog: id, Options: options}
}

// Advance continues to the next step of the same frame.
func Advance(value any) StepResult {
	return StepResult{Kind: KindAdvance, Value: value}
}

// Complete pops the frame, handing value to the caller.
func Complete(value any) StepResult {
	return StepResult{Kind: KindComplete, Value: value}
}

// CancelFlow pops the frame with no result.
func CancelFlow() StepResult {
	return StepResult{Kind: KindCancel}
}

// Replace restarts the stack top as the named dialog.
func Replace(id ID, options any) StepResult {
	return StepResult{Kind: KindReplace, Dialog: id, Options: options}
}
