package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/tripdesk/flightbot/prompt"
)

// StatusCode is the externally observable state of a conversation after a
// turn has been processed.
type StatusCode string

const (
	// StatusWaiting means the top frame suspended on a prompt.
	StatusWaiting StatusCode = "waiting"
	// StatusComplete means the stack drained; Result holds the root value.
	StatusComplete StatusCode = "complete"
	// StatusCancelled means a global interrupt cleared the stack.
	StatusCancelled StatusCode = "cancelled"
	// StatusFailed means a step failed; the stack has been cleared.
	StatusFailed StatusCode = "failed"
	// StatusEmpty means no dialog was active for the inbound turn.
	StatusEmpty StatusCode = "empty"
)

// Status is the outcome of one processed turn.
type Status struct {
	Code   StatusCode
	Result any
}

// Turn binds one conversation's stack to the transport for the current turn.
type Turn struct {
	Stack  *Stack
	Sender Sender
}

// Outbound notices owned by the orchestrator.
const (
	CancelledMessage = "Cancelling..."
	HelpMessage      = `I can help you book flights. Say "cancel" at any time to stop.`
	FailureMessage   = "Sorry, it looks like something went wrong. Please try again later."
)

// Runner drives dialog stacks. All collaborators are injected; a Runner is
// stateless across conversations and safe for concurrent use, as long as
// each Turn is owned by a single goroutine.
type Runner struct {
	registry    map[ID]Dialog
	engine      *prompt.Engine
	observer    Observer
	cancelWords map[string]bool
	helpWords   map[string]bool
}

func NewRunner(engine *prompt.Engine, observer Observer, dialogs ...Dialog) *Runner {
	if observer == nil {
		observer = NopObserver{}
	}
	registry := make(map[ID]Dialog, len(dialogs))
	for _, d := range dialogs {
		registry[d.ID()] = d
	}
	return &Runner{
		registry: registry,
		engine:   engine,
		observer: observer,
		cancelWords: map[string]bool{
			"cancel": true, "quit": true,
		},
		helpWords: map[string]bool{
			"help": true, "?": true,
		},
	}
}

// BeginTurn pushes a fresh frame for the named dialog and runs its first
// step with no input.
func (r *Runner) BeginTurn(ctx context.Context, t *Turn, id ID, options any) (Status, error) {
	frame, err := newFrame(id, options)
	if err != nil {
		return r.fail(ctx, t, err)
	}
	t.Stack.Push(frame)
	return r.drive(ctx, t, nil)
}

// ContinueTurn resumes the top frame with one inbound user message. The
// global interrupt check runs first on every turn, regardless of nesting
// depth.
func (r *Runner) ContinueTurn(ctx context.Context, t *Turn, input string) (Status, error) {
	if t.Stack.Depth() == 0 {
		return Status{Code: StatusEmpty}, nil
	}

	switch r.interruptOf(input) {
	case interruptCancel:
		t.Stack.Clear()
		if err := t.Sender.Send(ctx, CancelledMessage); err != nil {
			return Status{Code: StatusCancelled}, err
		}
		return Status{Code: StatusCancelled}, nil
	case interruptHelp:
		if err := t.Sender.Send(ctx, HelpMessage); err != nil {
			return Status{Code: StatusWaiting}, err
		}
		return Status{Code: StatusWaiting}, nil
	}

	top := t.Stack.Top()
	if top.Prompt == nil {
		// Not suspended on a prompt: hand the raw message to the step.
		return r.drive(ctx, t, input)
	}

	value, err := r.engine.Recognize(ctx, top.Prompt.Recognizer, input)
	if err != nil {
		if _, recoverable := prompt.AsReject(err); !recoverable {
			return r.fail(ctx, t, err)
		}
		if sendErr := t.Sender.Send(ctx, r.engine.RetryText(*top.Prompt, err)); sendErr != nil {
			return Status{Code: StatusWaiting}, sendErr
		}
		return Status{Code: StatusWaiting}, nil
	}

	top.Prompt = nil
	top.Step++
	return r.drive(ctx, t, value)
}

// ReplaceTop pops the current top frame and starts the named dialog in its
// place.
func (r *Runner) ReplaceTop(ctx context.Context, t *Turn, id ID, options any) (Status, error) {
	t.Stack.Pop()
	return r.BeginTurn(ctx, t, id, options)
}

// drive executes steps until the conversation suspends, completes, or fails.
func (r *Runner) drive(ctx context.Context, t *Turn, input any) (Status, error) {
	for {
		frame := t.Stack.Top()
		if frame == nil {
			return Status{Code: StatusComplete, Result: input}, nil
		}
		dlg, ok := r.registry[frame.Dialog]
		if !ok {
			return r.fail(ctx, t, fmt.Errorf("dialog %q not registered", frame.Dialog))
		}

		sc := &StepContext{Step: frame.Step, Input: input, sender: t.Sender, frame: frame}
		result, err := r.step(ctx, dlg, sc)
		if err != nil {
			return r.fail(ctx, t, err)
		}
		r.observer.OnStep(ctx, StepEvent{
			Dialog:  frame.Dialog,
			Step:    frame.Step,
			Outcome: result.Kind,
			Value:   result.Value,
		})

		switch result.Kind {
		case KindSuspend:
			spec := result.Prompt
			frame.Prompt = &spec
			if err := t.Sender.Send(ctx, r.engine.PromptText(spec)); err != nil {
				return Status{Code: StatusWaiting}, err
			}
			return Status{Code: StatusWaiting}, nil

		case KindAdvance:
			frame.Step++
			input = result.Value

		case KindDelegate:
			child, err := newFrame(result.Dialog, result.Options)
			if err != nil {
				return r.fail(ctx, t, err)
			}
			t.Stack.Push(child)
			input = nil

		case KindComplete:
			t.Stack.Pop()
			if top := t.Stack.Top(); top != nil {
				top.Step++
			}
			input = result.Value

		case KindCancel:
			t.Stack.Pop()
			if top := t.Stack.Top(); top != nil {
				top.Step++
			}
			input = nil

		case KindReplace:
			t.Stack.Pop()
			child, err := newFrame(result.Dialog, result.Options)
			if err != nil {
				return r.fail(ctx, t, err)
			}
			t.Stack.Push(child)
			input = nil

		default:
			return r.fail(ctx, t, fmt.Errorf("dialog %q step %d returned unknown result kind %q",
				frame.Dialog, frame.Step, result.Kind))
		}
	}
}

// step runs one step with panic containment, so a broken step never leaves a
// dangling frame behind.
func (r *Runner) step(ctx context.Context, dlg Dialog, sc *StepContext) (result StepResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in dialog %q step %d: %v", dlg.ID(), sc.Step, rec)
		}
	}()
	return dlg.Step(ctx, sc)
}

// fail clears the whole stack and surfaces a generic failure notice. The
// conversation ends with no partial state left behind.
func (r *Runner) fail(ctx context.Context, t *Turn, err error) (Status, error) {
	t.Stack.Clear()
	if sendErr := t.Sender.Send(ctx, FailureMessage); sendErr != nil {
		return Status{Code: StatusFailed}, fmt.Errorf("%w (failure notice not delivered: %v)", err, sendErr)
	}
	return Status{Code: StatusFailed}, err
}

type interrupt int

const (
	interruptNone interrupt = iota
	interruptCancel
	interruptHelp
)

func (r *Runner) interruptOf(input string) interrupt {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if r.cancelWords[normalized] {
		return interruptCancel
	}
	if r.helpWords[normalized] {
		return interruptHelp
	}
	return interruptNone
}

func newFrame(id ID, options any) (*Frame, error) {
	frame := &Frame{Dialog: id}
	if options != nil {
		raw, err := sonic.Marshal(options)
		if err != nil {
			return nil, fmt.Errorf("marshal %s options: %w", id, err)
		}
		frame.Options = json.RawMessage(raw)
	}
	return frame, nil
}
