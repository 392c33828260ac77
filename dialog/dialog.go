// Package dialog implements the resumable, stack-based conversation engine.
// A dialog is a fixed sequence of steps; each step runs once per resumption
// and returns a StepResult that either suspends the conversation on a
// prompt, delegates to a nested dialog, or moves the sequence along. The
// whole stack is serializable, so a conversation can be resumed from
// persisted state on any later turn.
package dialog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// ID names one of the closed set of dialog kinds. Dispatch goes through this
// enumeration, never through free-form strings.
type ID string

const (
	IDMain      ID = "main"
	IDBooking   ID = "booking"
	IDStartDate ID = "str_date"
	IDEndDate   ID = "end_date"
)

// Sender delivers one outbound message to the transport collaborator.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, text string) error

func (f SenderFunc) Send(ctx context.Context, text string) error { return f(ctx, text) }

// Dialog is one resumable unit of conversation logic.
type Dialog interface {
	ID() ID
	// Step executes the step sc.Step points at. sc.Input carries the
	// previous step's value, a recognized prompt reply, or a sub-dialog
	// result; it is nil on the first step of a fresh invocation.
	Step(ctx context.Context, sc *StepContext) (StepResult, error)
}

// StepContext is the view a step gets of its frame and of the turn.
type StepContext struct {
	Step   int
	Input  any
	sender Sender
	frame  *Frame
}

// DecodeOptions unmarshals the frame's options payload.
func (sc *StepContext) DecodeOptions(v any) error {
	if len(sc.frame.Options) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(sc.frame.Options, v); err != nil {
		return fmt.Errorf("decode %s options: %w", sc.frame.Dialog, err)
	}
	return nil
}

// StoreOptions writes v back as the frame's options payload, persisting it
// for later turns.
func (sc *StepContext) StoreOptions(v any) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("store %s options: %w", sc.frame.Dialog, err)
	}
	sc.frame.Options = json.RawMessage(raw)
	return nil
}

// Send emits one outbound message.
func (sc *StepContext) Send(ctx context.Context, text string) error {
	return sc.sender.Send(ctx, text)
}
