package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/tripdesk/flightbot/prompt"
)

const (
	idOuter ID = "outer"
	idInner ID = "inner"
)

// stepFunc builds one-off dialogs for runner tests.
type stepFunc struct {
	id ID
	fn func(ctx context.Context, sc *StepContext) (StepResult, error)
}

func (d stepFunc) ID() ID { return d.id }
func (d stepFunc) Step(ctx context.Context, sc *StepContext) (StepResult, error) {
	return d.fn(ctx, sc)
}

type recorder struct {
	msgs []string
}

func (r *recorder) Send(_ context.Context, text string) error {
	r.msgs = append(r.msgs, text)
	return nil
}

func newTestRunner(dialogs ...Dialog) (*Runner, *Turn, *recorder) {
	engine := prompt.NewEngine(nil, func() time.Time {
		return time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)
	})
	runner := NewRunner(engine, nil, dialogs...)
	out := &recorder{}
	return runner, &Turn{Stack: &Stack{}, Sender: out}, out
}

func askName() StepResult {
	return Suspend(prompt.Spec{
		Prompt:     "What is your name?",
		Recognizer: prompt.RecognizerSpec{Kind: prompt.KindText},
	})
}

func TestSuspendAndResume(t *testing.T) {
	t.Parallel()
	var got string
	d := stepFunc{id: idOuter, fn: func(_ context.Context, sc *StepContext) (StepResult, error) {
		switch sc.Step {
		case 0:
			return askName(), nil
		default:
			got, _ = sc.Input.(string)
			return Complete(sc.Input), nil
		}
	}}
	runner, turn, out := newTestRunner(d)

	status, err := runner.BeginTurn(context.Background(), turn, idOuter, nil)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if status.Code != StatusWaiting {
		t.Fatalf("status = %q, want waiting", status.Code)
	}
	if len(out.msgs) != 1 || out.msgs[0] != "What is your name?" {
		t.Fatalf("outbound = %q", out.msgs)
	}

	status, err = runner.ContinueTurn(context.Background(), turn, "Ada")
	if err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if status.Code != StatusComplete || got != "Ada" {
		t.Errorf("status = %q, input = %q", status.Code, got)
	}
	if turn.Stack.Depth() != 0 {
		t.Errorf("depth = %d, want 0", turn.Stack.Depth())
	}
}

func TestRejectedReplyKeepsThePrompt(t *testing.T) {
	t.Parallel()
	d := stepFunc{id: idOuter, fn: func(_ context.Context, sc *StepContext) (StepResult, error) {
		if sc.Step == 0 {
			return askName(), nil
		}
		return Complete(sc.Input), nil
	}}
	runner, turn, out := newTestRunner(d)

	if _, err := runner.BeginTurn(context.Background(), turn, idOuter, nil); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	status, err := runner.ContinueTurn(context.Background(), turn, "   ")
	if err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if status.Code != StatusWaiting {
		t.Errorf("status = %q, want waiting", status.Code)
	}
	top := turn.Stack.Top()
	if top == nil || top.Prompt == nil || top.Step != 0 {
		t.Errorf("frame should still be suspended on step 0, got %+v", top)
	}
	// The retry falls back to the prompt text.
	if last := out.msgs[len(out.msgs)-1]; last != "What is your name?" {
		t.Errorf("retry = %q", last)
	}
}

func TestDelegateResumesCallerWithResult(t *testing.T) {
	t.Parallel()
	var got any
	outer := stepFunc{id: idOuter, fn: func(_ context.Context, sc *StepContext) (StepResult, error) {
		switch sc.Step {
		case 0:
			return Delegate(idInner, map[string]int{"limit": 3}), nil
		default:
			got = sc.Input
			return Complete(nil), nil
		}
	}}
	inner := stepFunc{id: idInner, fn: func(_ context.Context, sc *StepContext) (StepResult, error) {
		var opts map[string]int
		if err := sc.DecodeOptions(&opts); err != nil {
			return StepResult{}, err
		}
		return Complete(opts["limit"] * 2), nil
	}}
	runner, turn, _ := newTestRunner(outer, inner)

	status, err := runner.BeginTurn(context.Background(), turn, idOuter, nil)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if status.Code != StatusComplete {
		t.Fatalf("status = %q, want complete", status.Code)
	}
	if n, _ := got.(int); n != 6 {
		t.Errorf("caller received %v, want 6", got)
	}
}

func TestCancelledChildResumesCallerWithNil(t *testing.T) {
	t.Parallel()
	var resumed bool
	var got any
	outer := stepFunc{id: idOuter, fn: func(_ context.Context, sc *StepContext) (StepResult, error) {
		switch sc.Step {
		case 0:
			return Delegate(idInner, nil), nil
		default:
			resumed, got = true, sc.Input
			return Complete(nil), nil
		}
	}}
	inner := stepFunc{id: idInner, fn: func(_ context.Context, _ *StepContext) (StepResult, error) {
		return CancelFlow(), nil
	}}
	runner, turn, _ := newTestRunner(outer, inner)

	if _, err := runner.BeginTurn(context.Background(), turn, idOuter, nil); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if !resumed || got != nil {
		t.Errorf("resumed = %v, input = %v, want resumed with nil", resumed, got)
	}
}

func TestReplaceSwapsTheTopFrame(t *testing.T) {
	t.Parallel()
	outer := stepFunc{id: idOuter, fn: func(_ context.Context, sc *StepContext) (StepResult, error) {
		return Replace(idInner, nil), nil
	}}
	inner := stepFunc{id: idInner, fn: func(_ context.Context, _ *StepContext) (StepResult, error) {
		return askName(), nil
	}}
	runner, turn, _ := newTestRunner(outer, inner)

	status, err := runner.BeginTurn(context.Background(), turn, idOuter, nil)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if status.Code != StatusWaiting {
		t.Fatalf("status = %q, want waiting", status.Code)
	}
	if turn.Stack.Depth() != 1 || turn.Stack.Top().Dialog != idInner {
		t.Errorf("stack top = %+v, want a single inner frame", turn.Stack.Top())
	}
}

func TestInterruptsAtDepth(t *testing.T) {
	t.Parallel()
	outer := stepFunc{id: idOuter, fn: func(_ context.Context, sc *StepContext) (StepResult, error) {
		if sc.Step == 0 {
			return Delegate(idInner, nil), nil
		}
		return Complete(nil), nil
	}}
	inner := stepFunc{id: idInner, fn: func(_ context.Context, _ *StepContext) (StepResult, error) {
		return askName(), nil
	}}
	runner, turn, out := newTestRunner(outer, inner)

	if _, err := runner.BeginTurn(context.Background(), turn, idOuter, nil); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if turn.Stack.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", turn.Stack.Depth())
	}

	status, err := runner.ContinueTurn(context.Background(), turn, "  Help ")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if status.Code != StatusWaiting || turn.Stack.Depth() != 2 {
		t.Errorf("help must not disturb the stack: status %q, depth %d", status.Code, turn.Stack.Depth())
	}
	if last := out.msgs[len(out.msgs)-1]; last != HelpMessage {
		t.Errorf("help reply = %q", last)
	}

	status, err = runner.ContinueTurn(context.Background(), turn, "CANCEL")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if status.Code != StatusCancelled || turn.Stack.Depth() != 0 {
		t.Errorf("cancel: status %q, depth %d, want cancelled at depth 0", status.Code, turn.Stack.Depth())
	}
}

func TestEmptyStackTurn(t *testing.T) {
	t.Parallel()
	runner, turn, _ := newTestRunner()

	status, err := runner.ContinueTurn(context.Background(), turn, "hello")
	if err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if status.Code != StatusEmpty {
		t.Errorf("status = %q, want empty", status.Code)
	}
}

func TestPanicContainment(t *testing.T) {
	t.Parallel()
	d := stepFunc{id: idOuter, fn: func(_ context.Context, _ *StepContext) (StepResult, error) {
		panic("boom")
	}}
	runner, turn, out := newTestRunner(d)

	status, err := runner.BeginTurn(context.Background(), turn, idOuter, nil)
	if err == nil {
		t.Fatal("expected an error from the panicking step")
	}
	if status.Code != StatusFailed {
		t.Errorf("status = %q, want failed", status.Code)
	}
	if turn.Stack.Depth() != 0 {
		t.Errorf("depth = %d, want 0", turn.Stack.Depth())
	}
	if last := out.msgs[len(out.msgs)-1]; last != FailureMessage {
		t.Errorf("failure notice = %q", last)
	}
}

func TestUnregisteredDialogFails(t *testing.T) {
	t.Parallel()
	runner, turn, _ := newTestRunner()

	status, err := runner.BeginTurn(context.Background(), turn, "ghost", nil)
	if err == nil {
		t.Fatal("expected an error for an unregistered dialog")
	}
	if status.Code != StatusFailed || turn.Stack.Depth() != 0 {
		t.Errorf("status = %q, depth = %d", status.Code, turn.Stack.Depth())
	}
}

func TestStackSerializationRoundTrip(t *testing.T) {
	t.Parallel()
	d := stepFunc{id: idOuter, fn: func(_ context.Context, sc *StepContext) (StepResult, error) {
		if sc.Step == 0 {
			return askName(), nil
		}
		return Complete(sc.Input), nil
	}}
	runner, turn, _ := newTestRunner(d)

	if _, err := runner.BeginTurn(context.Background(), turn, idOuter, nil); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	data, err := sonic.Marshal(turn.Stack)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	restored := &Stack{}
	if err := sonic.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	out := &recorder{}
	turn2 := &Turn{Stack: restored, Sender: out}
	status, err := runner.ContinueTurn(context.Background(), turn2, "Ada")
	if err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if status.Code != StatusComplete {
		t.Errorf("status = %q, want complete", status.Code)
	}
	if got, _ := status.Result.(string); got != "Ada" {
		t.Errorf("result = %v, want Ada", status.Result)
	}
}
