// Package prompt issues single-value requests to the user and validates the
// replies. A prompt suspends the owning dialog; the reply is fed back through
// the prompt's recognizer on the next turn and either accepted or re-asked.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"

	"github.com/tripdesk/flightbot/nlu"
	"github.com/tripdesk/flightbot/timex"
)

// Kind selects one of the closed set of recognizers. The spec form is
// serialized into the dialog stack, so recognizers carry no live state.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindConfirm  Kind = "confirm"
	KindDateTime Kind = "datetime"
	KindEntity   Kind = "entity"
)

// Spec describes one pending prompt. Retry is sent instead of Prompt after a
// rejected reply; when empty, Prompt is reused.
type Spec struct {
	Prompt     string         `json:"prompt"`
	Retry      string         `json:"retry,omitempty"`
	Recognizer RecognizerSpec `json:"recognizer"`
}

// RecognizerSpec is the serializable configuration of a recognizer.
type RecognizerSpec struct {
	Kind Kind `json:"kind"`

	// Entity names the NLU entity a KindEntity recognizer is constrained to.
	Entity string `json:"entity,omitempty"`

	// Anchor is the base date for relative expressions ("14 days later")
	// in a KindDateTime recognizer.
	Anchor timex.Timex `json:"anchor,omitempty"`

	// MinDate and MinDateMessage configure the lower-bound check of a
	// KindDateTime recognizer.
	MinDate        string `json:"min_date,omitempty"`
	MinDateMessage string `json:"min_date_message,omitempty"`
}

// Reason classifies why a reply was rejected.
type Reason string

const (
	ReasonValidation Reason = "validation"
	ReasonBounds     Reason = "bounds"
	ReasonAmbiguity  Reason = "ambiguity"
)

// Reject is the recoverable rejection of one reply. Message, when set,
// overrides the prompt's retry text.
type Reject struct {
	Reason  Reason
	Message string
}

func (r *Reject) Error() string {
	return fmt.Sprintf("input rejected (%s): %s", r.Reason, r.Message)
}

// AsReject extracts a *Reject from err.
func AsReject(err error) (*Reject, bool) {
	var reject *Reject
	ok := errors.As(err, &reject)
	return reject, ok
}

const confirmSuffix = " (1) Yes or (2) No"

// Engine recognizes prompt replies. The NLU collaborator and the clock are
// injected; there is no shared default instance.
type Engine struct {
	nlu   nlu.Recognizer
	now   func() time.Time
	dates *when.Parser
}

func NewEngine(recognizer nlu.Recognizer, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{nlu: recognizer, now: now, dates: newDateParser()}
}

// PromptText is the outbound text for the first ask.
func (e *Engine) PromptText(spec Spec) string {
	if spec.Recognizer.Kind == KindConfirm {
		return spec.Prompt + confirmSuffix
	}
	return spec.Prompt
}

// RetryText is the outbound text after a rejected reply.
func (e *Engine) RetryText(spec Spec, err error) string {
	if reject, ok := AsReject(err); ok && reject.Message != "" {
		return reject.Message
	}
	if spec.Retry != "" {
		return spec.Retry
	}
	return e.PromptText(spec)
}

// Recognize validates one reply against the prompt's recognizer and returns
// the accepted value. A *Reject error means the prompt should be re-asked;
// any other error is fatal to the turn.
func (e *Engine) Recognize(ctx context.Context, spec RecognizerSpec, input string) (any, error) {
	switch spec.Kind {
	case KindText:
		text := strings.TrimSpace(input)
		if text == "" {
			return nil, &Reject{Reason: ReasonValidation}
		}
		return text, nil

	case KindNumber:
		n, ok := ParseNumber(input)
		if !ok {
			return nil, &Reject{Reason: ReasonValidation}
		}
		return n, nil

	case KindConfirm:
		return recognizeConfirm(input)

	case KindDateTime:
		return e.recognizeDate(spec, input)

	case KindEntity:
		return e.recognizeEntity(ctx, spec, input)

	default:
		return nil, fmt.Errorf("unknown recognizer kind %q", spec.Kind)
	}
}

func recognizeConfirm(input string) (any, error) {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(input), ".!?")) {
	case "yes", "y", "1", "yeah", "yep", "sure", "ok", "confirm", "true":
		return true, nil
	case "no", "n", "2", "nope", "nah", "false":
		return false, nil
	}
	return nil, &Reject{Reason: ReasonValidation}
}

func (e *Engine) recognizeEntity(ctx context.Context, spec RecognizerSpec, input string) (any, error) {
	if e.nlu == nil {
		return nil, fmt.Errorf("entity recognizer requires an NLU collaborator")
	}
	result, err := e.nlu.Recognize(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("recognize entity %q: %w", spec.Entity, err)
	}

	switch spec.Entity {
	case nlu.EntityMoney:
		money, ok := result.First(nlu.EntityMoney)
		if !ok {
			return nil, &Reject{Reason: ReasonValidation}
		}
		amount := strconv.FormatFloat(money.Number, 'f', -1, 64)
		if money.Units == "" {
			return amount, nil
		}
		return amount + " " + money.Units, nil

	case nlu.EntityCity:
		for _, name := range []string{nlu.EntityCity, nlu.EntityDstCity, nlu.EntityOrCity} {
			if city, ok := result.First(name); ok {
				if city.Value != "" {
					return city.Value, nil
				}
				return city.Text, nil
			}
		}
		return nil, &Reject{Reason: ReasonValidation}

	default:
		entity, ok := result.First(spec.Entity)
		if !ok {
			return nil, &Reject{Reason: ReasonValidation}
		}
		return entity.Text, nil
	}
}
