// Package nlu defines the language-understanding collaborator boundary: a
// recognizer turns one user utterance into an intent plus extracted entities.
// Two implementations are provided, a tool-calling chat model and a
// rule-based fallback for offline use.
package nlu

import (
	"context"

	"github.com/tripdesk/flightbot/timex"
)

// Intents understood by the assistant. Unrecognized or low-confidence
// utterances map to IntentNone.
const (
	IntentBookFlight = "BookFlight"
	IntentCancel     = "Communication.Cancel"
	IntentConfirm    = "Communication.Confirm"
	IntentNone       = "None"
)

// Entity names produced by recognition.
const (
	EntityDstCity   = "dst_city"
	EntityOrCity    = "or_city"
	EntityCity      = "geographyV2_city"
	EntityMoney     = "money"
	EntityDatetime  = "datetime"
	EntityNAdults   = "n_adults"
	EntityNChildren = "n_children"
)

// Datetime entity types.
const (
	DatetimeTypeDate      = "date"
	DatetimeTypeDaterange = "daterange"
)

// Entity is one extracted value. Text is the surface form from the
// utterance; Value is the canonical resolution and is empty when the text
// could not be mapped to a supported item.
type Entity struct {
	Text   string        `json:"text"`
	Value  string        `json:"value,omitempty"`
	Type   string        `json:"type,omitempty"`
	Timex  []timex.Timex `json:"timex,omitempty"`
	Number float64       `json:"number,omitempty"`
	Units  string        `json:"units,omitempty"`
}

// Result is the outcome of recognizing a single utterance. It is consumed
// within the turn and never persisted.
type Result struct {
	Intent   string              `json:"intent"`
	Entities map[string][]Entity `json:"entities,omitempty"`
}

// First returns the first instance of the named entity. Only the first
// instance of each entity is ever used by the booking flow.
func (r *Result) First(name string) (Entity, bool) {
	if r == nil || len(r.Entities[name]) == 0 {
		return Entity{}, false
	}
	return r.Entities[name][0], true
}

func (r *Result) add(name string, e Entity) {
	if r.Entities == nil {
		r.Entities = make(map[string][]Entity)
	}
	r.Entities[name] = append(r.Entities[name], e)
}

// Recognizer is the external NLU collaborator.
type Recognizer interface {
	Recognize(ctx context.Context, utterance string) (*Result, error)
}

// Fallback chains recognizers and returns the first successful result.
type Fallback struct {
	recognizers []Recognizer
}

func NewFallback(recognizers ...Recognizer) *Fallback {
	return &Fallback{recognizers: recognizers}
}

func (f *Fallback) Recognize(ctx context.Context, utterance string) (*Result, error) {
	var lastErr error
	for _, r := range f.recognizers {
		result, err := r.Recognize(ctx, utterance)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
