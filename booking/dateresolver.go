package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/tripdesk/flightbot/dialog"
	"github.com/tripdesk/flightbot/prompt"
	"github.com/tripdesk/flightbot/timex"
)

// Date bound messages.
const (
	PastDateMessage   = "Sorry, time travel isn't possible yet. Please enter a valid future date."
	ReturnDateMessage = "Returning before leaving? Please enter a valid return date."
)

const (
	startDatePrompt = "On what date would you like to travel?"
	endDatePrompt   = "On what date would you like to come back?"
)

// DateOptions parameterize one date resolution. Seed is a value the caller
// already holds (possibly ambiguous); when it validates, the resolver
// completes without asking. Floor is the exclusive-below lower bound, used as
// the anchor for relative expressions in replies.
type DateOptions struct {
	Seed  timex.Timex `json:"seed,omitempty"`
	Floor timex.Timex `json:"floor,omitempty"`
}

// DateResolverDialog turns free-form date text into one definite, in-bounds
// calendar date. It is registered twice, once per booking date field, so a
// serialized frame carries which bound applies.
type DateResolverDialog struct {
	id  dialog.ID
	now func() time.Time
}

// NewDateResolverDialog builds a resolver for either dialog.IDStartDate or
// dialog.IDEndDate. The clock is injected for testability.
func NewDateResolverDialog(id dialog.ID, now func() time.Time) *DateResolverDialog {
	if now == nil {
		now = time.Now
	}
	return &DateResolverDialog{id: id, now: now}
}

func (d *DateResolverDialog) ID() dialog.ID { return d.id }

func (d *DateResolverDialog) Step(ctx context.Context, sc *dialog.StepContext) (dialog.StepResult, error) {
	switch sc.Step {
	case 0:
		var opts DateOptions
		if err := sc.DecodeOptions(&opts); err != nil {
			return dialog.StepResult{}, err
		}
		spec := d.promptSpec(opts)

		if opts.Seed == "" {
			return dialog.Suspend(spec), nil
		}
		if err := prompt.ValidateDate(opts.Seed, d.minDate(opts), d.minMessage()); err != nil {
			// The seed came from the parent, not from a reply, so the
			// rejection notice doubles as the first ask.
			if reject, ok := prompt.AsReject(err); ok {
				if reject.Message != "" {
					spec.Prompt = reject.Message
				}
				return dialog.Suspend(spec), nil
			}
			return dialog.StepResult{}, err
		}
		return dialog.Advance(opts.Seed), nil

	case 1:
		return dialog.Complete(asTimex(sc.Input)), nil

	default:
		return dialog.StepResult{}, fmt.Errorf("date resolver has no step %d", sc.Step)
	}
}

func (d *DateResolverDialog) promptSpec(opts DateOptions) prompt.Spec {
	min := d.minDate(opts)
	spec := prompt.Spec{
		Prompt: startDatePrompt,
		Recognizer: prompt.RecognizerSpec{
			Kind:           prompt.KindDateTime,
			Anchor:         opts.Floor,
			MinDateMessage: d.minMessage(),
		},
	}
	if d.id == dialog.IDEndDate {
		spec.Prompt = endDatePrompt
	}
	if !min.IsZero() {
		spec.Recognizer.MinDate = min.Format(timex.DateLayout)
	}
	return spec
}

// minDate is the earliest acceptable day: today for the outbound leg, the
// day after the already-resolved start date for the return leg, so a
// completed itinerary always departs strictly before it returns.
func (d *DateResolverDialog) minDate(opts DateOptions) time.Time {
	if d.id == dialog.IDEndDate {
		if floor, err := opts.Floor.Date(); err == nil {
			return floor.AddDate(0, 0, 1)
		}
		return time.Time{}
	}
	now := d.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (d *DateResolverDialog) minMessage() string {
	if d.id == dialog.IDEndDate {
		return ReturnDateMessage
	}
	return PastDateMessage
}

func asTimex(input any) timex.Timex {
	switch v := input.(type) {
	case timex.Timex:
		return v
	case string:
		return timex.Timex(v)
	}
	return ""
}
