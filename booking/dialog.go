package booking

import (
	"context"
	"fmt"

	"github.com/tripdesk/flightbot/dialog"
	"github.com/tripdesk/flightbot/nlu"
	"github.com/tripdesk/flightbot/prompt"
)

const (
	dstCityPrompt = "To what city would you like to travel?"
	orCityPrompt  = "From what city will you be travelling?"
	cityRetry     = "Sorry, I couldn't find this place. Please enter a valid place."

	budgetPrompt = "What is your budget for this trip?"
	budgetRetry  = "Sorry, I couldn't process your budget input. Try in a different way. Eg. 'I have a budget of 100€.'."

	adultsPrompt = "For how many adult(s)?"
	adultsRetry  = `Please include a numerical reference in your sentence. For example: "We are 2 adults traveling." or "We are two adults."`

	childrenPrompt = "And how many child(ren)?"
	childrenRetry  = `Please include a numerical reference in your sentence. For example: "I have 1 child." or "I have one child."`

	declineNotice = "I invite you to make a new booking."
)

// BookingDialog collects the booking record one field at a time, in a fixed
// order. Each step first captures the previous step's value into the frame's
// record, then either asks for the next missing field or advances with the
// value it already holds.
type BookingDialog struct{}

func NewBookingDialog() *BookingDialog { return &BookingDialog{} }

func (d *BookingDialog) ID() dialog.ID { return dialog.IDBooking }

func (d *BookingDialog) Step(ctx context.Context, sc *dialog.StepContext) (dialog.StepResult, error) {
	var rec Record
	if err := sc.DecodeOptions(&rec); err != nil {
		return dialog.StepResult{}, err
	}

	switch sc.Step {
	case 0: // destination
		if rec.DstCity == "" {
			return dialog.Suspend(prompt.Spec{
				Prompt: dstCityPrompt,
				Retry:  cityRetry,
				Recognizer: prompt.RecognizerSpec{
					Kind:   prompt.KindEntity,
					Entity: nlu.EntityCity,
				},
			}), nil
		}
		return dialog.Advance(rec.DstCity), nil

	case 1: // origin
		rec.DstCity = asString(sc.Input)
		if err := sc.StoreOptions(&rec); err != nil {
			return dialog.StepResult{}, err
		}
		if rec.OrCity == "" {
			return dialog.Suspend(prompt.Spec{
				Prompt: orCityPrompt,
				Retry:  cityRetry,
				Recognizer: prompt.RecognizerSpec{
					Kind:   prompt.KindEntity,
					Entity: nlu.EntityCity,
				},
			}), nil
		}
		return dialog.Advance(rec.OrCity), nil

	case 2: // start date
		rec.OrCity = asString(sc.Input)
		if err := sc.StoreOptions(&rec); err != nil {
			return dialog.StepResult{}, err
		}
		// Dates always go through the resolver, prefilled or not: a valid
		// seed completes immediately, anything ambiguous or out of bounds
		// re-prompts.
		return dialog.Delegate(dialog.IDStartDate, DateOptions{Seed: rec.StrDate}), nil

	case 3: // end date
		rec.StrDate = asTimex(sc.Input)
		if err := sc.StoreOptions(&rec); err != nil {
			return dialog.StepResult{}, err
		}
		return dialog.Delegate(dialog.IDEndDate, DateOptions{Seed: rec.EndDate, Floor: rec.StrDate}), nil

	case 4: // budget
		rec.EndDate = asTimex(sc.Input)
		if err := sc.StoreOptions(&rec); err != nil {
			return dialog.StepResult{}, err
		}
		if rec.Budget == "" {
			return dialog.Suspend(prompt.Spec{
				Prompt: budgetPrompt,
				Retry:  budgetRetry,
				Recognizer: prompt.RecognizerSpec{
					Kind:   prompt.KindEntity,
					Entity: nlu.EntityMoney,
				},
			}), nil
		}
		return dialog.Advance(rec.Budget), nil

	case 5: // adults
		rec.Budget = asString(sc.Input)
		if err := sc.StoreOptions(&rec); err != nil {
			return dialog.StepResult{}, err
		}
		if rec.NAdults == nil {
			return dialog.Suspend(prompt.Spec{
				Prompt:     adultsPrompt,
				Retry:      adultsRetry,
				Recognizer: prompt.RecognizerSpec{Kind: prompt.KindNumber},
			}), nil
		}
		return dialog.Advance(*rec.NAdults), nil

	case 6: // children
		adults := asInt(sc.Input)
		rec.NAdults = &adults
		if err := sc.StoreOptions(&rec); err != nil {
			return dialog.StepResult{}, err
		}
		if rec.NChildren == nil {
			return dialog.Suspend(prompt.Spec{
				Prompt:     childrenPrompt,
				Retry:      childrenRetry,
				Recognizer: prompt.RecognizerSpec{Kind: prompt.KindNumber},
			}), nil
		}
		return dialog.Advance(*rec.NChildren), nil

	case 7: // confirm
		children := asInt(sc.Input)
		rec.NChildren = &children
		if err := sc.StoreOptions(&rec); err != nil {
			return dialog.StepResult{}, err
		}
		return dialog.Suspend(prompt.Spec{
			Prompt:     rec.confirmMessage(),
			Recognizer: prompt.RecognizerSpec{Kind: prompt.KindConfirm},
		}), nil

	case 8: // final
		if confirmed, ok := sc.Input.(bool); ok && confirmed {
			return dialog.Complete(&rec), nil
		}
		if err := sc.Send(ctx, declineNotice); err != nil {
			return dialog.StepResult{}, err
		}
		return dialog.Complete((*Record)(nil)), nil

	default:
		return dialog.StepResult{}, fmt.Errorf("booking dialog has no step %d", sc.Step)
	}
}

func asString(input any) string {
	switch v := input.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(input)
}

func asInt(input any) int {
	switch v := input.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
