package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripdesk/flightbot/dialog"
	"github.com/tripdesk/flightbot/nlu"
	"github.com/tripdesk/flightbot/prompt"
)

const (
	greetingPrompt = "Hello! What can I help you with today?"

	goodbyeNotice   = "Okay, bye! Have a great day."
	offTopicNotice  = "Sorry, I only book flights. Can you please rephrase your request?"
	ambiguousNotice = "I'm sorry, I didn't understand that. Can you please try asking in a different way?"

	anythingElsePrompt = "Is there anything else I can help you with?"
)

// MainDialog is the conversation root: it greets, routes the opening
// utterance by intent, and loops back for the next request once a booking
// flow ends. Its options payload is the greeting text for the current loop
// iteration.
type MainDialog struct {
	recognizer nlu.Recognizer
}

// NewMainDialog requires the NLU collaborator; intent routing has no
// recognizer-less path.
func NewMainDialog(recognizer nlu.Recognizer) *MainDialog {
	return &MainDialog{recognizer: recognizer}
}

func (d *MainDialog) ID() dialog.ID { return dialog.IDMain }

func (d *MainDialog) Step(ctx context.Context, sc *dialog.StepContext) (dialog.StepResult, error) {
	switch sc.Step {
	case 0: // greet
		greeting := greetingPrompt
		var custom string
		if err := sc.DecodeOptions(&custom); err == nil && custom != "" {
			greeting = custom
		}
		return dialog.Suspend(prompt.Spec{
			Prompt:     greeting,
			Recognizer: prompt.RecognizerSpec{Kind: prompt.KindText},
		}), nil

	case 1: // route by intent
		result, err := d.recognizer.Recognize(ctx, asString(sc.Input))
		if err != nil {
			return dialog.StepResult{}, fmt.Errorf("recognize request: %w", err)
		}

		switch result.Intent {
		case nlu.IntentBookFlight:
			rec, err := Prefill(result)
			if err != nil {
				return dialog.StepResult{}, err
			}
			if len(rec.UnsupportedAirports) > 0 {
				warning := "Sorry but the following airports are not supported: " +
					strings.Join(rec.UnsupportedAirports, ", ")
				if err := sc.Send(ctx, warning); err != nil {
					return dialog.StepResult{}, err
				}
			}
			return dialog.Delegate(dialog.IDBooking, rec), nil

		case nlu.IntentCancel:
			if err := sc.Send(ctx, goodbyeNotice); err != nil {
				return dialog.StepResult{}, err
			}
			return dialog.Advance(nil), nil

		case nlu.IntentNone:
			if err := sc.Send(ctx, offTopicNotice); err != nil {
				return dialog.StepResult{}, err
			}
			return dialog.Advance(nil), nil

		default:
			if err := sc.Send(ctx, ambiguousNotice); err != nil {
				return dialog.StepResult{}, err
			}
			return dialog.Advance(nil), nil
		}

	case 2: // wrap up and loop
		if rec, ok := sc.Input.(*Record); ok && rec != nil {
			if err := sc.Send(ctx, NewCard(rec).Render()); err != nil {
				return dialog.StepResult{}, err
			}
			wrapUp := fmt.Sprintf(
				"Your flight is all set! It includes %d adult(s) and %d child(ren) from %s to %s, "+
					"departing on %s and returning on %s. "+
					"I've sent the booking details to your email. Have a great trip!",
				intOrZero(rec.NAdults), intOrZero(rec.NChildren),
				rec.OrCity, rec.DstCity, rec.StrDate, rec.EndDate,
			)
			if err := sc.Send(ctx, wrapUp); err != nil {
				return dialog.StepResult{}, err
			}
		}
		return dialog.Replace(dialog.IDMain, anythingElsePrompt), nil

	default:
		return dialog.StepResult{}, fmt.Errorf("main dialog has no step %d", sc.Step)
	}
}
