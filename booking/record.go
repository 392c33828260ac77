// Package booking implements the flight-booking conversation: the top-level
// dialog that routes intents, the field-collection waterfall, and the date
// resolution sub-dialog.
package booking

import (
	"fmt"

	"github.com/tripdesk/flightbot/timex"
)

// Record is the booking aggregate collected across the conversation. A zero
// field means "not yet collected"; once set, a field is only overwritten
// when the flow restarts. The record is owned by the active booking frame
// and discarded when the flow ends.
type Record struct {
	DstCity   string      `json:"dst_city,omitempty"`
	OrCity    string      `json:"or_city,omitempty"`
	StrDate   timex.Timex `json:"str_date,omitempty"`
	EndDate   timex.Timex `json:"end_date,omitempty"`
	Budget    string      `json:"budget,omitempty"`
	NAdults   *int        `json:"n_adults,omitempty"`
	NChildren *int        `json:"n_children,omitempty"`

	// UnsupportedAirports lists cities the NLU recognized but could not map
	// to a supported airport. They are reported as a warning; the
	// corresponding field stays unset.
	UnsupportedAirports []string `json:"unsupported_airports,omitempty"`
}

func (r *Record) confirmMessage() string {
	return fmt.Sprintf(
		"I understand that you're planning to travel to %s, leaving from %s on %s and returning on %s. "+
			"You'll be traveling with %d adult(s) and %d child(ren), and your budget is set at %s. "+
			"Can you please confirm that this information is correct?",
		r.DstCity, r.OrCity, r.StrDate, r.EndDate, intOrZero(r.NAdults), intOrZero(r.NChildren), r.Budget,
	)
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
