// Package timex models the normalized date expressions produced by
// date/time recognition. A Timex may denote a precise calendar day
// ("2023-02-02"), a partial or recurring expression ("XXXX-02-02",
// "2023-02", "2023-W06"), or a date range ("(2023-02-02,2023-02-15,P13D)").
package timex

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Timex is a normalized date/time expression string.
type Timex string

// DateLayout is the wire format for definite calendar dates.
const DateLayout = "2006-01-02"

var definiteDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FromDate converts a calendar date into a definite Timex.
func FromDate(t time.Time) Timex {
	return Timex(t.Format(DateLayout))
}

// DatePart strips any time-of-day component ("2023-02-02T09" -> "2023-02-02").
func (tx Timex) DatePart() string {
	s, _, _ := strings.Cut(string(tx), "T")
	return s
}

// IsRange reports whether the expression is a date range.
func (tx Timex) IsRange() bool {
	s := string(tx)
	return strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

// SplitRange splits a range expression "(start,end,duration)" into its start
// and end components. ok is false if the expression is not a range.
func (tx Timex) SplitRange() (start, end Timex, ok bool) {
	if !tx.IsRange() {
		return "", "", false
	}
	inner := strings.Trim(string(tx), "()")
	parts := strings.Split(inner, ",")
	if len(parts) < 2 {
		return "", "", false
	}
	return Timex(strings.TrimSpace(parts[0])), Timex(strings.TrimSpace(parts[1])), true
}

// IsDefinite reports whether the expression denotes one precise calendar day:
// a full year-month-day with no placeholder digits and no range.
func (tx Timex) IsDefinite() bool {
	if tx.IsRange() {
		return false
	}
	return definiteDateRe.MatchString(tx.DatePart())
}

// Date resolves a definite expression to its calendar day.
func (tx Timex) Date() (time.Time, error) {
	d, err := time.Parse(DateLayout, tx.DatePart())
	if err != nil {
		return time.Time{}, fmt.Errorf("timex %q is not a calendar date: %w", string(tx), err)
	}
	return d, nil
}
