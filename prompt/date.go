package prompt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/tripdesk/flightbot/timex"
)

// InvalidDateMessage is sent when a reply cannot be read as a date at all.
const InvalidDateMessage = "Sorry, that date is invalid. Please try again."

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	dayFirstRe  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?(?:\s+of)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})\b`)
	monthDayRe  = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	daysLaterRe = regexp.MustCompile(`(?i)\b(\d+)\s+days?\s+later\b`)
	nextWeekRe  = regexp.MustCompile(`(?i)\bnext\s+week\b`)
	bareMonthRe = regexp.MustCompile(`(?i)\b(?:in\s+)?(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
)

var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

func newDateParser() *when.Parser {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return parser
}

func (e *Engine) recognizeDate(spec RecognizerSpec, input string) (any, error) {
	anchor := e.now()
	if spec.Anchor != "" {
		if d, err := spec.Anchor.Date(); err == nil {
			anchor = d
		}
	}

	tx, ok := e.extractTimex(input, anchor)
	if !ok {
		return nil, &Reject{Reason: ReasonValidation, Message: InvalidDateMessage}
	}

	var min time.Time
	if spec.MinDate != "" {
		if d, err := time.Parse(timex.DateLayout, spec.MinDate); err == nil {
			min = d
		}
	}
	if err := ValidateDate(tx, min, spec.MinDateMessage); err != nil {
		return nil, err
	}
	return tx, nil
}

// extractTimex turns free text into a date expression. Relative phrases
// resolve against anchor. ok is false when no date reading exists at all.
func (e *Engine) extractTimex(input string, anchor time.Time) (timex.Timex, bool) {
	if m := isoDateRe.FindString(input); m != "" {
		return timex.Timex(m), true
	}
	if m := dayFirstRe.FindStringSubmatch(input); m != nil {
		return buildDayTimex(m[3], m[2], m[1]), true
	}
	if m := monthDayRe.FindStringSubmatch(input); m != nil {
		return buildDayTimex(m[3], m[1], m[2]), true
	}
	if m := daysLaterRe.FindStringSubmatch(input); m != nil {
		// The anchor day counts as day one: "14 days later" from the 2nd
		// lands on the 15th.
		n, _ := strconv.Atoi(m[1])
		if n > 0 {
			n--
		}
		return timex.FromDate(anchor.AddDate(0, 0, n)), true
	}
	if nextWeekRe.MatchString(input) {
		year, week := anchor.AddDate(0, 0, 7).ISOWeek()
		return timex.Timex(fmt.Sprintf("%04d-W%02d", year, week)), true
	}
	if m := bareMonthRe.FindStringSubmatch(input); m != nil {
		month := monthNumbers[strings.ToLower(m[1])]
		return timex.Timex(fmt.Sprintf("XXXX-%02d", int(month))), true
	}
	if hit, err := e.dates.Parse(input, anchor); err == nil && hit != nil {
		return timex.FromDate(hit.Time), true
	}
	return "", false
}

func buildDayTimex(year, monthName, day string) timex.Timex {
	month := monthNumbers[strings.ToLower(monthName)]
	y, _ := strconv.Atoi(year)
	d, _ := strconv.Atoi(day)
	return timex.FromDate(time.Date(y, month, d, 0, 0, 0, 0, time.UTC))
}

// ValidateDate checks one date expression. Malformed values always report
// invalid rather than out of bounds, partial and range values report
// ambiguity, and only definite values are held against min.
func ValidateDate(tx timex.Timex, min time.Time, minMessage string) error {
	if tx == "" {
		return &Reject{Reason: ReasonValidation, Message: InvalidDateMessage}
	}
	if !tx.IsDefinite() {
		return &Reject{Reason: ReasonAmbiguity}
	}
	date, err := tx.Date()
	if err != nil {
		return &Reject{Reason: ReasonValidation, Message: InvalidDateMessage}
	}
	if !min.IsZero() && date.Before(min) {
		return &Reject{Reason: ReasonBounds, Message: minMessage}
	}
	return nil
}
