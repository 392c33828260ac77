package nlu

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/tripdesk/flightbot/timex"
)

var (
	toCityRe   = regexp.MustCompile(`\bto\s+([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*)`)
	fromCityRe = regexp.MustCompile(`\bfrom\s+([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*)`)
	isoDateRe  = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	moneyRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(€|\$|euros?|dollars?|bitcoins?)`)
	adultsRe   = regexp.MustCompile(`(?i)(\d+)\s+adult`)
	childrenRe = regexp.MustCompile(`(?i)(\d+)\s+(?:child|children|kid)`)
)

var currencyNames = map[string]string{
	"€": "Euro", "euro": "Euro", "euros": "Euro",
	"$": "Dollar", "dollar": "Dollar", "dollars": "Dollar",
	"bitcoin": "Bitcoin", "bitcoins": "Bitcoin",
}

// RuleRecognizer is a deterministic keyword and pattern based recognizer for
// running without a chat model. Best effort only: it understands explicit
// phrasing ("to Paris from London on 2023-02-10") and a few natural date
// forms, and maps everything else to the None intent.
type RuleRecognizer struct {
	airports AirportTable
	cities   *regexp.Regexp
	dates    *when.Parser
	now      func() time.Time
}

func NewRuleRecognizer(airports AirportTable) *RuleRecognizer {
	if airports == nil {
		airports = DefaultAirports
	}
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return &RuleRecognizer{
		airports: airports,
		cities:   cityMentionPattern(airports),
		dates:    parser,
		now:      time.Now,
	}
}

// Entities are extracted whatever the intent turned out to be: a prompt reply
// like "Paris" or "100€" carries no booking keyword, yet the prompt engine
// still has to find its entity in the result.
func (r *RuleRecognizer) Recognize(ctx context.Context, utterance string) (*Result, error) {
	text := strings.TrimSpace(utterance)
	lower := strings.ToLower(text)

	result := &Result{Intent: r.intentOf(lower)}

	if m := toCityRe.FindStringSubmatch(text); m != nil {
		result.add(EntityDstCity, r.airports.cityEntity(m[1]))
	}
	if m := fromCityRe.FindStringSubmatch(text); m != nil {
		result.add(EntityOrCity, r.airports.cityEntity(m[1]))
	}
	if m := r.cities.FindString(text); m != "" {
		result.add(EntityCity, r.airports.cityEntity(m))
	}
	r.addDates(result, text)
	if m := moneyRe.FindStringSubmatch(text); m != nil {
		var amount float64
		fmt.Sscanf(m[1], "%f", &amount)
		result.add(EntityMoney, Entity{
			Text:   m[0],
			Number: amount,
			Units:  currencyNames[strings.ToLower(m[2])],
		})
	}
	if m := adultsRe.FindStringSubmatch(text); m != nil {
		var n float64
		fmt.Sscanf(m[1], "%f", &n)
		result.add(EntityNAdults, Entity{Text: m[0], Number: n})
	}
	if m := childrenRe.FindStringSubmatch(text); m != nil {
		var n float64
		fmt.Sscanf(m[1], "%f", &n)
		result.add(EntityNChildren, Entity{Text: m[0], Number: n})
	}
	return result, nil
}

// cityMentionPattern matches any supported airport name mentioned in the
// utterance. Longer names come first so "Le Havre" wins over a shorter
// alternative sharing a word.
func cityMentionPattern(airports AirportTable) *regexp.Regexp {
	names := make([]string, 0, len(airports))
	for name := range airports {
		names = append(names, regexp.QuoteMeta(name))
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(names, "|") + `)\b`)
}

func (r *RuleRecognizer) intentOf(lower string) string {
	for _, kw := range []string{"bye", "goodbye", "cancel"} {
		if strings.Contains(lower, kw) {
			return IntentCancel
		}
	}
	for _, kw := range []string{"book", "flight", "travel", "go to", "fly", "trip"} {
		if strings.Contains(lower, kw) {
			return IntentBookFlight
		}
	}
	return IntentNone
}

func (r *RuleRecognizer) addDates(result *Result, text string) {
	if dates := isoDateRe.FindAllString(text, 2); len(dates) > 0 {
		if len(dates) == 2 {
			result.add(EntityDatetime, Entity{
				Type:  DatetimeTypeDaterange,
				Timex: []timex.Timex{timex.Timex(fmt.Sprintf("(%s,%s)", dates[0], dates[1]))},
			})
			return
		}
		result.add(EntityDatetime, Entity{
			Type:  DatetimeTypeDate,
			Timex: []timex.Timex{timex.Timex(dates[0])},
		})
		return
	}
	if hit, err := r.dates.Parse(text, r.now()); err == nil && hit != nil {
		result.add(EntityDatetime, Entity{
			Text:  hit.Text,
			Type:  DatetimeTypeDate,
			Timex: []timex.Timex{timex.FromDate(hit.Time)},
		})
	}
}
