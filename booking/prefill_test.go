package booking

import (
	"testing"

	"github.com/tripdesk/flightbot/nlu"
	"github.com/tripdesk/flightbot/timex"
)

func TestPrefillFullRequest(t *testing.T) {
	t.Parallel()
	result := &nlu.Result{
		Intent: nlu.IntentBookFlight,
		Entities: map[string][]nlu.Entity{
			nlu.EntityDstCity: {{Text: "Paris", Value: "Paris"}},
			nlu.EntityOrCity:  {{Text: "Le Havre", Value: "Le Havre"}},
			nlu.EntityDatetime: {{
				Type:  nlu.DatetimeTypeDaterange,
				Timex: []timex.Timex{"(2023-02-10,2023-02-15,P5D)"},
			}},
			nlu.EntityMoney:     {{Number: 100, Units: "Euro"}},
			nlu.EntityNAdults:   {{Text: "1", Number: 1}},
			nlu.EntityNChildren: {{Text: "2", Number: 2}},
		},
	}

	rec, err := Prefill(result)
	if err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if rec.DstCity != "Paris" || rec.OrCity != "Le Havre" {
		t.Errorf("cities = %q / %q", rec.DstCity, rec.OrCity)
	}
	if rec.StrDate != "2023-02-10" || rec.EndDate != "2023-02-15" {
		t.Errorf("dates = %q / %q", rec.StrDate, rec.EndDate)
	}
	if rec.Budget != "100 Euro" {
		t.Errorf("budget = %q", rec.Budget)
	}
	if intOrZero(rec.NAdults) != 1 || intOrZero(rec.NChildren) != 2 {
		t.Errorf("party = %v / %v", rec.NAdults, rec.NChildren)
	}
	if len(rec.UnsupportedAirports) != 0 {
		t.Errorf("unexpected warnings: %q", rec.UnsupportedAirports)
	}
}

func TestPrefillSingleDate(t *testing.T) {
	t.Parallel()
	result := &nlu.Result{
		Intent: nlu.IntentBookFlight,
		Entities: map[string][]nlu.Entity{
			nlu.EntityDatetime: {{Type: nlu.DatetimeTypeDate, Timex: []timex.Timex{"2023-02-10"}}},
		},
	}

	rec, err := Prefill(result)
	if err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if rec.StrDate != "2023-02-10" {
		t.Errorf("start date = %q", rec.StrDate)
	}
	if rec.EndDate != "" {
		t.Errorf("end date = %q, want empty", rec.EndDate)
	}
}

func TestPrefillCollectsUnsupportedAirports(t *testing.T) {
	t.Parallel()
	result := &nlu.Result{
		Intent: nlu.IntentBookFlight,
		Entities: map[string][]nlu.Entity{
			nlu.EntityDstCity: {{Text: "Atlantis"}},
			nlu.EntityOrCity:  {{Text: "Paris", Value: "Paris"}},
		},
	}

	rec, err := Prefill(result)
	if err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if rec.DstCity != "" {
		t.Errorf("destination = %q, want empty", rec.DstCity)
	}
	if rec.OrCity != "Paris" {
		t.Errorf("origin = %q", rec.OrCity)
	}
	if len(rec.UnsupportedAirports) != 1 || rec.UnsupportedAirports[0] != "Atlantis" {
		t.Errorf("warnings = %q", rec.UnsupportedAirports)
	}
}

func TestPrefillEmptyResult(t *testing.T) {
	t.Parallel()
	rec, err := Prefill(&nlu.Result{Intent: nlu.IntentBookFlight})
	if err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	if rec.DstCity != "" || rec.OrCity != "" || rec.StrDate != "" || rec.EndDate != "" ||
		rec.Budget != "" || rec.NAdults != nil || rec.NChildren != nil || len(rec.UnsupportedAirports) != 0 {
		t.Errorf("record = %+v, want zero", rec)
	}
}
