package booking

import (
	"fmt"
	"strconv"

	"github.com/tripdesk/flightbot/nlu"
	"github.com/tripdesk/flightbot/patch"
)

// recordPaths is the closed set of record members prefill may write.
var recordPaths = map[string]bool{
	"/dst_city":   true,
	"/or_city":    true,
	"/str_date":   true,
	"/end_date":   true,
	"/budget":     true,
	"/n_adults":   true,
	"/n_children": true,
}

// Prefill folds the entities of one NLU result into a fresh record, so the
// booking flow only asks for what the opening utterance left out. Cities
// without a supported airport are collected as warnings instead of being
// written.
func Prefill(result *nlu.Result) (*Record, error) {
	var ops []patch.Operation
	var unsupported []string

	city := func(name, path string) {
		entity, ok := result.First(name)
		if !ok {
			return
		}
		if entity.Value == "" {
			unsupported = append(unsupported, entity.Text)
			return
		}
		ops = append(ops, patch.Operation{Op: patch.OpAdd, Path: path, Value: entity.Value})
	}
	city(nlu.EntityDstCity, "/dst_city")
	city(nlu.EntityOrCity, "/or_city")

	if dt, ok := result.First(nlu.EntityDatetime); ok && len(dt.Timex) > 0 {
		switch dt.Type {
		case nlu.DatetimeTypeDaterange:
			if start, end, ok := dt.Timex[0].SplitRange(); ok {
				ops = append(ops,
					patch.Operation{Op: patch.OpAdd, Path: "/str_date", Value: start},
					patch.Operation{Op: patch.OpAdd, Path: "/end_date", Value: end},
				)
			}
		case nlu.DatetimeTypeDate:
			ops = append(ops, patch.Operation{Op: patch.OpAdd, Path: "/str_date", Value: dt.Timex[0]})
		}
	}

	if money, ok := result.First(nlu.EntityMoney); ok {
		budget := strconv.FormatFloat(money.Number, 'f', -1, 64)
		if money.Units != "" {
			budget += " " + money.Units
		}
		ops = append(ops, patch.Operation{Op: patch.OpAdd, Path: "/budget", Value: budget})
	}

	if adults, ok := result.First(nlu.EntityNAdults); ok {
		ops = append(ops, patch.Operation{Op: patch.OpAdd, Path: "/n_adults", Value: int(adults.Number)})
	}
	if children, ok := result.First(nlu.EntityNChildren); ok {
		ops = append(ops, patch.Operation{Op: patch.OpAdd, Path: "/n_children", Value: int(children.Number)})
	}

	record, err := patch.Apply(Record{}, ops, recordPaths)
	if err != nil {
		return nil, fmt.Errorf("prefill booking record: %w", err)
	}
	record.UnsupportedAirports = unsupported
	return &record, nil
}
