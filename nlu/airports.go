package nlu

import "strings"

// AirportTable maps city names to their canonical form. A city entity whose
// text is not in the table is still reported, with an empty Value, so the
// caller can warn about the unsupported airport.
type AirportTable map[string]string

// DefaultAirports is the set of cities the booking backend can serve.
var DefaultAirports = AirportTable{
	"paris":     "Paris",
	"london":    "London",
	"berlin":    "Berlin",
	"madrid":    "Madrid",
	"rome":      "Rome",
	"tunis":     "Tunis",
	"le havre":  "Le Havre",
	"marseille": "Marseille",
	"lyon":      "Lyon",
	"new york":  "New York",
}

// Resolve maps a surface city name to its canonical form.
func (t AirportTable) Resolve(text string) (string, bool) {
	canonical, ok := t[strings.ToLower(strings.TrimSpace(text))]
	return canonical, ok
}

func (t AirportTable) cityEntity(text string) Entity {
	e := Entity{Text: titleCase(text)}
	if canonical, ok := t.Resolve(text); ok {
		e.Value = canonical
	}
	return e
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
