package booking

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// Card is the itinerary summary shown once a booking is confirmed.
type Card struct {
	Title  string
	Fields []CardField
}

type CardField struct {
	Label string
	Value string
}

// NewCard lays out the record in presentation order.
func NewCard(rec *Record) Card {
	return Card{
		Title: "✈️ Flight itinerary",
		Fields: []CardField{
			{Label: "Destination", Value: rec.DstCity},
			{Label: "Origin", Value: rec.OrCity},
			{Label: "Departure", Value: string(rec.StrDate)},
			{Label: "Return", Value: string(rec.EndDate)},
			{Label: "Budget", Value: rec.Budget},
			{Label: "Adults", Value: strconv.Itoa(intOrZero(rec.NAdults))},
			{Label: "Children", Value: strconv.Itoa(intOrZero(rec.NChildren))},
		},
	}
}

// Render formats the card as a markdown table.
func (c Card) Render() string {
	var buf strings.Builder
	buf.WriteString(c.Title)
	buf.WriteString("\n\n")

	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value")
	for _, f := range c.Fields {
		_ = table.Append([]string{f.Label, f.Value})
	}
	_ = table.Render()
	return buf.String()
}
