package nlu

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"

	"github.com/tripdesk/flightbot/timex"
)

const (
	extractToolName        = "extract_flight_request"
	extractToolDescription = "Extract the user's intent and any flight booking entities from the utterance. Only include entities the user explicitly mentioned."
)

type flightExtraction struct {
	Intent    string  `json:"intent" jsonschema:"required,enum=BookFlight,enum=Communication.Cancel,enum=Communication.Confirm,enum=None,description=The user's top intent. Use None for anything that is not about booking a flight."`
	DstCity   string  `json:"dst_city,omitempty" jsonschema:"description=Destination city as mentioned by the user"`
	OrCity    string  `json:"or_city,omitempty" jsonschema:"description=Origin city as mentioned by the user"`
	StrDate   string  `json:"str_date,omitempty" jsonschema:"description=Outbound travel date as TIMEX (YYYY-MM-DD when the day is fully specified; partial forms like XXXX-02-10 or 2023-W06 otherwise)"`
	EndDate   string  `json:"end_date,omitempty" jsonschema:"description=Return date as TIMEX, same conventions as str_date"`
	BudgetNum float64 `json:"budget_number,omitempty" jsonschema:"description=Numeric part of the stated budget"`
	BudgetCur string  `json:"budget_units,omitempty" jsonschema:"description=Currency unit of the stated budget, e.g. Euro or Dollar"`
	NAdults   *int    `json:"n_adults,omitempty" jsonschema:"description=Number of adult travellers"`
	NChildren *int    `json:"n_children,omitempty" jsonschema:"description=Number of child travellers"`
}

// ToolRecognizer extracts intent and entities with a forced tool call on a
// chat model.
type ToolRecognizer struct {
	chatModel model.ToolCallingChatModel
	toolInfo  *schema.ToolInfo
	airports  AirportTable
	now       func() time.Time
}

func NewToolRecognizer(chatModel model.ToolCallingChatModel, airports AirportTable) (*ToolRecognizer, error) {
	toolInfo, err := utils.GoStruct2ToolInfo[flightExtraction](extractToolName, extractToolDescription)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	if airports == nil {
		airports = DefaultAirports
	}
	return &ToolRecognizer{
		chatModel: chatModel,
		toolInfo:  toolInfo,
		airports:  airports,
		now:       time.Now,
	}, nil
}

func (r *ToolRecognizer) Recognize(ctx context.Context, utterance string) (*Result, error) {
	messages := []*schema.Message{
		schema.SystemMessage(r.buildSystemPrompt()),
		schema.UserMessage(utterance),
	}

	response, err := r.chatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{r.toolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, r.toolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}
	if len(response.ToolCalls) == 0 {
		return nil, fmt.Errorf("no ToolCall found in model response: %s", response.Content)
	}

	var extraction flightExtraction
	if err := sonic.UnmarshalString(response.ToolCalls[0].Function.Arguments, &extraction); err != nil {
		return nil, fmt.Errorf("parse ToolCall arguments failed: %w", err)
	}

	return r.toResult(extraction), nil
}

func (r *ToolRecognizer) toResult(x flightExtraction) *Result {
	result := &Result{Intent: x.Intent}
	if result.Intent == "" {
		result.Intent = IntentNone
	}
	if x.DstCity != "" {
		result.add(EntityDstCity, r.airports.cityEntity(x.DstCity))
	}
	if x.OrCity != "" {
		result.add(EntityOrCity, r.airports.cityEntity(x.OrCity))
	}
	switch {
	case x.StrDate != "" && x.EndDate != "":
		result.add(EntityDatetime, Entity{
			Type:  DatetimeTypeDaterange,
			Timex: []timex.Timex{timex.Timex(fmt.Sprintf("(%s,%s)", x.StrDate, x.EndDate))},
		})
	case x.StrDate != "":
		result.add(EntityDatetime, Entity{
			Type:  DatetimeTypeDate,
			Timex: []timex.Timex{timex.Timex(x.StrDate)},
		})
	}
	if x.BudgetNum > 0 {
		result.add(EntityMoney, Entity{Number: x.BudgetNum, Units: x.BudgetCur})
	}
	if x.NAdults != nil {
		result.add(EntityNAdults, Entity{Number: float64(*x.NAdults)})
	}
	if x.NChildren != nil {
		result.add(EntityNChildren, Entity{Number: float64(*x.NChildren)})
	}
	return result
}

func (r *ToolRecognizer) buildSystemPrompt() string {
	sections := []string{
		"You are the language understanding component of a flight booking assistant. Extract the intent and entities from the user's message.",
		fmt.Sprintf("# Current Date:\n%s", r.now().Format(time.RFC3339)),
		formatAirportsSection(r.airports),
		"Resolve relative dates (\"tomorrow\", \"next friday\") against the current date and emit a full YYYY-MM-DD TIMEX. Emit partial TIMEX forms when the user leaves the date ambiguous.",
		fmt.Sprintf("Call the '%s' tool with the result.", extractToolName),
	}
	return strings.Join(sections, "\n\n")
}

func formatAirportsSection(airports AirportTable) string {
	var buf strings.Builder
	buf.WriteString("# Supported airports:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("City")
	for _, city := range airports {
		_ = table.Append(city)
	}
	_ = table.Render()
	return buf.String()
}
