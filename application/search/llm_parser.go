package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

const (
	parserTemperature = 0
	parserMaxTokens   = 300
)

// LLMParser extracts structured filters via the external model's chat
// endpoint. Malformed output gets one repair round trip before the caller
// falls back to the heuristic.
type LLMParser struct {
	chat     ports.ChatCompleter
	jsonMode bool
	logger   *zap.Logger
}

// NewLLMParser creates a model-backed query parser.
func NewLLMParser(chat ports.ChatCompleter, jsonMode bool, logger *zap.Logger) *LLMParser {
	return &LLMParser{chat: chat, jsonMode: jsonMode, logger: logger}
}

// Parse sends the instructional prompt and parses the response as JSON.
func (p *LLMParser) Parse(ctx context.Context, query string) (Filters, error) {
	if p.chat == nil || !p.chat.Configured() {
		return Filters{}, fmt.Errorf("query parser: model not configured")
	}

	content, err := p.chat.Complete(ctx, ports.ChatRequest{
		Messages: []ports.ChatMessage{
			{Role: "system", Content: "Return only JSON. No extra text."},
			{Role: "user", Content: buildParserPrompt(query)},
		},
		Temperature: parserTemperature,
		MaxTokens:   parserMaxTokens,
		JSONMode:    p.jsonMode,
	})
	if err != nil {
		return Filters{}, err
	}
	if strings.TrimSpace(content) == "" {
		return Filters{}, fmt.Errorf("query parser: empty model response")
	}

	var filters Filters
	if err := DecodeLooseJSON(content, &filters); err == nil {
		filters.Normalize()
		return filters, nil
	}

	p.logger.Debug("query parser got invalid JSON, issuing repair round trip",
		zap.String("query", query))

	repaired, err := p.repair(ctx, content)
	if err != nil {
		return Filters{}, err
	}
	repaired.Normalize()
	return repaired, nil
}

// repair asks the model to fix its own output into valid JSON.
func (p *LLMParser) repair(ctx context.Context, content string) (Filters, error) {
	fixed, err := p.chat.Complete(ctx, ports.ChatRequest{
		Messages: []ports.ChatMessage{
			{Role: "system", Content: "Fix invalid JSON and return only valid JSON."},
			{Role: "user", Content: "Fix this to valid JSON. Preserve keys and values. Return only JSON:\n\n" + content},
		},
		Temperature: parserTemperature,
		MaxTokens:   parserMaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return Filters{}, err
	}
	if strings.TrimSpace(fixed) == "" {
		return Filters{}, fmt.Errorf("query parser: empty repair response")
	}

	var filters Filters
	if err := DecodeLooseJSON(fixed, &filters); err != nil {
		return Filters{}, fmt.Errorf("query parser: repair did not yield JSON: %w", err)
	}
	return filters, nil
}

// buildParserPrompt renders the fixed instructional prompt embedding the
// query and the closed industry and career-status lists.
func buildParserPrompt(query string) string {
	var b strings.Builder

	b.WriteString("You are a parser that extracts structured search filters from a natural ")
	b.WriteString("language query for a professional network. Return ONLY valid JSON. ")
	b.WriteString("If the input has 'at' then they are talking about school, if they say 'in' it refers to location.\n\n")
	b.WriteString("Allowed fields:\n")
	b.WriteString("- \"text_query\": string (extra terms that do not map to filters)\n")
	b.WriteString("- \"industry\": string\n")
	b.WriteString("- \"location\": string\n")
	b.WriteString("- \"school\": string\n")
	b.WriteString("- \"career_status\": string (one of: in_industry, seeking_opportunities, student, career_break)\n")
	b.WriteString("- \"skills\": array of strings\n\n")
	b.WriteString("Industry values (match case-insensitively; output the exact casing shown):\n")
	for _, option := range profile.IndustryOptions {
		b.WriteString("- " + option + "\n")
	}
	b.WriteString("\nCareer status mapping (match case-insensitively; output these exact values):\n")
	b.WriteString("- \"Currently in Industry\" -> in_industry\n")
	b.WriteString("- \"Seeking Opportunities\" -> seeking_opportunities\n")
	b.WriteString("- \"Student\" -> student\n")
	b.WriteString("- \"Career Break\" -> career_break\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Use empty string for unknown string fields.\n")
	b.WriteString("- Use [] for skills when not mentioned.\n")
	b.WriteString("- Prefer setting a filter rather than putting it in text_query.\n")
	b.WriteString("- Matching should be case-insensitive for the industry list and career status labels.\n")
	b.WriteString("- Keep capitalization as written in the query for text_query and skills when possible.\n\n")
	b.WriteString("Examples:\n")
	b.WriteString("Query: \"people who went to Virginia Tech\"\n")
	b.WriteString("JSON: {\"text_query\":\"\",\"industry\":\"\",\"location\":\"\",\"school\":\"Virginia Tech\",\"career_status\":\"\",\"skills\":[]}\n")
	b.WriteString("Query: \"women in data science in Seattle\"\n")
	b.WriteString("JSON: {\"text_query\":\"women\",\"industry\":\"Data Science\",\"location\":\"Seattle\",\"school\":\"\",\"career_status\":\"\",\"skills\":[]}\n")
	b.WriteString("Query: \"student with python and react\"\n")
	b.WriteString("JSON: {\"text_query\":\"\",\"industry\":\"\",\"location\":\"\",\"school\":\"\",\"career_status\":\"student\",\"skills\":[\"Python\",\"React\"]}\n\n")
	fmt.Fprintf(&b, "Query: %q\n", query)
	b.WriteString("JSON:")

	return b.String()
}
