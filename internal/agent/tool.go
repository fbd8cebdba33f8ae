// Package agent routes a user query to the specialized tool best
// suited to answer it. Tool selection is a pluggable strategy; the
// default uses a language model to reason over tool descriptions.
package agent

import (
	"context"

	"github.com/jocelynow/travelpal/internal/answer"
)

// ToolName identifies a registered tool. The set of valid names is
// closed: selector output is parsed against the registry, never
// trusted as-is.
type ToolName string

const (
	// ToolTravelGuide answers policy questions from the ingested
	// travel corpus.
	ToolTravelGuide ToolName = "travel_guide"
	// ToolCountryAdvisory answers country-specific questions from the
	// static advisory table.
	ToolCountryAdvisory ToolName = "country_advisory"
	// ToolWeather reports average monthly temperatures for a city.
	ToolWeather ToolName = "weather"
)

// Tool is a specialized answerer the router can dispatch to.
type Tool interface {
	Name() ToolName
	Description() string
	Answer(ctx context.Context, query string) (answer.Envelope, error)
}

// AnswerFunc is the common answering signature shared by the tools.
type AnswerFunc func(ctx context.Context, query string) (answer.Envelope, error)

type funcTool struct {
	name        ToolName
	description string
	fn          AnswerFunc
}

// NewTool wraps an answering function as a named Tool.
func NewTool(name ToolName, description string, fn AnswerFunc) Tool {
	return funcTool{name: name, description: description, fn: fn}
}

func (t funcTool) Name() ToolName      { return t.name }
func (t funcTool) Description() string { return t.description }

func (t funcTool) Answer(ctx context.Context, query string) (answer.Envelope, error) {
	return t.fn(ctx, query)
}

const (
	// TravelGuideDescription steers querier selection toward the corpus
	// tool for general travel policy questions.
	TravelGuideDescription = "Answers general travel questions about tips, consular help, " +
		"customs rules, and travel documents using an official reference corpus. " +
		"Use for policy questions that are not about one specific foreign country's " +
		"advisory status or the weather."

	// CountryAdvisoryDescription steers selection toward the static
	// advisory table for per-country safety questions.
	CountryAdvisoryDescription = "Answers country-specific travel advisory questions, such as " +
		"whether it is safe to visit a particular country, using official per-country " +
		"advisory pages."

	// WeatherDescription steers selection toward the climate tool.
	WeatherDescription = "Provides the average monthly temperature for a given city. Use for " +
		"any question about weather, temperature, or climate."
)
