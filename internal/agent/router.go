package agent

import (
	"context"
	"log"
)

const (
	// selectionAttempts bounds the reasoning step: one try plus one
	// retry before giving up on tool selection.
	selectionAttempts = 2

	fallbackMessage = "I'm sorry, I couldn't determine how to help with that. " +
		"Try asking about travel tips, a country's travel advisory, or the weather in a city."

	toolFailureMessage = "Sorry, something went wrong while answering that. Please try again."
)

// Router dispatches queries to registered tools. Respond is the single
// caller-facing entry point and always returns a plain string.
type Router struct {
	selector Selector
	tools    map[ToolName]Tool
}

func NewRouter(selector Selector, tools ...Tool) *Router {
	registry := make(map[ToolName]Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}
	return &Router{selector: selector, tools: registry}
}

// Respond answers a query, converting every internal failure into
// user-facing text. It never panics and never returns an error.
func (r *Router) Respond(ctx context.Context, query string) string {
	tool, ok := r.selectTool(ctx, query)
	if !ok {
		return fallbackMessage
	}

	env, err := tool.Answer(ctx, query)
	if err != nil {
		log.Printf("tool %s failed: %v", tool.Name(), err)
		return toolFailureMessage
	}
	return env.Render()
}

// selectTool runs the bounded selection loop. A selection error,
// whether an unparsable reply or a generation failure, is retried once
// before the router falls back.
func (r *Router) selectTool(ctx context.Context, query string) (Tool, bool) {
	for attempt := 1; attempt <= selectionAttempts; attempt++ {
		name, err := r.selector.Select(ctx, query)
		if err != nil {
			log.Printf("tool selection attempt %d/%d failed: %v", attempt, selectionAttempts, err)
			continue
		}
		tool, ok := r.tools[name]
		if !ok {
			log.Printf("tool selection attempt %d/%d returned unregistered tool %q", attempt, selectionAttempts, name)
			continue
		}
		return tool, true
	}
	return nil, false
}
