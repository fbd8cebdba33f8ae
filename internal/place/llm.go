package place

import (
	"context"
	"strings"
)

// Generator is the subset of the LLM client used for entity extraction.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

const extractSystemPrompt = "You extract geographic place names from text. " +
	"Reply with only the single most relevant country or city name mentioned " +
	"in the message. If no place is mentioned, reply with exactly NONE."

// LLM returns an extractor backed by a language model, replacing a
// dedicated named-entity recognizer. Any generation failure or a NONE
// reply degrades to not-found so callers can fall back to a heuristic.
func LLM(g Generator) Extractor {
	return Func(func(ctx context.Context, text string) (string, bool) {
		reply, err := g.Generate(ctx, extractSystemPrompt, text)
		if err != nil {
			return "", false
		}
		name := strings.Trim(strings.TrimSpace(reply), ".\"'")
		if name == "" || strings.EqualFold(name, "NONE") {
			return "", false
		}
		// Guard against chatty replies that are clearly not a name.
		if len(strings.Fields(name)) > 5 {
			return "", false
		}
		return name, true
	})
}
