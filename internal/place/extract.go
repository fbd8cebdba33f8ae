// Package place extracts a place name from free-form query text.
// Extraction is deliberately a replaceable strategy: the regex and
// last-token heuristics are weak, and callers chain them with an
// LLM-backed extractor where one is available.
package place

import (
	"context"
	"regexp"
	"strings"
)

// Extractor pulls a single place name out of text. ok is false when no
// candidate was found.
type Extractor interface {
	Extract(ctx context.Context, text string) (name string, ok bool)
}

// Func adapts a function to the Extractor interface.
type Func func(ctx context.Context, text string) (string, bool)

func (f Func) Extract(ctx context.Context, text string) (string, bool) {
	return f(ctx, text)
}

// prepositionPattern captures the text following "in".
var prepositionPattern = regexp.MustCompile(`(?i)\bin ([A-Za-z\s]+)`)

// Preposition extracts the text following the preposition "in", e.g.
// "weather in Kuala Lumpur" -> "Kuala Lumpur".
func Preposition() Extractor {
	return Func(func(_ context.Context, text string) (string, bool) {
		m := prepositionPattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		name := strings.TrimSpace(m[1])
		return name, name != ""
	})
}

// LastToken extracts the final whitespace-delimited token, stripped of
// trailing punctuation. Degraded mode for when no entity recognizer is
// available: "What about Japan" -> "Japan".
func LastToken() Extractor {
	return Func(func(_ context.Context, text string) (string, bool) {
		fields := strings.Fields(text)
		if len(fields) == 0 {
			return "", false
		}
		name := strings.Trim(fields[len(fields)-1], ".,!?;:\"'")
		return name, name != ""
	})
}

// Chain tries extractors in order and returns the first hit.
func Chain(extractors ...Extractor) Extractor {
	return Func(func(ctx context.Context, text string) (string, bool) {
		for _, e := range extractors {
			if name, ok := e.Extract(ctx, text); ok {
				return name, true
			}
		}
		return "", false
	})
}

// Title normalizes a place name to title case for table lookups and
// display: "south korea" -> "South Korea".
func Title(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	for i, f := range fields {
		r := []rune(f)
		if len(r) > 0 {
			fields[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(fields, " ")
}
