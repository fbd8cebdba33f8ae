package agent

import (
	"context"
	"fmt"
	"strings"
)

// Selector decides which tool should answer a query. Implementations
// return ErrUnparsable (wrapped) when they cannot produce a valid
// tool name; the router treats that as retryable.
type Selector interface {
	Select(ctx context.Context, query string) (ToolName, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(ctx context.Context, query string) (ToolName, error)

func (f SelectorFunc) Select(ctx context.Context, query string) (ToolName, error) {
	return f(ctx, query)
}

// ErrUnparsable reports that selector output could not be parsed into
// a registered tool name.
var ErrUnparsable = fmt.Errorf("tool selection output did not name a known tool")

// Generator is the subset of the LLM client the selector needs.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// LLMSelector asks a language model to pick a tool by name, reasoning
// over each tool's description.
type LLMSelector struct {
	generator Generator
	tools     []Tool
	prompt    string
}

func NewLLMSelector(generator Generator, tools []Tool) *LLMSelector {
	var b strings.Builder
	b.WriteString("You route user questions to exactly one of the following tools.\n\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "%s: %s\n\n", t.Name(), t.Description())
	}
	b.WriteString("Reply with only the name of the single best tool for the user's question, ")
	b.WriteString("exactly as written above. Do not add any other text.")
	return &LLMSelector{generator: generator, tools: tools, prompt: b.String()}
}

// Select asks the model for a tool name and parses the reply against
// the registered set. A reply that names no registered tool yields
// ErrUnparsable; a generation failure is returned as-is.
func (s *LLMSelector) Select(ctx context.Context, query string) (ToolName, error) {
	reply, err := s.generator.Generate(ctx, s.prompt, query)
	if err != nil {
		return "", fmt.Errorf("tool selection failed: %w", err)
	}
	return s.parse(reply)
}

func (s *LLMSelector) parse(reply string) (ToolName, error) {
	normalized := strings.ToLower(strings.TrimSpace(reply))
	normalized = strings.Trim(normalized, ".\"'`")

	// Exact match first, then a containment pass for replies like
	// "I would use the weather tool."
	for _, t := range s.tools {
		if normalized == string(t.Name()) {
			return t.Name(), nil
		}
	}
	var matched ToolName
	for _, t := range s.tools {
		if strings.Contains(normalized, string(t.Name())) {
			if matched != "" {
				return "", fmt.Errorf("%w: ambiguous reply %q", ErrUnparsable, reply)
			}
			matched = t.Name()
		}
	}
	if matched == "" {
		return "", fmt.Errorf("%w: %q", ErrUnparsable, reply)
	}
	return matched, nil
}
