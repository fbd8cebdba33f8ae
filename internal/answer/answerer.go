// Package answer composes document-grounded answers: retrieval from the
// vector index, generation constrained to the retrieved context, and
// reference collection.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jocelynow/travelpal/internal/index"
	"github.com/jocelynow/travelpal/internal/llm"
)

// The generator is instructed to answer only from the supplied context.
// This is instruction-level enforcement only; the output is not verified
// against the context afterwards.
const groundedSystemPrompt = "Answer the question ONLY using the information provided in the context below. " +
	"Do NOT use your own knowledge or assume anything."

// Retriever returns the top k chunks for a query.
// Satisfied by *index.Service.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]index.Result, error)
}

// Answerer answers questions strictly from retrieved corpus context
type Answerer struct {
	retriever Retriever
	generator llm.Generator
	topK      int
}

// NewAnswerer creates a grounded answerer. topK defaults to 3.
func NewAnswerer(retriever Retriever, generator llm.Generator, topK int) *Answerer {
	if topK <= 0 {
		topK = 3
	}
	return &Answerer{
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// Answer retrieves context for the query, generates an answer from that
// context alone, and attaches the retrieved chunks' reference URLs.
// Index failures surface as index.ErrUnavailable, generation failures
// as *llm.GenerationError; neither is retried here.
func (a *Answerer) Answer(ctx context.Context, query string) (Envelope, error) {
	results, err := a.retriever.Query(ctx, query, a.topK)
	if err != nil {
		return Envelope{}, err
	}

	prompt := buildPrompt(query, results)
	body, err := a.generator.Generate(ctx, groundedSystemPrompt, prompt)
	if err != nil {
		return Envelope{}, err
	}

	env := NewEnvelope(body)
	for _, r := range results {
		env.AddReferences(r.Chunk.References...)
	}
	return env, nil
}

// buildPrompt supplies ONLY the retrieved chunk texts as context.
func buildPrompt(query string, results []index.Result) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(r.Chunk.Text)
	}
	sb.WriteString(fmt.Sprintf("\n\nQuestion: %s\nAnswer:", query))
	return sb.String()
}
