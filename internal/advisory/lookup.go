package advisory

import (
	"context"
	"fmt"

	"github.com/jocelynow/travelpal/internal/answer"
	"github.com/jocelynow/travelpal/internal/fetch"
	"github.com/jocelynow/travelpal/internal/place"
)

const notFoundMessage = "I couldn't detect a valid country for the travel advisory."

// PageFetcher retrieves a page body for title extraction.
type PageFetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// Lookup resolves a country mentioned in a query to its advisory page.
// The fetched page only supplies a human-readable title; when the fetch
// fails the tool degrades to a templated descriptor instead of erroring.
type Lookup struct {
	table     *Table
	extractor place.Extractor
	fetcher   PageFetcher
}

// NewLookup wires a lookup tool. fetcher may be nil, in which case no
// page is fetched and the templated descriptor is always used.
func NewLookup(table *Table, extractor place.Extractor, fetcher PageFetcher) *Lookup {
	return &Lookup{table: table, extractor: extractor, fetcher: fetcher}
}

// Answer returns the advisory envelope for the query. An unresolvable
// place is an expected outcome, not an error: the envelope carries a
// helpful message and no references.
func (l *Lookup) Answer(ctx context.Context, query string) (answer.Envelope, error) {
	name, ok := l.extractor.Extract(ctx, query)
	if !ok {
		return answer.NewEnvelope(notFoundMessage), nil
	}
	country := place.Title(name)
	url, ok := l.table.Resolve(country)
	if !ok {
		return answer.NewEnvelope(notFoundMessage), nil
	}

	title := l.pageTitle(ctx, url)
	if title == "" {
		title = fmt.Sprintf("Travel Advisory for %s", country)
	}

	env := answer.NewEnvelope(title)
	env.AddReferences(url)
	return env, nil
}

func (l *Lookup) pageTitle(ctx context.Context, url string) string {
	if l.fetcher == nil {
		return ""
	}
	page, err := l.fetcher.Get(ctx, url)
	if err != nil {
		return ""
	}
	return fetch.Title(page)
}
