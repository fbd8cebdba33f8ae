package advisory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jocelynow/travelpal/internal/place"
)

type failingFetcher struct{}

func (failingFetcher) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

type pageFetcher struct {
	page string
	urls []string
}

func (f *pageFetcher) Get(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.page, nil
}

func TestLookupDegradesWhenFetchFails(t *testing.T) {
	table := NewTable(map[string]string{"Japan": "https://mfa.example/japan"})
	lookup := NewLookup(table, place.LastToken(), failingFetcher{})

	env, err := lookup.Answer(context.Background(), "What about Japan")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	rendered := env.Render()
	if !strings.Contains(rendered, "Japan") {
		t.Errorf("rendered output missing country name: %q", rendered)
	}
	if !strings.Contains(rendered, "https://mfa.example/japan") {
		t.Errorf("rendered output missing advisory URL: %q", rendered)
	}
}

func TestLookupUsesPageTitle(t *testing.T) {
	table := NewTable(map[string]string{"France": "https://mfa.example/france"})
	f := &pageFetcher{page: "<html><head><title>France Travel Page</title></head></html>"}
	lookup := NewLookup(table, place.LastToken(), f)

	env, err := lookup.Answer(context.Background(), "Is it safe to visit France?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if env.Body != "France Travel Page" {
		t.Errorf("body = %q, want page title", env.Body)
	}
	if len(f.urls) != 1 || f.urls[0] != "https://mfa.example/france" {
		t.Errorf("fetched %v, want the advisory URL", f.urls)
	}
	if len(env.ReferenceURLs) != 1 || env.ReferenceURLs[0] != "https://mfa.example/france" {
		t.Errorf("references = %v", env.ReferenceURLs)
	}
}

func TestLookupNormalizesCase(t *testing.T) {
	table := NewTable(map[string]string{"South Korea": "https://mfa.example/kr"})
	lookup := NewLookup(table, place.Preposition(), nil)

	env, err := lookup.Answer(context.Background(), "travel rules in south korea")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if env.Body != "Travel Advisory for South Korea" {
		t.Errorf("body = %q", env.Body)
	}
}

func TestLookupUnknownCountry(t *testing.T) {
	table := NewTable(map[string]string{"Japan": "https://mfa.example/japan"})
	lookup := NewLookup(table, place.LastToken(), failingFetcher{})

	env, err := lookup.Answer(context.Background(), "What about Atlantis")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if env.Body != notFoundMessage {
		t.Errorf("body = %q, want not-found message", env.Body)
	}
	if len(env.ReferenceURLs) != 0 {
		t.Errorf("unexpected references: %v", env.ReferenceURLs)
	}
}

func TestBuiltinTable(t *testing.T) {
	table, err := BuiltinTable()
	if err != nil {
		t.Fatalf("BuiltinTable: %v", err)
	}
	if table.Len() < 100 {
		t.Errorf("table has %d entries, expected the full country set", table.Len())
	}
	url, ok := table.Resolve("japan")
	if !ok || !strings.Contains(url, "japan") {
		t.Errorf("Resolve(japan) = %q, %v", url, ok)
	}
}
