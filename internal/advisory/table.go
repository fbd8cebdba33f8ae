// Package advisory answers country-specific travel questions from a
// static table of official advisory pages.
package advisory

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jocelynow/travelpal/internal/place"
)

//go:embed countries.yaml
var builtinCountries []byte

// Table maps title-cased country names to their canonical advisory URL.
// It is read-only after construction and safe for concurrent readers.
type Table struct {
	urls map[string]string
}

// NewTable builds a table from an explicit mapping. Keys are normalized
// to title case.
func NewTable(urls map[string]string) *Table {
	t := &Table{urls: make(map[string]string, len(urls))}
	for name, url := range urls {
		t.urls[place.Title(name)] = url
	}
	return t
}

// BuiltinTable loads the embedded country table.
func BuiltinTable() (*Table, error) {
	var urls map[string]string
	if err := yaml.Unmarshal(builtinCountries, &urls); err != nil {
		return nil, fmt.Errorf("failed to parse embedded country table: %w", err)
	}
	return NewTable(urls), nil
}

// Resolve looks up the advisory URL for a place name, normalizing case
// so "japan" and "Japan" both match.
func (t *Table) Resolve(name string) (url string, ok bool) {
	url, ok = t.urls[place.Title(name)]
	return url, ok
}

// Len reports the number of countries in the table.
func (t *Table) Len() int { return len(t.urls) }
