package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// urlPattern matches scheme://... with no embedded whitespace.
var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// IngestError reports a source document that could not be opened or
// parsed. It is fatal for an index build: no partial index is produced.
type IngestError struct {
	Path string
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// Options controls chunking.
type Options struct {
	ChunkSize    int // Target chunk length in runes
	ChunkOverlap int // Runes shared between consecutive chunks
}

// DefaultOptions returns the standard chunking parameters.
func DefaultOptions() Options {
	return Options{ChunkSize: 1000, ChunkOverlap: 100}
}

// Ingest reads the document at path and returns its chunks in source
// order. Paragraphs are blocks separated by blank lines; a paragraph
// whose trimmed text is empty is dropped. URLs found in a paragraph
// become the passage's references and stay in the text verbatim.
func Ingest(path string, opts Options) ([]Chunk, error) {
	passages, err := ReadPassages(path)
	if err != nil {
		return nil, err
	}
	return Split(passages, opts), nil
}

// IngestAll ingests every document matched by the path or doublestar
// glob pattern, concatenating chunks in file order.
func IngestAll(pattern string, opts Options) ([]Chunk, error) {
	paths, err := ExpandGlob(pattern)
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	for _, p := range paths {
		passages, err := ReadPassages(p)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, Split(passages, opts)...)
	}
	// Re-number across documents
	for i := range chunks {
		chunks[i].Seq = i
	}
	return chunks, nil
}

// ExpandGlob resolves a path or doublestar pattern to matching files.
func ExpandGlob(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		if _, err := os.Stat(pattern); err != nil {
			return nil, &IngestError{Path: pattern, Err: err}
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, &IngestError{Path: pattern, Err: err}
	}
	if len(matches) == 0 {
		return nil, &IngestError{Path: pattern, Err: fmt.Errorf("no documents matched")}
	}
	sort.Strings(matches)
	return matches, nil
}

// ReadPassages parses a document into passages in source order.
func ReadPassages(path string) ([]Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IngestError{Path: path, Err: err}
	}

	source := filepath.Base(path)
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var passages []Passage
	for _, block := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}
		passages = append(passages, Passage{
			Text:       trimmed,
			References: urlPattern.FindAllString(trimmed, -1),
			Source:     source,
		})
	}
	return passages, nil
}

// Split turns passages into chunks. Each chunk inherits its passage's
// references; a passage shorter than the chunk size yields exactly one
// chunk.
func Split(passages []Passage, opts Options) []Chunk {
	if opts.ChunkSize <= 0 {
		opts = DefaultOptions()
	}

	var chunks []Chunk
	for _, p := range passages {
		for _, window := range splitText(p.Text, opts.ChunkSize, opts.ChunkOverlap) {
			chunks = append(chunks, Chunk{
				ID:         uuid.NewString(),
				Text:       window,
				References: p.References,
				Source:     p.Source,
				Seq:        len(chunks),
			})
		}
	}
	return chunks
}
