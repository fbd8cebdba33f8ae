// Package textindex maintains a keyword index over corpus chunks for
// diagnostic search alongside the vector index.
package textindex

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/jocelynow/travelpal/internal/corpus"
)

// ChunkDoc is the indexed representation of a corpus chunk.
type ChunkDoc struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Seq     int    `json:"seq"`
}

type Indexer interface {
	IndexChunk(chunk corpus.Chunk) error
	Close() error
}

type BleveIndexer struct {
	index bleve.Index
}

// Create resets dir and builds a fresh keyword index there.
func Create(dir string) (Indexer, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to reset text index dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create text index dir: %w", err)
	}
	index, err := bleve.New(dir, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}
	return &BleveIndexer{index: index}, nil
}

// Open opens an existing keyword index for querying.
func Open(dir string) (bleve.Index, error) {
	index, err := bleve.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open bleve index: %w", err)
	}
	return index, nil
}

func (b *BleveIndexer) IndexChunk(chunk corpus.Chunk) error {
	return b.index.Index(chunk.ID, ChunkDoc{
		Content: chunk.Text,
		Source:  chunk.Source,
		Seq:     chunk.Seq,
	})
}

func (b *BleveIndexer) Close() error {
	return b.index.Close()
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "content"

	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.Index = true
	docMapping.AddFieldMappingsAt("content", contentField)

	sourceField := bleve.NewTextFieldMapping()
	sourceField.Store = true
	sourceField.Index = true
	sourceField.Analyzer = "keyword"
	docMapping.AddFieldMappingsAt("source", sourceField)

	seqField := bleve.NewNumericFieldMapping()
	seqField.Store = true
	seqField.Index = false
	docMapping.AddFieldMappingsAt("seq", seqField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Hit is a keyword search result referencing a chunk by ID.
type Hit struct {
	ChunkID string
	Source  string
	Score   float64
}

// Search runs a match query over chunk content and returns up to topK
// hits ordered by bleve score.
func Search(index bleve.Index, query string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = 10
	}
	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("content")

	req := bleve.NewSearchRequestOptions(matchQuery, topK, 0, false)
	req.Fields = []string{"source"}

	res, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("text search failed: %w", err)
	}

	var hits []Hit
	for _, hit := range res.Hits {
		source, _ := hit.Fields["source"].(string)
		hits = append(hits, Hit{ChunkID: hit.ID, Source: source, Score: hit.Score})
	}
	return hits, nil
}
