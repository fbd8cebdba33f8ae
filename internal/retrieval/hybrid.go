// Package retrieval combines vector and keyword search over the
// corpus for diagnostic queries. The grounded answer path uses pure
// vector retrieval; hybrid search exists for inspecting what the
// corpus actually contains.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/blevesearch/bleve/v2"

	"github.com/jocelynow/travelpal/internal/corpus"
	"github.com/jocelynow/travelpal/internal/index"
	"github.com/jocelynow/travelpal/internal/textindex"
)

// SearchOptions configures hybrid search behavior.
type SearchOptions struct {
	TopK          int
	VectorWeight  float64
	KeywordWeight float64
}

// DefaultSearchOptions returns the default weighting.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TopK:          10,
		VectorWeight:  0.7,
		KeywordWeight: 0.3,
	}
}

// SearchResult is one merged hit with its per-channel scores.
type SearchResult struct {
	Chunk         corpus.Chunk
	VectorScore   float64
	KeywordScore  float64
	CombinedScore float64
	Reason        []string
}

// HybridRetriever merges vector similarity with bleve keyword hits.
// textIndex may be nil, in which case search is vector-only.
type HybridRetriever struct {
	vector    *index.Service
	textIndex bleve.Index
}

func NewHybridRetriever(vector *index.Service, textIndex bleve.Index) *HybridRetriever {
	return &HybridRetriever{vector: vector, textIndex: textIndex}
}

type combinedResult struct {
	chunk        corpus.Chunk
	vectorScore  float64
	keywordScore float64
}

// Search runs both channels, normalizes the weights, and returns the
// top K merged results by combined score.
func (h *HybridRetriever) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if h.textIndex == nil {
		opts.KeywordWeight = 0
	}
	totalWeight := opts.VectorWeight + opts.KeywordWeight
	if totalWeight == 0 {
		opts.VectorWeight = 1.0
		totalWeight = 1.0
	}
	opts.VectorWeight /= totalWeight
	opts.KeywordWeight /= totalWeight

	combined := make(map[string]*combinedResult)

	if opts.VectorWeight > 0 {
		vResults, err := h.vector.Query(ctx, query, opts.TopK*2)
		if err != nil {
			return nil, fmt.Errorf("vector search failed: %w", err)
		}
		for _, r := range vResults {
			combined[r.Chunk.ID] = &combinedResult{
				chunk:       r.Chunk,
				vectorScore: float64(r.Score),
			}
		}
	}

	if opts.KeywordWeight > 0 {
		hits, err := textindex.Search(h.textIndex, query, opts.TopK*2)
		if err != nil {
			return nil, fmt.Errorf("keyword search failed: %w", err)
		}
		byID, err := h.chunksByID(ctx)
		if err != nil {
			return nil, err
		}
		for i, hit := range hits {
			// Rank-based scoring: bleve scores are unbounded, the
			// rank position is what carries over into the merge.
			score := 1.0 - float64(i)/float64(len(hits))
			if existing, ok := combined[hit.ChunkID]; ok {
				existing.keywordScore = score
				continue
			}
			chunk, ok := byID[hit.ChunkID]
			if !ok {
				continue
			}
			combined[hit.ChunkID] = &combinedResult{chunk: chunk, keywordScore: score}
		}
	}

	results := make([]SearchResult, 0, len(combined))
	for _, c := range combined {
		results = append(results, SearchResult{
			Chunk:         c.chunk,
			VectorScore:   c.vectorScore,
			KeywordScore:  c.keywordScore,
			CombinedScore: opts.VectorWeight*c.vectorScore + opts.KeywordWeight*c.keywordScore,
			Reason:        reasons(c),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].Chunk.Seq < results[j].Chunk.Seq
	})
	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}

func (h *HybridRetriever) chunksByID(ctx context.Context) (map[string]corpus.Chunk, error) {
	snap, err := h.vector.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]corpus.Chunk, snap.Len())
	for _, chunk := range snap.Chunks() {
		byID[chunk.ID] = chunk
	}
	return byID, nil
}

func reasons(c *combinedResult) []string {
	var out []string
	switch {
	case c.vectorScore > 0.7:
		out = append(out, "strong semantic similarity")
	case c.vectorScore > 0.5:
		out = append(out, "moderate semantic similarity")
	}
	switch {
	case c.keywordScore > 0.7:
		out = append(out, "top keyword match")
	case c.keywordScore > 0:
		out = append(out, "keyword match")
	}
	if len(out) == 0 {
		out = append(out, "weak match")
	}
	return out
}
