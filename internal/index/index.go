// Package index holds the in-memory vector index over corpus chunks.
// The index is an immutable snapshot built lazily on first use and
// memoized for the process lifetime; concurrent first callers share a
// single in-flight build.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jocelynow/travelpal/internal/corpus"
	"github.com/jocelynow/travelpal/internal/embedding"
	"github.com/jocelynow/travelpal/internal/store"
)

// ErrUnavailable is returned when the index build has not completed or
// has failed. Callers must not answer from an empty index.
var ErrUnavailable = errors.New("vector index unavailable")

// Embedder is the embedding provider used for chunks and queries.
// Satisfied by *embedding.Service.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Source supplies the chunks to index, typically corpus ingestion or a
// load from the chunk store.
type Source func(ctx context.Context) ([]corpus.Chunk, error)

// Entry is one indexed chunk with its embedding
type Entry struct {
	Chunk  corpus.Chunk
	Vector []float32
}

// Result is one retrieved chunk with its similarity score
type Result struct {
	Chunk corpus.Chunk
	Score float32
}

// Snapshot is an immutable built index, safe for unlimited concurrent
// readers.
type Snapshot struct {
	entries []Entry
}

// Len returns the number of indexed chunks
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Chunks returns the indexed chunks in insertion order.
func (s *Snapshot) Chunks() []corpus.Chunk {
	chunks := make([]corpus.Chunk, len(s.entries))
	for i, e := range s.entries {
		chunks[i] = e.Chunk
	}
	return chunks
}

// Search scores every entry against the query vector and returns the
// top k by cosine similarity, stable-sorted descending; ties keep
// insertion order. k caps the result length, it is not a threshold.
func (s *Snapshot) Search(queryVector []float32, k int) []Result {
	if k <= 0 || len(s.entries) == 0 {
		return nil
	}

	results := make([]Result, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, Result{
			Chunk: e.Chunk,
			Score: embedding.Similarity(queryVector, e.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Option configures a Service
type Option func(*Service)

// WithStore persists chunks and vectors to cs at build time and reuses
// vectors cached under the same embedding model.
func WithStore(cs *store.ChunkStore, model string) Option {
	return func(s *Service) {
		s.chunkStore = cs
		s.model = model
	}
}

// WithProgress reports embedding progress during a build.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Service) {
		s.onProgress = fn
	}
}

// Service owns the lazily built index snapshot
type Service struct {
	source     Source
	embedder   Embedder
	chunkStore *store.ChunkStore
	model      string
	onProgress func(done, total int)

	group singleflight.Group

	mu       sync.RWMutex
	snap     *Snapshot
	buildErr error
}

// NewService creates an index service. The build runs on first use.
func NewService(source Source, embedder Embedder, opts ...Option) *Service {
	s := &Service{source: source, embedder: embedder}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure returns the built snapshot, building it if needed. Concurrent
// callers before the first build completes share one in-flight build.
// A failed build is memoized: the index stays unavailable for the
// process lifetime (explicit reload is out of scope).
func (s *Service) Ensure(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap, buildErr := s.snap, s.buildErr
	s.mu.RUnlock()

	if snap != nil {
		return snap, nil
	}
	if buildErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, buildErr)
	}

	v, err, _ := s.group.Do("build", func() (interface{}, error) {
		built, err := s.build(ctx)

		s.mu.Lock()
		if err != nil {
			s.buildErr = err
		} else {
			s.snap = built
		}
		s.mu.Unlock()

		return built, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v.(*Snapshot), nil
}

// Query embeds text and returns the top k chunks by similarity.
// Deterministic for a fixed snapshot and query.
func (s *Service) Query(ctx context.Context, text string, k int) ([]Result, error) {
	snap, err := s.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	queryVector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return snap.Search(queryVector, k), nil
}

// build ingests chunks, embeds those without a cached vector, persists
// the result when a store is configured, and assembles the snapshot.
func (s *Service) build(ctx context.Context) (*Snapshot, error) {
	chunks, err := s.source(ctx)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("corpus produced no chunks")
	}

	var cached map[string][]float32
	if s.chunkStore != nil {
		cached, err = s.chunkStore.VectorsByHash(s.model)
		if err != nil {
			return nil, fmt.Errorf("failed to load cached vectors: %w", err)
		}
	}

	vectors := make([][]float32, len(chunks))
	var missing []int
	for i, c := range chunks {
		if v, ok := cached[store.ContentHash(c.Text)]; ok {
			vectors[i] = v
			continue
		}
		missing = append(missing, i)
	}

	total := len(chunks)
	done := total - len(missing)
	if s.onProgress != nil {
		s.onProgress(done, total)
	}

	// Embed missing chunks in store-friendly batches
	const embedBatch = 32
	for start := 0; start < len(missing); start += embedBatch {
		end := start + embedBatch
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		texts := make([]string, len(batch))
		for j, idx := range batch {
			texts[j] = chunks[idx].Text
		}

		embedded, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks: %w", err)
		}
		for j, idx := range batch {
			vectors[idx] = embedded[j]
		}

		done += len(batch)
		if s.onProgress != nil {
			s.onProgress(done, total)
		}
	}

	if s.chunkStore != nil {
		if err := s.chunkStore.SaveBatch(chunks, vectors, s.model); err != nil {
			return nil, fmt.Errorf("failed to persist index: %w", err)
		}
	}

	entries := make([]Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = Entry{Chunk: c, Vector: vectors[i]}
	}
	return &Snapshot{entries: entries}, nil
}
