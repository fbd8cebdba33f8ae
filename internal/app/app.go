// Package app wires the configured services into a ready-to-query
// assistant: corpus ingestion, vector index, grounded answerer, the
// lookup tools, and the router in front of them.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jocelynow/travelpal/internal/advisory"
	"github.com/jocelynow/travelpal/internal/agent"
	"github.com/jocelynow/travelpal/internal/answer"
	"github.com/jocelynow/travelpal/internal/config"
	"github.com/jocelynow/travelpal/internal/corpus"
	"github.com/jocelynow/travelpal/internal/embedding"
	"github.com/jocelynow/travelpal/internal/fetch"
	"github.com/jocelynow/travelpal/internal/index"
	"github.com/jocelynow/travelpal/internal/llm"
	"github.com/jocelynow/travelpal/internal/place"
	"github.com/jocelynow/travelpal/internal/store"
	"github.com/jocelynow/travelpal/internal/weather"
)

// App holds the assembled services. Construct with New, release with
// Close.
type App struct {
	Config    *config.Config
	DB        *store.DB
	Chunks    *store.ChunkStore
	Embedder  *embedding.Service
	Generator *llm.Client
	Index     *index.Service
	Answerer  *answer.Answerer
	Router    *agent.Router
}

// Option customizes app construction.
type Option func(*options)

type options struct {
	indexProgress func(done, total int)
}

// WithIndexProgress installs a progress callback for index builds.
func WithIndexProgress(fn func(done, total int)) Option {
	return func(o *options) { o.indexProgress = fn }
}

// New assembles an App from validated configuration.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	chunks := store.NewChunkStore(db)

	embedder, err := embedding.NewService(&cfg.Embedding)
	if err != nil {
		db.Close()
		return nil, err
	}
	generator, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		db.Close()
		return nil, err
	}

	indexOpts := []index.Option{index.WithStore(chunks, cfg.Embedding.Model)}
	if o.indexProgress != nil {
		indexOpts = append(indexOpts, index.WithProgress(o.indexProgress))
	}
	vector := index.NewService(chunkSource(cfg, chunks), embedder, indexOpts...)

	answerer := answer.NewAnswerer(vector, generator, cfg.Search.TopK)

	table, err := advisory.BuiltinTable()
	if err != nil {
		db.Close()
		return nil, err
	}
	timeout := time.Duration(cfg.Tools.FetchTimeoutSeconds) * time.Second
	fetcher := fetch.New(timeout, fetch.WithCache())
	extractor := place.Chain(place.LLM(generator), place.LastToken())
	lookup := advisory.NewLookup(table, extractor, fetcher)

	weatherTool := weather.NewTool(
		weather.NewOpenMeteoGeocoder(cfg.Tools.GeocodeEndpoint, timeout),
		weather.NewOpenMeteoClimate(cfg.Tools.ClimateEndpoint, timeout),
	)

	tools := []agent.Tool{
		agent.NewTool(agent.ToolTravelGuide, agent.TravelGuideDescription, answerer.Answer),
		agent.NewTool(agent.ToolCountryAdvisory, agent.CountryAdvisoryDescription, lookup.Answer),
		agent.NewTool(agent.ToolWeather, agent.WeatherDescription, weatherTool.Answer),
	}
	selector := agent.NewLLMSelector(generator, tools)
	router := agent.NewRouter(selector, tools...)

	return &App{
		Config:    cfg,
		DB:        db,
		Chunks:    chunks,
		Embedder:  embedder,
		Generator: generator,
		Index:     vector,
		Answerer:  answerer,
		Router:    router,
	}, nil
}

// chunkSource ingests the configured corpus when a path is set, and
// falls back to previously stored chunks otherwise. Ingesting again is
// cheap: stored embeddings are reused by content hash.
func chunkSource(cfg *config.Config, chunks *store.ChunkStore) index.Source {
	return func(ctx context.Context) ([]corpus.Chunk, error) {
		if cfg.Corpus.Path != "" {
			return corpus.IngestAll(cfg.Corpus.Path, corpus.Options{
				ChunkSize:    cfg.Corpus.ChunkSize,
				ChunkOverlap: cfg.Corpus.ChunkOverlap,
			})
		}
		stored, err := chunks.LoadAll()
		if err != nil {
			return nil, err
		}
		if len(stored) == 0 {
			return nil, fmt.Errorf("no corpus configured and no stored chunks; run the index command first")
		}
		out := make([]corpus.Chunk, len(stored))
		for i, s := range stored {
			out[i] = s.Chunk
		}
		return out, nil
	}
}

func (a *App) Close() error {
	return a.DB.Close()
}
