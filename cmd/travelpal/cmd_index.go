package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jocelynow/travelpal/cmd/travelpal/internal"
	"github.com/jocelynow/travelpal/internal/app"
	"github.com/jocelynow/travelpal/internal/config"
	"github.com/jocelynow/travelpal/internal/textindex"
)

// handleIndex implements the index subcommand
func handleIndex(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	clear := fs.Bool("clear", false, "Discard stored chunks and embeddings before indexing")
	progress := fs.Bool("progress", internal.DefaultProgressEnabled(), "Show progress")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    travelpal index [options]

DESCRIPTION:
    Ingest the configured corpus, embed its chunks, and build both the
    vector index and the keyword index. Embeddings for unchanged chunks
    are reused from the database.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Index the configured corpus
    travelpal index

    # Rebuild from scratch
    travelpal index -clear

    # Index a different document set
    travelpal -corpus ~/docs/travel/**/*.md index
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if cfg.Corpus.Path == "" {
		log.Fatalf("No corpus configured: set corpus.path in the config file or use the -corpus flag")
	}

	a, err := app.New(cfg, app.WithIndexProgress(internal.NewIndexProgress(*progress)))
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if *clear {
		if err := a.DB.Clear(); err != nil {
			log.Fatalf("Failed to clear stored chunks: %v", err)
		}
	}

	fmt.Printf("Building index for: %s\n", cfg.Corpus.Path)
	startTime := time.Now()

	snap, err := a.Index.Ensure(context.Background())
	if err != nil {
		log.Fatalf("Indexing failed: %v", err)
	}

	indexer, err := textindex.Create(cfg.TextIndex.Dir)
	if err != nil {
		log.Fatalf("Failed to create text index: %v", err)
	}
	for _, chunk := range snap.Chunks() {
		if err := indexer.IndexChunk(chunk); err != nil {
			indexer.Close()
			log.Fatalf("Failed to index chunk %s: %v", chunk.ID, err)
		}
	}
	if err := indexer.Close(); err != nil {
		log.Fatalf("Failed to close text index: %v", err)
	}

	chunkCount, embeddingCount, err := a.Chunks.Count()
	if err != nil {
		log.Fatalf("Failed to read statistics: %v", err)
	}

	fmt.Println()
	fmt.Println("Indexing completed.")
	fmt.Printf("Duration:   %v\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Chunks:     %6d\n", chunkCount)
	fmt.Printf("Embeddings: %6d\n", embeddingCount)
}
