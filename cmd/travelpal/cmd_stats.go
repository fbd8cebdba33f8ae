package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jocelynow/travelpal/internal/config"
	"github.com/jocelynow/travelpal/internal/store"
)

// handleStats implements the stats subcommand
func handleStats(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    travelpal stats [options]

DESCRIPTION:
    Show statistics about the stored index.

OPTIONS:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	chunks := store.NewChunkStore(db)
	chunkCount, embeddingCount, err := chunks.Count()
	if err != nil {
		log.Fatalf("Failed to read statistics: %v", err)
	}

	if jsonOutput {
		stats := map[string]interface{}{
			"chunks":     chunkCount,
			"embeddings": embeddingCount,
			"database":   cfg.Database.Path,
		}
		jsonData, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("Index statistics")
	fmt.Println()
	fmt.Printf("Database:   %s\n", cfg.Database.Path)
	fmt.Printf("Chunks:     %6d\n", chunkCount)
	fmt.Printf("Embeddings: %6d\n", embeddingCount)
}
