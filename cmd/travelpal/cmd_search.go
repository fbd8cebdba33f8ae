package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jocelynow/travelpal/internal/app"
	"github.com/jocelynow/travelpal/internal/config"
	"github.com/jocelynow/travelpal/internal/retrieval"
	"github.com/jocelynow/travelpal/internal/textindex"
)

// handleSearch implements the search subcommand
func handleSearch(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	topK := fs.Int("k", 10, "Number of results")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	vectorOnly := fs.Bool("vector-only", false, "Skip the keyword channel")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    travelpal search [options] <query>

DESCRIPTION:
    Diagnostic hybrid search over the indexed corpus, combining vector
    similarity with keyword matching. Useful for inspecting what the
    grounded answerer would retrieve.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    travelpal search "travel insurance"
    travelpal search "prohibited goods" -k 5 -json
    travelpal search "consular help" -vector-only
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fs.Usage()
		os.Exit(1)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	opts := retrieval.SearchOptions{
		TopK:          *topK,
		VectorWeight:  float64(cfg.Search.VectorWeight),
		KeywordWeight: float64(cfg.Search.KeywordWeight),
	}

	var hybrid *retrieval.HybridRetriever
	if *vectorOnly {
		hybrid = retrieval.NewHybridRetriever(a.Index, nil)
	} else {
		idx, err := textindex.Open(cfg.TextIndex.Dir)
		if err != nil {
			log.Printf("Keyword index unavailable, falling back to vector-only: %v", err)
			hybrid = retrieval.NewHybridRetriever(a.Index, nil)
		} else {
			defer idx.Close()
			hybrid = retrieval.NewHybridRetriever(a.Index, idx)
		}
	}

	results, err := hybrid.Search(context.Background(), query, opts)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	if *jsonOutput {
		printSearchJSON(results)
		return
	}
	printSearchResults(query, results)
}

type searchResultJSON struct {
	ChunkID       string   `json:"chunk_id"`
	Source        string   `json:"source"`
	Seq           int      `json:"seq"`
	Text          string   `json:"text"`
	References    []string `json:"references,omitempty"`
	VectorScore   float64  `json:"vector_score"`
	KeywordScore  float64  `json:"keyword_score"`
	CombinedScore float64  `json:"combined_score"`
	Reason        []string `json:"reason"`
}

func printSearchJSON(results []retrieval.SearchResult) {
	out := make([]searchResultJSON, len(results))
	for i, r := range results {
		out[i] = searchResultJSON{
			ChunkID:       r.Chunk.ID,
			Source:        r.Chunk.Source,
			Seq:           r.Chunk.Seq,
			Text:          r.Chunk.Text,
			References:    r.Chunk.References,
			VectorScore:   r.VectorScore,
			KeywordScore:  r.KeywordScore,
			CombinedScore: r.CombinedScore,
			Reason:        r.Reason,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode results: %v", err)
	}
	fmt.Println(string(data))
}

func printSearchResults(query string, results []retrieval.SearchResult) {
	if len(results) == 0 {
		fmt.Printf("No results for %q\n", query)
		return
	}
	fmt.Printf("Results for %q:\n\n", query)
	for i, r := range results {
		fmt.Printf("%d. [%.3f] %s (chunk %d)\n", i+1, r.CombinedScore, r.Chunk.Source, r.Chunk.Seq)
		fmt.Printf("   %s\n", snippet(r.Chunk.Text, 160))
		if len(r.Reason) > 0 {
			fmt.Printf("   reason: %s\n", strings.Join(r.Reason, ", "))
		}
		fmt.Println()
	}
}

// snippet truncates text to at most n runes on a single line.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
