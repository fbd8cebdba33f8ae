package internal

import (
	"fmt"
	"os"
)

const Version = "1.0.0"

// PrintUsage writes the top-level help text to stderr.
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `travelpal - Document-grounded travel assistant

Version: %s

USAGE:
    travelpal [global options] <command> [command options]

GLOBAL OPTIONS:
    -config <path>
        Path to config file (default: ~/.travelpal/config/travelpal.yaml)

    -v, -version
        Show version information

    -h, -help
        Show this help message

COMMANDS:
    index
        Ingest the corpus, embed chunks, and build the indexes

    ask
        Answer a single question

    chat
        Interactive question-and-answer session

    search
        Diagnostic hybrid search over the corpus

    stats
        Show index statistics

EXAMPLES:
    # Build the index from the configured corpus
    travelpal index

    # Ask one question
    travelpal ask "What goods are prohibited when entering Singapore?"

    # Inspect what the corpus returns for a query
    travelpal search "travel insurance" -k 5

    # Interactive session
    travelpal chat

For detailed help on each command, use:
    travelpal <command> -help
`, Version)
}

// PrintConfigExample writes a starter configuration to stderr.
func PrintConfigExample() {
	homeDir, _ := os.UserHomeDir()
	fmt.Fprintf(os.Stderr, `Create a configuration file at %s/.travelpal/config/travelpal.yaml:

corpus:
  # Path or glob selecting the knowledge documents
  path: ~/travelpal/docs/**/*.md
  chunk_size: 1000
  chunk_overlap: 100

embedding:
  provider: openai
  api_key: your-openai-api-key
  model: text-embedding-3-small
  dimensions: 1536

llm:
  # api_key defaults to embedding.api_key
  model: gpt-4o-mini

search:
  top_k: 3

Usage:
  1. Create the config file
  2. Run: travelpal index
  3. Ask: travelpal ask "your question"
`, homeDir)
}
