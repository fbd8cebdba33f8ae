package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jocelynow/travelpal/cmd/travelpal/internal"
	"github.com/jocelynow/travelpal/internal/app"
	"github.com/jocelynow/travelpal/internal/config"
)

// handleAsk implements the ask subcommand
func handleAsk(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	spinner := fs.Bool("spinner", internal.DefaultProgressEnabled(), "Show spinner while answering")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    travelpal ask [options] <question>

DESCRIPTION:
    Answer a single question. The router picks the right tool: the
    grounded corpus answerer, the country advisory lookup, or the
    weather helper.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    travelpal ask "What goods are prohibited when entering Singapore?"
    travelpal ask "Is it safe to visit Japan?"
    travelpal ask "What is the weather in Kuala Lumpur?"
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

	stop := internal.StartSpinner(*spinner, "thinking")
	reply := a.Router.Respond(context.Background(), query)
	stop()

	fmt.Println(reply)
}
