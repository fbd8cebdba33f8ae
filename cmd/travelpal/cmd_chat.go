package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jocelynow/travelpal/cmd/travelpal/internal"
	"github.com/jocelynow/travelpal/internal/app"
	"github.com/jocelynow/travelpal/internal/config"
)

// handleChat implements the chat subcommand
func handleChat(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    travelpal chat

DESCRIPTION:
    Interactive question-and-answer session. Each line is routed like
    a single ask. Exit with "exit", "quit", or Ctrl-D.
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("TravelPal - ask about travel tips, advisories, or the weather. Type \"exit\" to quit.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		stop := internal.StartSpinner(interactive, "thinking")
		reply := a.Router.Respond(context.Background(), query)
		stop()

		fmt.Println(reply)
		fmt.Println()
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
}
