// Package llm provides the chat-completions client used for grounded
// answer generation and for the agent's tool-selection step.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jocelynow/travelpal/internal/config"
)

const defaultChatEndpoint = "https://api.openai.com/v1/chat/completions"

// GenerationError reports a failed or timed-out generation call.
// Callers do not retry silently; recovery happens at the agent boundary.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError checks whether err is a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// Generator produces text from a prompt. Implemented by Client and by
// test fakes.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint
type Client struct {
	cfg      *config.LLMConfig
	client   *http.Client
	apiKey   string
	endpoint string
	model    string
}

// chatRequest is the request body for the chat completions API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the chat completions API
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewClient creates a new chat completions client
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm.api_key is required (or configure embedding.api_key)")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultChatEndpoint
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		model:    model,
	}, nil
}

// Generate sends one system+user exchange and returns the reply text.
// Failures and timeouts come back as *GenerationError.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: c.cfg.Temperature,
	}
	if system != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: system})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: user})

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))}
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if apiResp.Error != nil {
		return "", &GenerationError{Err: fmt.Errorf("API error: %s", apiResp.Error.Message)}
	}
	if len(apiResp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("no choices returned")}
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}
