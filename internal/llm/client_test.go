package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jocelynow/travelpal/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client, err := NewClient(&config.LLMConfig{
		APIKey:      "test-key",
		Endpoint:    srv.URL,
		Model:       "test-model",
		Temperature: 0.4,
	})
	if err != nil {
		srv.Close()
		t.Fatalf("NewClient() error: %v", err)
	}
	return client, srv.Close
}

func TestClient_Generate(t *testing.T) {
	client, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  hello  "}},
			},
		})
	})
	defer closeSrv()

	got, err := client.Generate(context.Background(), "be brief", "say hello")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != "hello" {
		t.Errorf("Generate() = %q, want trimmed %q", got, "hello")
	}
}

func TestClient_Generate_ErrorStatus(t *testing.T) {
	client, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	})
	defer closeSrv()

	_, err := client.Generate(context.Background(), "", "q")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !IsGenerationError(err) {
		t.Errorf("expected *GenerationError, got %T", err)
	}
}

func TestClient_Generate_NoChoices(t *testing.T) {
	client, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	defer closeSrv()

	if _, err := client.Generate(context.Background(), "", "q"); !IsGenerationError(err) {
		t.Errorf("expected *GenerationError, got %v", err)
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(&config.LLMConfig{}); err == nil {
		t.Error("expected error without api key")
	}
}
