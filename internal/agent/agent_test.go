package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jocelynow/travelpal/internal/answer"
)

func staticTool(name ToolName, body string) Tool {
	return NewTool(name, "test tool", func(context.Context, string) (answer.Envelope, error) {
		return answer.NewEnvelope(body), nil
	})
}

func failingTool(name ToolName) Tool {
	return NewTool(name, "test tool", func(context.Context, string) (answer.Envelope, error) {
		return answer.Envelope{}, errors.New("upstream exploded")
	})
}

func TestRouterDispatches(t *testing.T) {
	router := NewRouter(
		SelectorFunc(func(context.Context, string) (ToolName, error) {
			return ToolWeather, nil
		}),
		staticTool(ToolTravelGuide, "guide"),
		staticTool(ToolWeather, "sunny"),
	)

	if got := router.Respond(context.Background(), "weather in Tokyo"); got != "sunny" {
		t.Errorf("Respond = %q, want %q", got, "sunny")
	}
}

func TestRouterFallbackAfterTwoAttempts(t *testing.T) {
	attempts := 0
	router := NewRouter(
		SelectorFunc(func(context.Context, string) (ToolName, error) {
			attempts++
			return "", ErrUnparsable
		}),
		staticTool(ToolTravelGuide, "guide"),
	)

	got := router.Respond(context.Background(), "gibberish")
	if got != fallbackMessage {
		t.Errorf("Respond = %q, want fallback", got)
	}
	if attempts != 2 {
		t.Errorf("selector called %d times, want exactly 2", attempts)
	}
}

func TestRouterRetriesOnceThenSucceeds(t *testing.T) {
	attempts := 0
	router := NewRouter(
		SelectorFunc(func(context.Context, string) (ToolName, error) {
			attempts++
			if attempts == 1 {
				return "", ErrUnparsable
			}
			return ToolTravelGuide, nil
		}),
		staticTool(ToolTravelGuide, "guide"),
	)

	if got := router.Respond(context.Background(), "q"); got != "guide" {
		t.Errorf("Respond = %q, want %q", got, "guide")
	}
	if attempts != 2 {
		t.Errorf("selector called %d times, want 2", attempts)
	}
}

func TestRouterConvertsToolErrorToText(t *testing.T) {
	router := NewRouter(
		SelectorFunc(func(context.Context, string) (ToolName, error) {
			return ToolCountryAdvisory, nil
		}),
		failingTool(ToolCountryAdvisory),
	)

	got := router.Respond(context.Background(), "what about Japan")
	if got != toolFailureMessage {
		t.Errorf("Respond = %q, want tool failure message", got)
	}
	if strings.Contains(got, "upstream exploded") {
		t.Errorf("raw error leaked to user: %q", got)
	}
}

func TestRouterUnregisteredSelection(t *testing.T) {
	router := NewRouter(
		SelectorFunc(func(context.Context, string) (ToolName, error) {
			return "time_machine", nil
		}),
		staticTool(ToolTravelGuide, "guide"),
	)

	if got := router.Respond(context.Background(), "q"); got != fallbackMessage {
		t.Errorf("Respond = %q, want fallback", got)
	}
}

type scriptedGenerator struct {
	replies []string
	err     error
	calls   int
}

func (g *scriptedGenerator) Generate(context.Context, string, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	reply := g.replies[g.calls%len(g.replies)]
	g.calls++
	return reply, nil
}

func selectorTools() []Tool {
	return []Tool{
		staticTool(ToolTravelGuide, "a"),
		staticTool(ToolCountryAdvisory, "b"),
		staticTool(ToolWeather, "c"),
	}
}

func TestLLMSelectorParse(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    ToolName
		wantErr bool
	}{
		{"exact", "weather", ToolWeather, false},
		{"trailing period", "country_advisory.", ToolCountryAdvisory, false},
		{"mixed case", "Travel_Guide", ToolTravelGuide, false},
		{"chatty containment", "I would use the travel_guide tool for this.", ToolTravelGuide, false},
		{"no tool named", "I cannot decide.", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLLMSelector(&scriptedGenerator{replies: []string{tt.reply}}, selectorTools())
			got, err := s.Select(context.Background(), "q")
			if tt.wantErr {
				if !errors.Is(err, ErrUnparsable) {
					t.Fatalf("err = %v, want ErrUnparsable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if got != tt.want {
				t.Errorf("Select = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLLMSelectorPromptListsTools(t *testing.T) {
	s := NewLLMSelector(&scriptedGenerator{replies: []string{"weather"}}, selectorTools())
	for _, name := range []string{"travel_guide", "country_advisory", "weather"} {
		if !strings.Contains(s.prompt, name) {
			t.Errorf("prompt missing tool %q", name)
		}
	}
}

func TestLLMSelectorGenerationError(t *testing.T) {
	s := NewLLMSelector(&scriptedGenerator{err: errors.New("rate limited")}, selectorTools())
	if _, err := s.Select(context.Background(), "q"); err == nil {
		t.Fatal("expected error")
	}
}
