package answer

import (
	"fmt"
	"strings"
)

// Envelope is the unit returned to the caller: a response body plus the
// reference URLs backing it, deduplicated in first-seen order.
type Envelope struct {
	Body          string
	ReferenceURLs []string
}

// NewEnvelope creates an envelope with just a body.
func NewEnvelope(body string) Envelope {
	return Envelope{Body: body}
}

// AddReferences appends URLs, skipping any already present. First-seen
// order is preserved so rendering stays deterministic.
func (e *Envelope) AddReferences(urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		seen := false
		for _, existing := range e.ReferenceURLs {
			if existing == u {
				seen = true
				break
			}
		}
		if !seen {
			e.ReferenceURLs = append(e.ReferenceURLs, u)
		}
	}
}

// Render returns the body with a labeled reference block of clickable
// markdown links appended. With no references the body is returned
// unmodified.
func (e Envelope) Render() string {
	if len(e.ReferenceURLs) == 0 {
		return e.Body
	}

	var sb strings.Builder
	sb.WriteString(e.Body)
	sb.WriteString("\n\n**Reference URLs:**\n")
	for i, u := range e.ReferenceURLs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("[%s](%s)", u, u))
	}
	return sb.String()
}
