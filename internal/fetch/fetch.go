// Package fetch retrieves remote documents with a bounded timeout and
// an optional per-URL cache. Responses are a pure function of the URL
// for the lifetime of the process, so the cache is safe to share.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// maxBodyBytes caps how much of a fetched page is read.
const maxBodyBytes = 1 << 20

// Fetcher downloads pages over HTTP
type Fetcher struct {
	client  *http.Client
	timeout time.Duration

	mu    sync.Mutex
	cache map[string]string // nil when caching is disabled
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithCache memoizes successful fetches per URL.
func WithCache() Option {
	return func(f *Fetcher) {
		f.cache = make(map[string]string)
	}
}

// New creates a fetcher whose requests fail after timeout rather than
// hanging.
func New(timeout time.Duration, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	f := &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get fetches the URL and returns the response body as text.
func (f *Fetcher) Get(ctx context.Context, url string) (string, error) {
	if f.cache != nil {
		f.mu.Lock()
		body, ok := f.cache[url]
		f.mu.Unlock()
		if ok {
			return body, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	body := string(data)
	if f.cache != nil {
		f.mu.Lock()
		f.cache[url] = body
		f.mu.Unlock()
	}
	return body, nil
}

// Title extracts the trimmed content of the first <title> element, or
// "" when the document has none.
func Title(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			title = strings.TrimSpace(sb.String())
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}
