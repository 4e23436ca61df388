package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type mockProvider struct {
	name string

	mu      sync.Mutex
	calls   int
	links   []string
	err     error
	queries []string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Search(ctx context.Context, query string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.links, nil
}

func (m *mockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// googleFixture renders a result page with n qualifying anchors plus noise
// that must be filtered out.
func googleFixture(n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="search">`)
	b.WriteString(`<h3><a href="/search?q=related+searches">Related</a></h3>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<div class="g"><h3><a href="/url?q=https://example.com/%d&amp;sa=U&amp;ved=x">Result %d</a></h3></div>`, i, i)
	}
	b.WriteString(`<a href="https://not-a-result.example.com/">footer</a>`)
	b.WriteString(`</div></body></html>`)
	return b.String()
}
