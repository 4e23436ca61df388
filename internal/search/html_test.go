package search

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newFixtureProvider(t *testing.T, cfg HTMLConfig, srv *httptest.Server) *HTMLProvider {
	t.Helper()
	cfg.URLTemplate = srv.URL + "/search?q=" + QueryPlaceholder
	p, err := NewHTMLProvider(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestHTMLProvider_GoogleFixture(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		_, _ = io.WriteString(w, googleFixture(7))
	}))
	defer srv.Close()

	p := newFixtureProvider(t, GoogleConfig("test-agent/1.0", srv.Client()), srv)
	links, err := p.Search(context.Background(), "test query")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(links) != 5 {
		t.Fatalf("expected 5 links, got %d: %v", len(links), links)
	}
	for i, link := range links {
		if !strings.HasPrefix(link, "http") {
			t.Fatalf("link %d does not start with http: %q", i, link)
		}
	}
	if links[0] != "https://example.com/1" {
		t.Fatalf("expected unwrapped first link, got %q", links[0])
	}
	if gotUA != "test-agent/1.0" {
		t.Fatalf("expected configured user agent, got %q", gotUA)
	}
	if gotQuery != "test query" {
		t.Fatalf("expected decoded query, got %q", gotQuery)
	}
}

func TestHTMLProvider_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><p>nothing here</p></body></html>`)
	}))
	defer srv.Close()

	p := newFixtureProvider(t, GoogleConfig("", srv.Client()), srv)
	links, err := p.Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("expected no error for empty page, got %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected no links, got %v", links)
	}
}

func TestHTMLProvider_StatusErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := newFixtureProvider(t, GoogleConfig("", srv.Client()), srv)
	_, err := p.Search(context.Background(), "go")
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
}

func TestHTMLProvider_NetworkErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	p := newFixtureProvider(t, GoogleConfig("", srv.Client()), srv)
	srv.Close()

	_, err := p.Search(context.Background(), "go")
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
}

func TestHTMLProvider_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := newFixtureProvider(t, GoogleConfig("", srv.Client()), srv)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := p.Search(ctx, "slow")
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable on timeout, got %v", err)
	}
}

func TestHTMLProvider_DuckDuckGoUnwrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body>
<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&amp;rut=abc">Go docs</a>
<a class="result__a" href="https://pkg.go.dev/">pkg</a>
<a class="result__snippet" href="https://ignored.example.com/">snippet</a>
</body></html>`)
	}))
	defer srv.Close()

	p := newFixtureProvider(t, DuckDuckGoConfig("", srv.Client()), srv)
	links, err := p.Search(context.Background(), "go docs")
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 || links[0] != "https://go.dev/doc/" || links[1] != "https://pkg.go.dev/" {
		t.Fatalf("unexpected links: %v", links)
	}
}

func TestNewHTMLProvider_Validates(t *testing.T) {
	if _, err := NewHTMLProvider(HTMLConfig{Name: "x", URLTemplate: "https://x/?q=", Selector: "a"}); err == nil {
		t.Fatal("expected error for template without placeholder")
	}
	if _, err := NewHTMLProvider(HTMLConfig{Name: "x", URLTemplate: "https://x/?q=" + QueryPlaceholder}); err == nil {
		t.Fatal("expected error for empty selector")
	}
}

func TestRequestURL_EscapesQuery(t *testing.T) {
	p, err := NewHTMLProvider(GoogleConfig("", nil))
	if err != nil {
		t.Fatal(err)
	}
	got := p.RequestURL("c++ & go")
	if got != "https://www.google.com/search?q=c%2B%2B+%26+go" {
		t.Fatalf("unexpected url: %s", got)
	}
}
