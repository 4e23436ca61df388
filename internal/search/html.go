package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// QueryPlaceholder marks where the escaped query goes in a URL template.
const QueryPlaceholder = "{query}"

// DefaultUserAgent is sent when no USER_AGENT is configured.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// HTMLConfig describes an engine whose result page lists links under a CSS selector.
type HTMLConfig struct {
	Name        string
	URLTemplate string
	Selector    string
	// Unwrap turns a raw href into the target URL, e.g. by decoding a redirect.
	Unwrap    func(href string) string
	UserAgent string
	Client    *http.Client
}

// HTMLProvider scrapes result links out of an engine's HTML result page.
type HTMLProvider struct {
	cfg HTMLConfig
}

func NewHTMLProvider(cfg HTMLConfig) (*HTMLProvider, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("html provider name is empty")
	}
	if !strings.Contains(cfg.URLTemplate, QueryPlaceholder) {
		return nil, fmt.Errorf("html provider %s: url template must contain %s", cfg.Name, QueryPlaceholder)
	}
	if strings.TrimSpace(cfg.Selector) == "" {
		return nil, fmt.Errorf("html provider %s: selector is empty", cfg.Name)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTMLProvider{cfg: cfg}, nil
}

func (p *HTMLProvider) Name() string { return p.cfg.Name }

// RequestURL builds the result page URL for query.
func (p *HTMLProvider) RequestURL(query string) string {
	return strings.Replace(p.cfg.URLTemplate, QueryPlaceholder, url.QueryEscape(query), 1)
}

func (p *HTMLProvider) Search(ctx context.Context, query string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.RequestURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", p.cfg.Name, err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.cfg.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request failed: %v", ErrSearchUnavailable, p.cfg.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s returned status %d", ErrSearchUnavailable, p.cfg.Name, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s parse failed: %v", ErrSearchUnavailable, p.cfg.Name, err)
	}
	return p.extract(doc), nil
}

func (p *HTMLProvider) extract(doc *goquery.Document) []string {
	links := make([]string, 0, MaxResults)
	doc.Find(p.cfg.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		if p.cfg.Unwrap != nil {
			href = p.cfg.Unwrap(href)
		}
		href = strings.TrimSpace(href)
		if !strings.HasPrefix(href, "http") {
			return true
		}
		links = append(links, href)
		return len(links) < MaxResults
	})
	return links
}

// UnwrapQueryParam returns an Unwrap func that reads the target from the named
// query parameter of a redirect link, falling back to the href itself.
func UnwrapQueryParam(params ...string) func(string) string {
	return func(href string) string {
		u, err := url.Parse(href)
		if err != nil {
			return href
		}
		q := u.Query()
		for _, name := range params {
			if v := q.Get(name); v != "" {
				return v
			}
		}
		return href
	}
}
