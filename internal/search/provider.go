package search

import (
	"context"
	"errors"
)

// MaxResults caps the number of links a provider returns.
const MaxResults = 5

var (
	// ErrUnknownProvider is returned when no provider is registered under a name.
	ErrUnknownProvider = errors.New("unknown search provider")
	// ErrSearchUnavailable wraps network, status and parse failures of a provider.
	ErrSearchUnavailable = errors.New("search unavailable")
)

// Provider executes a query against one search engine.
type Provider interface {
	Name() string
	// Search returns at most MaxResults result URLs in rank order. Zero results
	// is an empty slice and a nil error.
	Search(ctx context.Context, query string) ([]string, error)
}
