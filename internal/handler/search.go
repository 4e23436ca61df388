package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stupiduntilnot/searchbot/internal/message"
	"github.com/stupiduntilnot/searchbot/internal/search"
)

// CommandPrefix starts every bot command token.
const CommandPrefix = "!"

// Searcher runs a query against a named provider.
type Searcher interface {
	Has(name string) bool
	Execute(ctx context.Context, name, query string) ([]string, error)
}

// HistoryAppender records issued queries.
type HistoryAppender interface {
	Append(ctx context.Context, query string) error
}

// Search handles "!<provider> <query...>".
type Search struct {
	searcher Searcher
	history  HistoryAppender
	timeout  time.Duration
	onEvent  EventFunc
}

// NewSearch builds the search handler. timeout bounds each provider call;
// zero means no bound beyond ctx.
func NewSearch(searcher Searcher, history HistoryAppender, timeout time.Duration, onEvent EventFunc) *Search {
	return &Search{
		searcher: searcher,
		history:  history,
		timeout:  timeout,
		onEvent:  onEvent,
	}
}

func (h *Search) Name() string { return "search" }

func (h *Search) Applicable(msg message.Message) bool {
	provider, ok := providerName(msg.First())
	return ok && h.searcher.Has(provider)
}

func (h *Search) Execute(ctx context.Context, msg message.Message) (string, bool) {
	provider, _ := providerName(msg.First())
	query := msg.Rest()
	if query == "" {
		return fmt.Sprintf("usage: %s%s <query>", CommandPrefix, provider), true
	}

	if err := h.history.Append(ctx, query); err != nil {
		log.Printf("[search] history append failed query=%q: %v", query, err)
		emit(h.onEvent, EventHistoryFailed, map[string]any{
			"op":    "append",
			"error": err.Error(),
		})
	}

	searchCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	links, err := h.searcher.Execute(searchCtx, provider, query)
	if err != nil {
		log.Printf("[search] provider=%s query=%q failed: %v", provider, query, err)
		emit(h.onEvent, EventSearchFailed, map[string]any{
			"provider": provider,
			"error":    err.Error(),
		})
		if errors.Is(err, search.ErrUnknownProvider) {
			return "", false
		}
		return fmt.Sprintf("search failed: %s is unavailable", provider), true
	}
	if len(links) == 0 {
		return fmt.Sprintf("no results for %q", query), true
	}
	return strings.Join(links, "\n"), true
}

// providerName extracts "google" from "!google".
func providerName(token string) (string, bool) {
	if !strings.HasPrefix(token, CommandPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(token, CommandPrefix)
	return name, name != ""
}
