package handler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/stupiduntilnot/searchbot/internal/message"
)

// RecentCommand lists search history.
const RecentCommand = CommandPrefix + "recent"

// HistoryFinder looks up previously issued queries.
type HistoryFinder interface {
	Find(ctx context.Context, substr string) ([]string, error)
}

// RecentHistory handles "!recent [term...]".
type RecentHistory struct {
	history HistoryFinder
	onEvent EventFunc
}

func NewRecentHistory(history HistoryFinder, onEvent EventFunc) *RecentHistory {
	return &RecentHistory{history: history, onEvent: onEvent}
}

func (h *RecentHistory) Name() string { return "recent" }

func (h *RecentHistory) Applicable(msg message.Message) bool {
	return strings.HasPrefix(msg.First(), RecentCommand)
}

func (h *RecentHistory) Execute(ctx context.Context, msg message.Message) (string, bool) {
	filter := msg.Rest()
	queries, err := h.history.Find(ctx, filter)
	if err != nil {
		log.Printf("[recent] history find failed filter=%q: %v", filter, err)
		emit(h.onEvent, EventHistoryFailed, map[string]any{
			"op":    "find",
			"error": err.Error(),
		})
		queries = nil
	}
	if len(queries) == 0 {
		if filter == "" {
			return "no recent searches", true
		}
		return fmt.Sprintf("no recent searches matching %q", filter), true
	}
	return strings.Join(queries, "\n"), true
}
