package handler

import (
	"context"

	"github.com/stupiduntilnot/searchbot/internal/message"
)

// Handler is one message type the bot understands.
type Handler interface {
	Name() string
	// Applicable reports whether the handler wants msg. It must not have side
	// effects and must tolerate messages without tokens.
	Applicable(msg message.Message) bool
	// Execute produces the reply. ok is false when there is nothing to send.
	Execute(ctx context.Context, msg message.Message) (reply string, ok bool)
}

// Event types raised by handlers and dispatch.
const (
	EventSearchFailed      = "search.failed"
	EventHistoryFailed     = "history.failed"
	EventDispatchRecovered = "dispatch.recovered"
)

// EventFunc receives audit events raised while handling a message.
type EventFunc func(eventType string, payload map[string]any)

func emit(fn EventFunc, eventType string, payload map[string]any) {
	if fn != nil {
		fn(eventType, payload)
	}
}
