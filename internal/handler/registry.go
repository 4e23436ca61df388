package handler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/stupiduntilnot/searchbot/internal/message"
)

// Registry holds handlers in evaluation order. The first applicable handler
// wins; later handlers are never consulted for that message.
type Registry struct {
	// OnEvent, when set, receives dispatch.recovered events.
	OnEvent EventFunc

	mu       sync.RWMutex
	handlers []Handler
	names    map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		names: map[string]struct{}{},
	}
}

// Register appends h to the end of the evaluation order.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("handler is nil")
	}
	name := strings.TrimSpace(h.Name())
	if name == "" {
		return fmt.Errorf("handler name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("handler already registered: %s", name)
	}
	r.names[name] = struct{}{}
	r.handlers = append(r.handlers, h)
	return nil
}

// Names returns handler names in evaluation order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for _, h := range r.handlers {
		out = append(out, h.Name())
	}
	return out
}

// Dispatch normalizes raw and runs the first applicable handler. ok is false
// when no handler applies or the handler produced nothing. A panicking
// handler is logged and treated as producing nothing.
func (r *Registry) Dispatch(ctx context.Context, raw string) (reply string, ok bool) {
	msg := message.New(raw)

	r.mu.RLock()
	handlers := r.handlers
	r.mu.RUnlock()

	for _, h := range handlers {
		applies, failed := r.applicable(h, msg)
		if failed {
			return "", false
		}
		if applies {
			return r.execute(ctx, h, msg)
		}
	}
	return "", false
}

func (r *Registry) applicable(h Handler, msg message.Message) (applies, failed bool) {
	defer func() {
		if p := recover(); p != nil {
			r.recovered(h, "applicable", p)
			applies, failed = false, true
		}
	}()
	return h.Applicable(msg), false
}

func (r *Registry) execute(ctx context.Context, h Handler, msg message.Message) (reply string, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.recovered(h, "execute", p)
			reply, ok = "", false
		}
	}()
	return h.Execute(ctx, msg)
}

func (r *Registry) recovered(h Handler, stage string, p any) {
	log.Printf("[dispatch] handler=%s %s panicked: %v", h.Name(), stage, p)
	emit(r.OnEvent, EventDispatchRecovered, map[string]any{
		"handler": h.Name(),
		"stage":   stage,
		"panic":   fmt.Sprint(p),
	})
}
