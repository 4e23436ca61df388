package handler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stupiduntilnot/searchbot/internal/message"
	"github.com/stupiduntilnot/searchbot/internal/search"
)

type fakeHistory struct {
	mu        sync.Mutex
	queries   []string
	appendErr error
	findErr   error
}

func (f *fakeHistory) Append(ctx context.Context, query string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.queries = append(f.queries, query)
	return nil
}

func (f *fakeHistory) Find(ctx context.Context, substr string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	seen := map[string]bool{}
	out := []string{}
	for _, q := range f.queries {
		if seen[q] || !strings.Contains(q, substr) {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeHistory) Appended() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]string
	err     error
	block   bool
	calls   int
}

func (f *fakeSearcher) Has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.results[name]
	return ok
}

func (f *fakeSearcher) Execute(ctx context.Context, name, query string) ([]string, error) {
	f.mu.Lock()
	f.calls++
	block, err, links := f.block, f.err, f.results[name]
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", search.ErrSearchUnavailable, ctx.Err())
	}
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (f *fakeSearcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingHandler applies to every message starting with its trigger and
// records each execution.
type recordingHandler struct {
	name    string
	trigger string
	reply   string

	mu       sync.Mutex
	executed int
}

func (h *recordingHandler) Name() string { return h.name }

func (h *recordingHandler) Applicable(msg message.Message) bool {
	return msg.First() == h.trigger
}

func (h *recordingHandler) Execute(ctx context.Context, msg message.Message) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.executed++
	return h.reply, true
}

func (h *recordingHandler) Executed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.executed
}

type panicHandler struct {
	inApplicable bool
}

func (h *panicHandler) Name() string { return "panicky" }

func (h *panicHandler) Applicable(msg message.Message) bool {
	if h.inApplicable {
		panic("applicable bug")
	}
	return true
}

func (h *panicHandler) Execute(ctx context.Context, msg message.Message) (string, bool) {
	panic("execute bug")
}
