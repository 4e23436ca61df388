package handler

import (
	"context"

	"github.com/stupiduntilnot/searchbot/internal/message"
)

// DefaultReplies are the fixed replies the bot answers without a command.
func DefaultReplies() map[string]string {
	return map[string]string{
		"hi": "Hey",
	}
}

// ExactMatch answers messages whose whole lowercased text is a known key.
type ExactMatch struct {
	replies map[string]string
}

// NewExactMatch copies replies; keys are matched against lowercased text.
func NewExactMatch(replies map[string]string) *ExactMatch {
	m := make(map[string]string, len(replies))
	for k, v := range replies {
		m[k] = v
	}
	return &ExactMatch{replies: m}
}

func (h *ExactMatch) Name() string { return "exact" }

func (h *ExactMatch) Applicable(msg message.Message) bool {
	_, ok := h.replies[msg.Text()]
	return ok
}

func (h *ExactMatch) Execute(ctx context.Context, msg message.Message) (string, bool) {
	reply, ok := h.replies[msg.Text()]
	return reply, ok
}
