package handler

import (
	"fmt"
	"time"
)

// History is the query log used by the search and recent handlers.
type History interface {
	HistoryAppender
	HistoryFinder
}

// Deps are the collaborators of the built-in handlers.
type Deps struct {
	Replies       map[string]string
	Searcher      Searcher
	History       History
	SearchTimeout time.Duration
	OnEvent       EventFunc
}

// Default builds the bot's handler table. Evaluation order is fixed here:
//
//  1. exact  - literal replies such as "hi"
//  2. search - "!<provider> <query>"
//  3. recent - "!recent [term]"
func Default(deps Deps) (*Registry, error) {
	if deps.Searcher == nil || deps.History == nil {
		return nil, fmt.Errorf("handler deps: searcher and history are required")
	}
	if deps.Searcher.Has(RecentCommand[len(CommandPrefix):]) {
		return nil, fmt.Errorf("handler deps: provider name %q shadows %s", "recent", RecentCommand)
	}
	replies := deps.Replies
	if replies == nil {
		replies = DefaultReplies()
	}

	r := NewRegistry()
	r.OnEvent = deps.OnEvent
	for _, h := range []Handler{
		NewExactMatch(replies),
		NewSearch(deps.Searcher, deps.History, deps.SearchTimeout, deps.OnEvent),
		NewRecentHistory(deps.History, deps.OnEvent),
	} {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}
