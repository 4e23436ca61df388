package bot

import (
	"context"
	"database/sql"
	"log"
	"time"

	cmdpkg "github.com/stupiduntilnot/searchbot/internal/commander"
	"github.com/stupiduntilnot/searchbot/internal/db"
)

// Processor turns inbound text into an optional reply.
type Processor interface {
	Execute(ctx context.Context, raw string) (string, bool)
}

// Options tune polling.
type Options struct {
	PollTimeoutSeconds int
	Sleep              time.Duration
	// DropPending skips backlog older than PendingWindow on first start and
	// keeps at most PendingMax of the recent updates.
	DropPending   bool
	PendingWindow time.Duration
	PendingMax    int
}

// Loop relays chat updates through the processor and sends replies back.
type Loop struct {
	commander cmdpkg.Commander
	processor Processor
	database  *sql.DB
	parentID  *int64
	opts      Options
	offset    int64
}

// NewLoop builds the loop. database may be nil, in which case no events are
// recorded; parentID links recorded events to the process.started event.
func NewLoop(commander cmdpkg.Commander, processor Processor, database *sql.DB, parentID *int64, opts Options) *Loop {
	if opts.Sleep <= 0 {
		opts.Sleep = time.Second
	}
	return &Loop{
		commander: commander,
		processor: processor,
		database:  database,
		parentID:  parentID,
		opts:      opts,
	}
}

// Run polls until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if l.opts.DropPending {
		offset, err := bootstrapOffset(l.commander, int64(l.opts.PendingWindow.Seconds()), l.opts.PendingMax)
		if err != nil {
			log.Printf("[bot] bootstrap offset error: %v", err)
		} else {
			l.offset = offset
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if !l.PollOnce(ctx) {
			if !sleepCtx(ctx, l.opts.Sleep) {
				return nil
			}
		}
	}
}

// PollOnce fetches one batch of updates and handles them in order. It returns
// false when polling failed or produced nothing, so the caller can back off.
func (l *Loop) PollOnce(ctx context.Context) bool {
	updates, err := l.commander.GetUpdates(l.offset, l.opts.PollTimeoutSeconds)
	if err != nil {
		log.Printf("[bot] getUpdates error: %v", err)
		l.logEvent(db.EventPollFailed, map[string]any{"error": err.Error()})
		return false
	}
	for _, update := range updates {
		l.offset = update.UpdateID + 1
		l.handle(ctx, update)
	}
	return len(updates) > 0
}

func (l *Loop) handle(ctx context.Context, update cmdpkg.Update) {
	if update.Message == nil || update.Message.Text == nil {
		return
	}
	text := *update.Message.Text
	if len(text) == 0 {
		return
	}
	chatID := update.Message.Chat.ID

	reply, ok := l.processor.Execute(ctx, text)
	if !ok {
		return
	}
	if err := l.commander.SendMessage(chatID, reply); err != nil {
		log.Printf("[bot] send reply chat_id=%d update_id=%d failed: %v", chatID, update.UpdateID, err)
		l.logEvent(db.EventReplyFailed, map[string]any{
			"chat_id":   chatID,
			"update_id": update.UpdateID,
			"error":     err.Error(),
		})
		return
	}
	l.logEvent(db.EventReplySent, map[string]any{
		"chat_id":   chatID,
		"update_id": update.UpdateID,
		"edited":    update.Edited,
		"chars":     len([]rune(reply)),
	})
}

// Offset is the next update id the loop will ask for.
func (l *Loop) Offset() int64 { return l.offset }

func (l *Loop) logEvent(eventType string, payload map[string]any) {
	if l.database == nil {
		return
	}
	if _, err := db.LogEvent(l.database, l.parentID, eventType, payload); err != nil {
		log.Printf("[bot] failed to log %s: %v", eventType, err)
	}
}

func bootstrapOffset(commander cmdpkg.Commander, pendingWindowSeconds int64, pendingMaxMessages int) (int64, error) {
	updates, err := commander.GetUpdates(0, 0)
	if err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		return 0, nil
	}

	now := time.Now().Unix()
	cutoff := now - pendingWindowSeconds

	var inWindow []cmdpkg.Update
	for _, u := range updates {
		if u.Message != nil && u.Message.Date >= cutoff {
			inWindow = append(inWindow, u)
		}
	}

	if len(inWindow) == 0 {
		return updates[len(updates)-1].UpdateID + 1, nil
	}

	if pendingMaxMessages > 0 && len(inWindow) > pendingMaxMessages {
		inWindow = inWindow[len(inWindow)-pendingMaxMessages:]
	}

	return inWindow[0].UpdateID, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
