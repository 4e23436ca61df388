package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/stupiduntilnot/searchbot/internal/cache"
	"github.com/stupiduntilnot/searchbot/internal/config"
	"github.com/stupiduntilnot/searchbot/internal/db"
	"github.com/stupiduntilnot/searchbot/internal/handler"
	"github.com/stupiduntilnot/searchbot/internal/history"
	"github.com/stupiduntilnot/searchbot/internal/processor"
	"github.com/stupiduntilnot/searchbot/internal/search"
)

// App is the assembled core shared by the bot process and the CLI.
type App struct {
	DB        *sql.DB
	History   *history.Store
	Providers *search.Registry
	Handlers  *handler.Registry
	Processor *processor.MessageProcessor
	// ProcessEventID is the id of this process's process.started event.
	ProcessEventID *int64

	cache *cache.RedisCache
}

// New opens storage and builds the provider and handler tables. role is
// recorded in the process.started event.
func New(ctx context.Context, cfg config.BotConfig, role string) (*App, error) {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	a := &App{
		DB:      database,
		History: history.NewStore(database),
	}
	if id, err := db.LogEvent(database, nil, db.EventProcessStarted, map[string]any{
		"role":      role,
		"pid":       os.Getpid(),
		"commander": cfg.Commander,
	}); err != nil {
		log.Printf("[%s] failed to log process.started: %v", role, err)
	} else {
		a.ProcessEventID = &id
	}

	var resultCache search.ResultCache
	if cfg.CacheRedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.CacheRedisAddr)
		if err != nil {
			log.Printf("[%s] result cache disabled: %v", role, err)
		} else {
			a.cache = rc
			resultCache = rc
		}
	}

	a.Providers, err = NewProviders(cfg, resultCache)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Handlers, err = handler.Default(handler.Deps{
		Replies:       handler.DefaultReplies(),
		Searcher:      a.Providers,
		History:       a.History,
		SearchTimeout: time.Duration(cfg.SearchTimeoutSeconds) * time.Second,
		OnEvent:       a.RecordEvent,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Processor = processor.New(a.Handlers)
	return a, nil
}

// NewProviders registers the built-in engines, each behind a circuit breaker
// and, when resultCache is non-nil, a result cache.
func NewProviders(cfg config.BotConfig, resultCache search.ResultCache) (*search.Registry, error) {
	client := &http.Client{Timeout: time.Duration(cfg.SearchTimeoutSeconds) * time.Second}
	registry := search.NewRegistry()
	for _, engine := range search.Builtin(cfg.UserAgent, client) {
		html, err := search.NewHTMLProvider(engine)
		if err != nil {
			return nil, err
		}
		var p search.Provider = search.NewBreaker(html, cfg.BreakerThreshold, time.Duration(cfg.BreakerCooldownSecs)*time.Second)
		if resultCache != nil {
			p = search.NewCached(p, resultCache, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		}
		if err := registry.Register(p); err != nil {
			return nil, fmt.Errorf("failed to register provider %s: %w", engine.Name, err)
		}
	}
	return registry, nil
}

// RecordEvent stores a handler event under this process.
func (a *App) RecordEvent(eventType string, payload map[string]any) {
	if _, err := db.LogEvent(a.DB, a.ProcessEventID, eventType, payload); err != nil {
		log.Printf("[app] failed to log %s: %v", eventType, err)
	}
}

func (a *App) Close() error {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	return a.DB.Close()
}
