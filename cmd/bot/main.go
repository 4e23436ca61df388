package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/stupiduntilnot/searchbot/internal/app"
	"github.com/stupiduntilnot/searchbot/internal/bot"
	cmdpkg "github.com/stupiduntilnot/searchbot/internal/commander"
	"github.com/stupiduntilnot/searchbot/internal/config"
	"github.com/stupiduntilnot/searchbot/internal/dummy"
	"github.com/stupiduntilnot/searchbot/internal/telegram"
)

func main() {
	cfg, err := config.LoadBotConfig()
	if err != nil {
		log.Fatalf("[bot] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	core, err := app.New(ctx, cfg, "bot")
	if err != nil {
		log.Fatalf("[bot] %v", err)
	}
	defer core.Close()

	commander, err := newCommander(&cfg)
	if err != nil {
		log.Fatalf("[bot] failed to init commander: %v", err)
	}

	loop := bot.NewLoop(commander, core.Processor, core.DB, core.ProcessEventID, bot.Options{
		PollTimeoutSeconds: cfg.Timeout,
		Sleep:              time.Duration(cfg.SleepSeconds) * time.Second,
		DropPending:        cfg.DropPending,
		PendingWindow:      time.Duration(cfg.PendingWindowSeconds) * time.Second,
		PendingMax:         cfg.PendingMaxMessages,
	})

	log.Printf(
		"bot running source=%s providers=%v handlers=%v db=%s",
		cfg.Commander,
		core.Providers.Names(),
		core.Handlers.Names(),
		cfg.DBPath,
	)
	if err := loop.Run(ctx); err != nil {
		log.Printf("[bot] loop stopped: %v", err)
	}
	log.Printf("bot stopped")
}

func newCommander(cfg *config.BotConfig) (cmdpkg.Commander, error) {
	switch cfg.Commander {
	case "telegram":
		return telegram.NewClient(cfg.TelegramAPIBase, time.Duration(cfg.Timeout+20)*time.Second), nil
	case "dummy":
		return dummy.NewCommander(cfg.DummyCommanderScript, cfg.DummySendScript)
	default:
		return nil, fmt.Errorf("unsupported commander: %s", cfg.Commander)
	}
}
