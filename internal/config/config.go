package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// BotConfig holds configuration for the bot process.
type BotConfig struct {
	BotToken             string
	TelegramAPIBase      string
	Commander            string
	UserAgent            string
	DBPath               string
	Timeout              int
	SleepSeconds         int
	DropPending          bool
	PendingWindowSeconds int64
	PendingMaxMessages   int
	SearchTimeoutSeconds int
	BreakerThreshold     int
	BreakerCooldownSecs  int
	CacheRedisAddr       string
	CacheTTLSeconds      int
	DummyCommanderScript string
	DummySendScript      string
}

// LoadEnvFile loads KEY=VALUE pairs from the BOT_ENV_FILE (default ".env")
// into the environment. Variables already set win. A missing file is not an
// error.
func LoadEnvFile() error {
	path := envOrDefault("BOT_ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadBotConfig reads bot configuration from the environment, after merging
// the env file.
func LoadBotConfig() (BotConfig, error) {
	return loadBotConfig(true)
}

// LoadLocalConfig is LoadBotConfig for tools that never talk to the chat
// platform; BOT_TOKEN is optional.
func LoadLocalConfig() (BotConfig, error) {
	return loadBotConfig(false)
}

func loadBotConfig(needPlatform bool) (BotConfig, error) {
	if err := LoadEnvFile(); err != nil {
		return BotConfig{}, err
	}

	commander := envOrDefault("BOT_COMMANDER", "telegram")
	token := os.Getenv("BOT_TOKEN")
	switch commander {
	case "telegram":
		if needPlatform && token == "" {
			return BotConfig{}, fmt.Errorf("BOT_TOKEN is required in environment when BOT_COMMANDER=telegram")
		}
	case "dummy":
	default:
		return BotConfig{}, fmt.Errorf("BOT_COMMANDER must be telegram or dummy, got %q", commander)
	}

	cfg := BotConfig{
		BotToken:             token,
		TelegramAPIBase:      envOrDefault("TELEGRAM_API_BASE", fmt.Sprintf("https://api.telegram.org/bot%s", token)),
		Commander:            commander,
		UserAgent:            os.Getenv("USER_AGENT"),
		DBPath:               envOrDefault("SQLITE_DB", "history.db"),
		Timeout:              envIntOrDefault("TG_TIMEOUT", 30),
		SleepSeconds:         envIntOrDefault("TG_SLEEP_SECONDS", 1),
		DropPending:          envBoolOrDefault("TG_DROP_PENDING", true),
		PendingWindowSeconds: int64(envIntOrDefault("TG_PENDING_WINDOW_SECONDS", 600)),
		PendingMaxMessages:   envIntOrDefault("TG_PENDING_MAX_MESSAGES", 50),
		SearchTimeoutSeconds: envIntOrDefault("BOT_SEARCH_TIMEOUT_SECONDS", 10),
		BreakerThreshold:     envIntOrDefault("BOT_SEARCH_BREAKER_THRESHOLD", 3),
		BreakerCooldownSecs:  envIntOrDefault("BOT_SEARCH_BREAKER_COOLDOWN_SECONDS", 60),
		CacheRedisAddr:       strings.TrimSpace(os.Getenv("BOT_CACHE_REDIS_ADDR")),
		CacheTTLSeconds:      envIntOrDefault("BOT_CACHE_TTL_SECONDS", 300),
		DummyCommanderScript: envOrDefault("BOT_DUMMY_COMMANDER_SCRIPT", "ok"),
		DummySendScript:      envOrDefault("BOT_DUMMY_SEND_SCRIPT", "ok"),
	}
	if err := cfg.validate(); err != nil {
		return BotConfig{}, err
	}
	return cfg, nil
}

func (c BotConfig) validate() error {
	positive := []struct {
		key string
		val int
	}{
		{"TG_SLEEP_SECONDS", c.SleepSeconds},
		{"BOT_SEARCH_TIMEOUT_SECONDS", c.SearchTimeoutSeconds},
		{"BOT_SEARCH_BREAKER_THRESHOLD", c.BreakerThreshold},
		{"BOT_SEARCH_BREAKER_COOLDOWN_SECONDS", c.BreakerCooldownSecs},
		{"BOT_CACHE_TTL_SECONDS", c.CacheTTLSeconds},
	}
	for _, p := range positive {
		if p.val <= 0 {
			return fmt.Errorf("%s must be > 0, got %d", p.key, p.val)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("TG_TIMEOUT must be >= 0, got %d", c.Timeout)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("SQLITE_DB must not be empty")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}
