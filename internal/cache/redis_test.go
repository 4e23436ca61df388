package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKey_StablePerProviderAndQuery(t *testing.T) {
	a := Key("google", "go lang")
	b := Key("google", "go lang")
	if a != b {
		t.Fatalf("expected stable key, got %s and %s", a, b)
	}
	if !strings.HasPrefix(a, "searchbot:results:google:") {
		t.Fatalf("unexpected key prefix: %s", a)
	}
	if Key("duckduckgo", "go lang") == a || Key("google", "rust") == a {
		t.Fatal("expected distinct keys for distinct provider or query")
	}
}

func TestNewRedisCache_UnreachableAddr(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := NewRedisCache(ctx, "127.0.0.1:1"); err == nil {
		t.Fatal("expected ping error for unreachable redis")
	}
}

func TestRedisCache_GetErrorWhenUnreachable(t *testing.T) {
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "google", "go")
	if err == nil || ok {
		t.Fatalf("expected error and miss, got ok=%v err=%v", ok, err)
	}
}
