// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, listingKeyPrefix+"*").Result()
		keys = append(keys, generationKey)
		client.Del(ctx, keys...)
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	addr := envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), addr, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	if _, err := ConnectValkey(context.Background(), "127.0.0.1:1", ""); err == nil {
		t.Error("expected error for unreachable Valkey")
	}
}

func TestListingKey(t *testing.T) {
	tests := []struct {
		category, search, want string
	}{
		{"", "", "|"},
		{"tech", "", "tech|"},
		{"", "go|rust", "|go|rust"},
		{"food", "pizza", "food|pizza"},
	}
	for _, tt := range tests {
		if got := ListingKey(tt.category, tt.search); got != tt.want {
			t.Errorf("ListingKey(%q, %q) = %q, want %q", tt.category, tt.search, got, tt.want)
		}
	}
}

func TestListingCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, time.Minute)
	ctx := context.Background()

	key := ListingKey("tech", "cache-test")
	if _, ok := lc.Get(ctx, key); ok {
		t.Fatal("expected miss before Set")
	}

	lc.Set(ctx, key, []byte(`[{"title":"cached"}]`))
	got, ok := lc.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != `[{"title":"cached"}]` {
		t.Errorf("got %q", got)
	}
}

func TestListingCacheTTL(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, 2*time.Second)
	ctx := context.Background()

	key := ListingKey("", "ttl-test")
	lc.Set(ctx, key, []byte("[]"))

	ttl, err := client.TTL(ctx, listingKeyPrefix+key).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > 2*time.Second {
		t.Errorf("unexpected TTL %v", ttl)
	}
}

func TestListingCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, time.Minute)
	ctx := context.Background()

	keys := []string{ListingKey("", ""), ListingKey("tech", ""), ListingKey("", "go")}
	for _, k := range keys {
		lc.Set(ctx, k, []byte("[]"))
	}

	// Keys outside the listing prefix must survive.
	client.Set(ctx, "session:keep-me", "1", time.Minute)
	t.Cleanup(func() { client.Del(ctx, "session:keep-me") })

	lc.InvalidateAll(ctx)

	for _, k := range keys {
		if _, ok := lc.Get(ctx, k); ok {
			t.Errorf("expected %q to be invalidated", k)
		}
	}
	if n, _ := client.Exists(ctx, "session:keep-me").Result(); n != 1 {
		t.Error("InvalidateAll removed a non-listing key")
	}
}

func TestListingCacheKeyChangesOnInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, time.Minute)
	ctx := context.Background()

	before, ok := lc.Key(ctx, "tech", "go")
	if !ok {
		t.Fatal("Key: generation unreadable")
	}
	if again, _ := lc.Key(ctx, "tech", "go"); again != before {
		t.Errorf("Key should be stable without writes: %q vs %q", before, again)
	}

	lc.InvalidateAll(ctx)

	after, ok := lc.Key(ctx, "tech", "go")
	if !ok {
		t.Fatal("Key: generation unreadable")
	}
	if after == before {
		t.Fatalf("Key should change after InvalidateAll, still %q", after)
	}
}

// TestListingCacheStaleSetIsNotServed covers a listing read before a write
// but stored after that write's invalidation.
func TestListingCacheStaleSetIsNotServed(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListingCache(client, time.Minute)
	ctx := context.Background()

	staleKey, _ := lc.Key(ctx, "", "")
	lc.InvalidateAll(ctx)
	lc.Set(ctx, staleKey, []byte(`[{"title":"stale"}]`))

	freshKey, _ := lc.Key(ctx, "", "")
	if _, ok := lc.Get(ctx, freshKey); ok {
		t.Error("stale listing served after invalidation")
	}
}
