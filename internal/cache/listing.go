// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// listing.go caches encoded GET /articles responses in Valkey. Entries are
// keyed by a generation number and the listing parameters. Any article
// write bumps the generation and drops the entries, since a single write
// can change every listing. A listing read before the bump is stored under
// the old generation and is never served again.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"pressroom/internal/metrics"
)

// listingKeyPrefix is the Valkey key prefix for cached listings.
const listingKeyPrefix = "listing:"

// generationKey holds the current listing generation. It sits outside
// listingKeyPrefix so InvalidateAll never deletes it.
const generationKey = "listing-generation"

// ListingCache stores encoded article listings in Valkey.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache backed by the given Valkey client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

// ListingKey returns the cache key for a listing request. Categories come
// from a fixed set without "|", so the key is unambiguous for any search.
func ListingKey(category, search string) string {
	return category + "|" + search
}

// Key returns the cache key for a listing under the current generation.
// It must be taken before the listing is read from the store. The second
// result is false if the generation cannot be read, in which case the
// listing should not be cached.
func (lc *ListingCache) Key(ctx context.Context, category, search string) (string, bool) {
	gen, err := lc.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.ListingCacheLookups.WithLabelValues("error").Inc()
		slog.Warn("listing cache generation error", "error", err)
		return "", false
	}
	return strconv.FormatInt(gen, 10) + ":" + ListingKey(category, search), true
}

// Get retrieves a cached listing. The second result is false on a miss or
// a Valkey error.
func (lc *ListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ListingCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.ListingCacheLookups.WithLabelValues("error").Inc()
		slog.Warn("listing cache get error", "key", key, "error", err)
		return nil, false
	}
	metrics.ListingCacheLookups.WithLabelValues("hit").Inc()
	slog.Debug("listing cache hit", "key", key)
	return val, true
}

// Set stores an encoded listing with the configured TTL.
func (lc *ListingCache) Set(ctx context.Context, key string, body []byte) {
	if err := lc.client.Set(ctx, listingKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "key", key, "error", err)
	}
}

// InvalidateAll starts a new generation, then removes every cached listing
// by scanning for the prefix.
func (lc *ListingCache) InvalidateAll(ctx context.Context) {
	if err := lc.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Warn("listing cache generation bump error", "error", err)
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listingKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("listing cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("listing cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("listing cache cleared", "deleted", deleted)
	}
}
