package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewStore creates a session store backed by the given Valkey client.
// secure marks the cookie as HTTPS-only.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{kv: valkeyBackend{client: client}, ttl: DefaultTTL, secure: secure}
}

// NewMemoryStore creates a session store that keeps sessions in process
// memory. Sessions do not survive a restart.
func NewMemoryStore(secure bool) *Store {
	return &Store{
		kv:     &memoryBackend{entries: make(map[string]memoryEntry), now: time.Now},
		ttl:    DefaultTTL,
		secure: secure,
	}
}

type valkeyBackend struct {
	client *redis.Client
}

func (b valkeyBackend) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b valkeyBackend) get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (b valkeyBackend) del(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func (b *memoryBackend) set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = memoryEntry{value: value, expires: b.now().Add(ttl)}
	return nil
}

func (b *memoryBackend) get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok {
		return nil, nil
	}
	if !b.now().Before(e.expires) {
		delete(b.entries, key)
		return nil, nil
	}
	return e.value, nil
}

func (b *memoryBackend) del(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}
