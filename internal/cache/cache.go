package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a JSON value cache with per-key TTLs.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NewStore connects to redis, or falls back to an in-process cache when the
// URL is empty or redis is unreachable.
func NewStore(redisURL string) Store {
	if redisURL == "" {
		log.Printf("redis disabled, using in-memory cache: empty redis url")
		return NewMemory()
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis disabled, using in-memory cache: %v", err)
		return NewMemory()
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis disabled, using in-memory cache: %v", err)
		_ = client.Close()
		return NewMemory()
	}

	log.Printf("redis connected")
	return &Redis{client: client}
}

// Redis is a redis-backed Store.
type Redis struct {
	client *redis.Client
}

// Get unmarshals the cached value into dest; the bool reports a hit.
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key for ttl.
func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

// Delete drops a key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// Memory is an in-process Store used when redis is unavailable and in tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory builds an empty Memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if ok && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{raw: raw, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
