package utils

import (
	"context"       // Context for cache operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // redis.Nil comparison
	"sync"          // Guards the in-memory store
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// KV is the key/value store behind the list cache, token revocation and reset tokens
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisKV stores keys in Redis
type RedisKV struct {
	rdb *redis.Client // Redis client
}

// NewRedisKV wraps a Redis client
func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb}
}

// Get reads key, reporting false when it does not exist
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return "", false, nil // Key does not exist
	} else if err != nil {
		return "", false, err // Other Redis error
	}
	return val, true, nil
}

// Set writes key with a TTL
func (r *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err() // Set value in Redis with TTL
}

// Del removes keys; missing keys are ignored
func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil // DEL needs at least one key
	}
	return r.rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// memoryItem is one cached value
type memoryItem struct {
	value   string    // Cached value
	expires time.Time // Zero means no expiry
}

// MemoryKV is a process-local KV used when no Redis address is configured
type MemoryKV struct {
	mu    sync.Mutex            // Guards items
	items map[string]memoryItem // Entries by key
	now   func() time.Time      // Clock
}

// NewMemoryKV returns an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: map[string]memoryItem{}, now: time.Now}
}

// Get reads key, treating expired entries as missing
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		delete(m.items, key) // Expired
		return "", false, nil
	}
	return item.value, true, nil
}

// Set writes key with a TTL, zero meaning no expiry
func (m *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := memoryItem{value: value} // No expiry by default
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

// Del removes keys
func (m *MemoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

// Owner list cache entities
const (
	CasesList     = "cases"
	ClientsList   = "clients"
	DocumentsList = "documents"
	TasksList     = "tasks"
)

// ListKey is the cache key of an owner's list of entity
func ListKey(entity, owner string) string {
	return "cache:" + entity + ":" + owner
}

// ListKeys returns every list key of owner; a mutation of any entity drops them all
func ListKeys(owner string) []string {
	return []string{
		ListKey(CasesList, owner),
		ListKey(ClientsList, owner),
		ListKey(DocumentsList, owner),
		ListKey(TasksList, owner),
	}
}

// GetCache retrieves a JSON value and unmarshals it into dest
func GetCache(ctx context.Context, kv KV, key string, dest any) (bool, error) {
	val, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache stores value as JSON with a TTL
func SetCache(ctx context.Context, kv KV, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return kv.Set(ctx, key, string(b), ttl)
}

// DeleteCache deletes keys from the cache
func DeleteCache(ctx context.Context, kv KV, keys ...string) error {
	return kv.Del(ctx, keys...)
}
