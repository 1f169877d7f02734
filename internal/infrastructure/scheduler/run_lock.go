package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLock guards a robot run so only one instance executes at a time.
// Acquire returns true when the lock was taken, false when another
// holder already owns it.
type RunLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisRunLock implements RunLock using Redis SETNX
// This is suitable for distributed deployments where multiple instances
// must not run the robot concurrently
type RedisRunLock struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunLock creates a Redis-backed run lock
func NewRedisRunLock(cfg RedisConfig) (*RedisRunLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRunLock{
		client:    client,
		keyPrefix: "invoicerobot:lock:",
	}, nil
}

// NewRedisRunLockWithClient creates a run lock over an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisRunLockWithClient(client *redis.Client, keyPrefix string) *RedisRunLock {
	if keyPrefix == "" {
		keyPrefix = "invoicerobot:lock:"
	}
	return &RedisRunLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire takes the lock atomically with a TTL so a crashed holder
// cannot block runs forever
func (l *RedisRunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock so the next run does not wait for TTL expiry
func (l *RedisRunLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisRunLock) Close() error {
	return l.client.Close()
}

var _ RunLock = (*RedisRunLock)(nil)

// lockEntry represents a held lock with expiration
type lockEntry struct {
	expiresAt time.Time
}

// InMemoryRunLock implements RunLock using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemoryRunLock struct {
	mu      sync.Mutex
	entries map[string]lockEntry
}

// NewInMemoryRunLock creates a new in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{
		entries: make(map[string]lockEntry),
	}
}

func (l *InMemoryRunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	l.entries[key] = lockEntry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (l *InMemoryRunLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
	return nil
}

var _ RunLock = (*InMemoryRunLock)(nil)
