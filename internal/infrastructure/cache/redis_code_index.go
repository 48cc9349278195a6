package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCodeIndex caches known component codes in Redis so the uniqueness
// pre-check can answer without a vendor round trip. Entries expire after
// a TTL; the vendor query stays the authority on misses.
type RedisCodeIndex struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisCodeIndex creates a Redis-backed code index
func NewRedisCodeIndex(cfg RedisConfig, ttl time.Duration) (*RedisCodeIndex, error) {
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

	return &RedisCodeIndex{
		client:    client,
		keyPrefix: "component:code:",
		ttl:       ttl,
	}, nil
}

// NewRedisCodeIndexWithClient creates an index with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisCodeIndexWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCodeIndex {
	if keyPrefix == "" {
		keyPrefix = "component:code:"
	}
	return &RedisCodeIndex{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Contains reports whether the code is cached as taken
func (s *RedisCodeIndex) Contains(ctx context.Context, code string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+code).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Add records the code as taken
func (s *RedisCodeIndex) Add(ctx context.Context, code string) error {
	if err := s.client.Set(ctx, s.keyPrefix+code, 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Remove drops the code, e.g. after a rename
func (s *RedisCodeIndex) Remove(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, s.keyPrefix+code).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (s *RedisCodeIndex) Close() error {
	return s.client.Close()
}
