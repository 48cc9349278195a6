package cache

import (
	"fmt"

	"go.uber.org/zap"

	appcomponent "github.com/componentadmin/backend/internal/application/component"
	"github.com/componentadmin/backend/internal/infrastructure/config"
)

// CodeIndexFactory creates code indexes based on configuration
type CodeIndexFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CodeIndexFactoryOption is a functional option for configuring the factory
type CodeIndexFactoryOption func(*CodeIndexFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CodeIndexFactoryOption {
	return func(f *CodeIndexFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// index when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) CodeIndexFactoryOption {
	return func(f *CodeIndexFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCodeIndexFactory creates a new factory
func NewCodeIndexFactory(cfg config.RedisConfig, opts ...CodeIndexFactoryOption) *CodeIndexFactory {
	f := &CodeIndexFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisIndex creates a Redis-backed code index
func (f *CodeIndexFactory) CreateRedisIndex() (appcomponent.CodeIndex, error) {
	idx, err := NewRedisCodeIndex(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.redisConfig.SnapshotTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis code index: %w", err)
	}
	return idx, nil
}

// CreateInMemoryIndex creates an in-memory code index.
// WARNING: in-memory indexes do not share state across process
// instances; the uniqueness pre-check then always falls through to the
// vendor query on other instances, which is correct but slower.
func (f *CodeIndexFactory) CreateInMemoryIndex() appcomponent.CodeIndex {
	return NewInMemoryCodeIndex(f.redisConfig.SnapshotTTL)
}

// CreateIndex creates a code index based on whether Redis is configured
// and reachable. An empty Redis host selects the in-memory index
// outright; an unreachable Redis falls back when allowed.
func (f *CodeIndexFactory) CreateIndex() (appcomponent.CodeIndex, error) {
	if f.redisConfig.Host == "" {
		f.logger.Info("Redis not configured, using in-memory code index")
		return f.CreateInMemoryIndex(), nil
	}

	idx, err := f.CreateRedisIndex()
	if err == nil {
		f.logger.Info("using Redis code index")
		return idx, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for code index but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory code index",
		zap.Error(err),
	)
	return f.CreateInMemoryIndex(), nil
}
