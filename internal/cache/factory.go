package cache

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// CacheBackend identifies which backend a cache was built on.
type CacheBackend string

// Cache backends.
const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// CacheConfig holds configuration for cache creation.
type CacheConfig struct {
	// Type is the cache backend type: "memory" or "redis"
	Type string

	// RedisURL is the Redis connection URL (only for redis type)
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string

	// FallbackToMemory falls back to an in-memory cache when the Redis
	// connection fails instead of returning an error.
	FallbackToMemory bool

	// DefaultTTL is the default TTL for cache entries
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited)
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup
	CleanupInterval time.Duration
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Type:             "memory",
		Prefix:           "konkan:",
		FallbackToMemory: true,
		DefaultTTL:       5 * time.Minute,
		MaxSize:          10000,
		CleanupInterval:  time.Minute,
	}
}

// CacheResult holds a created cache along with backend information.
type CacheResult struct {
	Cache       Cacher
	BackendType CacheBackend
	IsFallback  bool // true when Redis was requested but memory was used
}

// NewCacheWithInfo creates a cache and reports which backend it ended up on.
func NewCacheWithInfo(cfg CacheConfig) (*CacheResult, error) {
	if cfg.Type == "redis" && cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			return &CacheResult{Cache: rc, BackendType: CacheBackendRedis}, nil
		}
		if !cfg.FallbackToMemory {
			return nil, fmt.Errorf("redis cache %s: %w", maskRedisURL(cfg.RedisURL), err)
		}
		slog.Warn("redis cache unavailable, falling back to memory",
			"url", maskRedisURL(cfg.RedisURL), "error", err)
		mem := newMemoryFromConfig(cfg)
		return &CacheResult{Cache: mem, BackendType: CacheBackendMemory, IsFallback: true}, nil
	}

	return &CacheResult{Cache: newMemoryFromConfig(cfg), BackendType: CacheBackendMemory}, nil
}

// NewCache creates a cache based on the provided configuration.
func NewCache(cfg CacheConfig) (Cacher, error) {
	result, err := NewCacheWithInfo(cfg)
	if err != nil {
		return nil, err
	}
	return result.Cache, nil
}

// NewDefaultCache creates a cache with default configuration.
func NewDefaultCache() Cacher {
	cache, _ := NewCache(DefaultCacheConfig())
	return cache
}

// NewCacheWithTTL creates a simple memory cache with the specified TTL.
// This is a convenience function for common use cases.
func NewCacheWithTTL(ttl time.Duration) Cacher {
	return NewSimpleMemoryCache(ttl)
}

func newMemoryFromConfig(cfg CacheConfig) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// maskRedisURL hides credentials in a Redis URL for log output.
func maskRedisURL(rawURL string) string {
	at := strings.LastIndex(rawURL, "@")
	if at == -1 {
		return rawURL
	}
	scheme := strings.Index(rawURL, "://")
	if scheme == -1 {
		return rawURL
	}
	return rawURL[:scheme+3] + "***" + rawURL[at:]
}

// SanitizeRedisURL masks the password in a Redis URL for safe logging,
// keeping the username visible.
func SanitizeRedisURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "[invalid URL]"
	}

	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}

	return u.String()
}
