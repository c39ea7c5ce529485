// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/konkandarshan/konkan/internal/model"
)

// Entity names the cached catalog entities. Each entity gets its own
// backend so a mutation invalidates every cached query for that entity
// and nothing else.
type Entity string

// Cached entities.
const (
	EntityBlogs    Entity = "blogs"
	EntityHotels   Entity = "hotels"
	EntityProducts Entity = "products"
	EntitySocial   Entity = "social"
)

// EntityStats holds statistics for one entity cache.
type EntityStats struct {
	Entity Entity
	Stats  CacheStats
}

// Manager caches catalog read queries keyed by entity and query.
// Lists of posts, hotels and products, plus the social settings
// singleton, are cached; writes call the matching Invalidate method.
type Manager struct {
	blogBackend    Cacher
	hotelBackend   Cacher
	productBackend Cacher
	socialBackend  Cacher

	// Typed views over the backends. Read paths go through these.
	Blogs    *TypedCache[[]model.BlogPost]
	Hotels   *TypedCache[[]model.Hotel]
	Products *TypedCache[[]model.Product]
	Social   *TypedCache[model.SocialSettings]
}

// NewManager creates a cache manager with one backend per entity.
// The entity name is folded into the Redis key prefix so entity
// invalidation stays cheap on both backends.
func NewManager(cfg CacheConfig) (*Manager, error) {
	build := func(entity Entity) (Cacher, error) {
		c := cfg
		if c.Prefix == "" {
			c.Prefix = "konkan:"
		}
		c.Prefix = c.Prefix + string(entity) + ":"
		return NewCache(c)
	}

	blogs, err := build(EntityBlogs)
	if err != nil {
		return nil, fmt.Errorf("blogs cache: %w", err)
	}
	hotels, err := build(EntityHotels)
	if err != nil {
		return nil, fmt.Errorf("hotels cache: %w", err)
	}
	products, err := build(EntityProducts)
	if err != nil {
		return nil, fmt.Errorf("products cache: %w", err)
	}
	social, err := build(EntitySocial)
	if err != nil {
		return nil, fmt.Errorf("social cache: %w", err)
	}

	m := &Manager{
		blogBackend:    blogs,
		hotelBackend:   hotels,
		productBackend: products,
		socialBackend:  social,

		Blogs:    NewTypedCache[[]model.BlogPost](blogs, cfg.DefaultTTL),
		Hotels:   NewTypedCache[[]model.Hotel](hotels, cfg.DefaultTTL),
		Products: NewTypedCache[[]model.Product](products, cfg.DefaultTTL),
		Social:   NewTypedCache[model.SocialSettings](social, cfg.DefaultTTL),
	}
	return m, nil
}

// NewMemoryManager creates a manager backed by in-memory caches with the
// given TTL. Used by tests and as the no-Redis default.
func NewMemoryManager(ttl time.Duration) *Manager {
	cfg := DefaultCacheConfig()
	cfg.DefaultTTL = ttl
	m, _ := NewManager(cfg) // memory backend cannot fail
	return m
}

// QueryKey builds a cache key from query parameters. Parts are
// normalized so "list", "published" and "list", "Published" hit the
// same entry.
func QueryKey(parts ...any) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, strings.ToLower(strings.TrimSpace(fmt.Sprint(p))))
	}
	return strings.Join(segs, ":")
}

// InvalidateBlogs drops every cached blog query.
func (m *Manager) InvalidateBlogs(ctx context.Context) {
	m.invalidate(ctx, EntityBlogs, m.blogBackend)
}

// InvalidateHotels drops every cached hotel query.
func (m *Manager) InvalidateHotels(ctx context.Context) {
	m.invalidate(ctx, EntityHotels, m.hotelBackend)
}

// InvalidateProducts drops every cached product query.
func (m *Manager) InvalidateProducts(ctx context.Context) {
	m.invalidate(ctx, EntityProducts, m.productBackend)
}

// InvalidateSocial drops the cached social settings.
func (m *Manager) InvalidateSocial(ctx context.Context) {
	m.invalidate(ctx, EntitySocial, m.socialBackend)
}

func (m *Manager) invalidate(ctx context.Context, entity Entity, backend Cacher) {
	if err := backend.Clear(ctx); err != nil {
		slog.Warn("cache invalidation failed", "entity", string(entity), "error", err)
	}
}

// ClearAll clears every entity cache and resets statistics.
func (m *Manager) ClearAll(ctx context.Context) {
	for _, backend := range m.backends() {
		if err := backend.Clear(ctx); err != nil {
			slog.Warn("cache clear failed", "error", err)
		}
		if sp, ok := backend.(StatsProvider); ok {
			sp.ResetStats()
		}
	}
	slog.Info("cache cleared")
}

// Close releases all cache backends.
func (m *Manager) Close() error {
	var firstErr error
	for _, backend := range m.backends() {
		if err := backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// AllStats returns statistics for each entity cache, for the admin
// dashboard.
func (m *Manager) AllStats() []EntityStats {
	entities := []Entity{EntityBlogs, EntityHotels, EntityProducts, EntitySocial}
	backends := m.backends()

	stats := make([]EntityStats, 0, len(entities))
	for i, backend := range backends {
		es := EntityStats{Entity: entities[i]}
		if sp, ok := backend.(StatsProvider); ok {
			es.Stats = sp.Stats()
		}
		stats = append(stats, es)
	}
	return stats
}

// TotalStats returns aggregated statistics across all entity caches.
func (m *Manager) TotalStats() CacheStats {
	var total CacheStats
	for _, es := range m.AllStats() {
		total.Hits += es.Stats.Hits
		total.Misses += es.Stats.Misses
		total.Sets += es.Stats.Sets
		total.Items += es.Stats.Items
		total.Size += es.Stats.Size
	}

	if requests := total.Hits + total.Misses; requests > 0 {
		total.HitRate = float64(total.Hits) / float64(requests) * 100
	}
	return total
}

func (m *Manager) backends() []Cacher {
	return []Cacher{m.blogBackend, m.hotelBackend, m.productBackend, m.socialBackend}
}
