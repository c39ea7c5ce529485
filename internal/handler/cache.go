// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/konkandarshan/konkan/internal/cache"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
)

// CacheHandler handles the admin cache statistics page.
type CacheHandler struct {
	renderer     *render.Renderer
	cacheManager *cache.Manager
	eventService *service.EventService
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(db *sql.DB, renderer *render.Renderer, cm *cache.Manager) *CacheHandler {
	return &CacheHandler{
		renderer:     renderer,
		cacheManager: cm,
		eventService: service.NewEventService(db),
	}
}

// cacheStatsData is the cache page payload.
type cacheStatsData struct {
	Entities []cache.EntityStats
	Total    cache.CacheStats
}

// Show renders per-entity and total cache statistics.
func (h *CacheHandler) Show(w http.ResponseWriter, r *http.Request) {
	data := cacheStatsData{
		Entities: h.cacheManager.AllStats(),
		Total:    h.cacheManager.TotalStats(),
	}
	if err := h.renderer.Render(w, r, "admin/cache", render.TemplateData{
		Title: "Cache",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render cache page", "error", err)
	}
}

// Clear drops every cached entry across all entity caches.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cacheManager.ClearAll(r.Context())

	_ = h.eventService.LogCacheEvent(r.Context(), model.EventLevelInfo, "Cache cleared",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r), nil)

	flashSuccess(w, r, h.renderer, redirectAdminCache, "Cache cleared")
}
