// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/konkandarshan/konkan/internal/cache"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
)

// SocialHandler handles the admin social feed settings page.
type SocialHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	cacheManager *cache.Manager
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(db *sql.DB, renderer *render.Renderer, cm *cache.Manager) *SocialHandler {
	return &SocialHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		cacheManager: cm,
	}
}

// Show renders the social settings form. The singleton row is created
// on first read so the form always has something to edit.
func (h *SocialHandler) Show(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.GetSocialSettings(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load social settings", "error", err)
		return
	}

	form := newEntityForm(settings, true)
	renderEntityForm(w, r, h.renderer, "admin/social", "Social Feeds", form)
}

// Update handles the social settings form submission. Credentials are
// not part of the form; only display and identity fields are editable.
func (h *SocialHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSocial) {
		return
	}

	params := store.UpdateSocialSettingsParams{
		InstagramEnabled:  formChecked(r, "instagram_enabled"),
		InstagramUsername: strings.TrimSpace(r.FormValue("instagram_username")),
		InstagramUserID:   strings.TrimSpace(r.FormValue("instagram_user_id")),
		InstagramTitle:    strings.TrimSpace(r.FormValue("instagram_title")),
		YouTubeEnabled:    formChecked(r, "youtube_enabled"),
		YouTubeChannelID:  strings.TrimSpace(r.FormValue("youtube_channel_id")),
		YouTubeTitle:      strings.TrimSpace(r.FormValue("youtube_title")),
		UpdatedAt:         time.Now(),
	}
	if params.InstagramTitle == "" {
		params.InstagramTitle = model.DefaultInstagramTitle
	}
	if params.YouTubeTitle == "" {
		params.YouTubeTitle = model.DefaultYouTubeTitle
	}

	updated, err := h.queries.UpdateSocialSettings(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to update social settings", "error", err)
		return
	}

	h.cacheManager.InvalidateSocial(r.Context())
	_ = h.eventService.LogSocialEvent(r.Context(), model.EventLevelInfo, "Social settings updated",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{
			"instagram_enabled": updated.InstagramEnabled,
			"youtube_enabled":   updated.YouTubeEnabled,
		})

	flashSuccess(w, r, h.renderer, redirectAdminSocial, "Social settings updated")
}
