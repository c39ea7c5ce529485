// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/store"
)

// EventsPerPage is the number of events to display per page.
const EventsPerPage = 50

// EventHandler handles the admin event log.
type EventHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(db *sql.DB, renderer *render.Renderer) *EventHandler {
	return &EventHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// eventListData is the event log page payload.
type eventListData struct {
	Events     []model.Event
	Level      string
	Category   string
	Levels     []string
	Categories []string
	Pagination Pagination
}

// List renders the event log with optional level and category filters.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)

	level := r.URL.Query().Get("level")
	if level != "" && level != model.EventLevelInfo && level != model.EventLevelWarning && level != model.EventLevelError {
		level = ""
	}
	category := r.URL.Query().Get("category")
	if !validEventCategory(category) {
		category = ""
	}

	params := store.FilterEventsParams{
		Level:    level,
		Category: category,
		Limit:    EventsPerPage,
		Offset:   int64((page - 1) * EventsPerPage),
	}

	events, total, err := ListAndCount(
		func() ([]model.Event, error) { return h.queries.FilterEvents(r.Context(), params) },
		func() (int64, error) { return h.queries.CountFilteredEvents(r.Context(), params) })
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	data := eventListData{
		Events:   events,
		Level:    level,
		Category: category,
		Levels:   []string{model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError},
		Categories: []string{
			model.EventCategoryAuth, model.EventCategoryBlog, model.EventCategoryHotel,
			model.EventCategoryProduct, model.EventCategorySocial, model.EventCategoryMedia,
			model.EventCategoryUser, model.EventCategorySystem, model.EventCategoryCache,
		},
		Pagination: BuildPagination(page, int(total), EventsPerPage, redirectAdminEvents, r.URL.Query()),
	}
	if err := h.renderer.Render(w, r, "admin/events", render.TemplateData{
		Title: "Event Log",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render event log", "error", err)
	}
}

func validEventCategory(category string) bool {
	switch category {
	case "", model.EventCategoryAuth, model.EventCategoryBlog, model.EventCategoryHotel,
		model.EventCategoryProduct, model.EventCategorySocial, model.EventCategoryMedia,
		model.EventCategoryUser, model.EventCategorySystem, model.EventCategoryCache:
		return true
	}
	return false
}
