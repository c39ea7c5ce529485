// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/konkandarshan/konkan/internal/handler"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
)

// BlogHandler serves the public blog post API, including the view counter.
type BlogHandler struct {
	queries     *store.Queries
	viewService *service.ViewService
}

// NewBlogHandler creates a new blog API handler.
func NewBlogHandler(db *sql.DB, views *service.ViewService) *BlogHandler {
	return &BlogHandler{
		queries:     store.New(db),
		viewService: views,
	}
}

// List handles GET /api/v1/blogs. Only published posts are returned.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, offset := pagination(r)

	posts, err := h.queries.ListPublishedBlogPosts(r.Context(), perPage, offset)
	if err != nil {
		slog.Error("Failed to list blog posts", "error", err)
		WriteInternalError(w, "Failed to retrieve blog posts")
		return
	}

	total, err := h.queries.CountPublishedBlogPosts(r.Context())
	if err != nil {
		slog.Error("Failed to count blog posts", "error", err)
		WriteInternalError(w, "Failed to retrieve blog posts")
		return
	}

	WriteSuccess(w, posts, &Meta{
		Total:   total,
		Page:    page,
		PerPage: int(perPage),
		Pages:   pages(total, perPage),
	})
}

// Get handles GET /api/v1/blogs/{id}. Drafts are not exposed.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntityByID(w, r, "blog post", func(id int64) (model.BlogPost, error) {
		return h.queries.GetBlogPostByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if !post.IsPublished() {
		WriteNotFound(w, "Blog post not found")
		return
	}

	WriteSuccess(w, post, nil)
}

// viewResponse is the response body for the view counter endpoint.
type viewResponse struct {
	Success bool `json:"success"`
}

// IncrementViews handles POST /api/v1/blogs/{id}/views. Bot traffic is
// accepted but not counted.
func (h *BlogHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid blog post ID", nil)
		return
	}

	visit := service.VisitInfo{
		UserAgent: r.UserAgent(),
		IP:        middleware.ClientIP(r),
	}

	if err := h.viewService.TrackView(r.Context(), id, visit); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			WriteNotFound(w, "Blog post not found")
			return
		}
		slog.Error("Failed to track blog post view", "blog_id", id, "error", err)
		WriteInternalError(w, "Failed to record view")
		return
	}

	WriteJSON(w, http.StatusOK, viewResponse{Success: true})
}
