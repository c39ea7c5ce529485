// Package handler implements HTTP handlers for the public site and the
// admin dashboard: blog posts, hotels, products, social settings, media,
// users and authentication.
package handler

import (
	"database/sql"
	"net/http"

	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/store"
)

// DashboardStats holds the statistics displayed on the dashboard.
type DashboardStats struct {
	TotalPosts     int64
	PublishedPosts int64
	DraftPosts     int64
	TotalHotels    int64
	TotalProducts  int64
	TotalUsers     int64
	TotalMedia     int64
}

// DashboardData holds all dashboard data including stats and recent posts.
type DashboardData struct {
	Stats       DashboardStats
	RecentPosts []model.BlogPost
}

// AdminHandler handles the admin dashboard.
type AdminHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// Dashboard renders the admin dashboard with content counts and the
// most recent posts, drafts included.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data DashboardData
	var err error

	if data.Stats.TotalPosts, err = h.queries.CountBlogPosts(ctx); err != nil {
		logAndInternalError(w, "failed to count blog posts", "error", err)
		return
	}
	if data.Stats.PublishedPosts, err = h.queries.CountPublishedBlogPosts(ctx); err != nil {
		logAndInternalError(w, "failed to count published posts", "error", err)
		return
	}
	data.Stats.DraftPosts = data.Stats.TotalPosts - data.Stats.PublishedPosts

	if data.Stats.TotalHotels, err = h.queries.CountHotels(ctx); err != nil {
		logAndInternalError(w, "failed to count hotels", "error", err)
		return
	}
	if data.Stats.TotalProducts, err = h.queries.CountProducts(ctx); err != nil {
		logAndInternalError(w, "failed to count products", "error", err)
		return
	}
	if data.Stats.TotalUsers, err = h.queries.CountUsers(ctx); err != nil {
		logAndInternalError(w, "failed to count users", "error", err)
		return
	}
	if data.Stats.TotalMedia, err = h.queries.CountMedia(ctx); err != nil {
		logAndInternalError(w, "failed to count media", "error", err)
		return
	}

	if data.RecentPosts, err = h.queries.ListBlogPosts(ctx, 5, 0); err != nil {
		logAndInternalError(w, "failed to list recent posts", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
