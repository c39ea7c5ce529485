// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/konkandarshan/konkan/internal/cache"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
	"github.com/konkandarshan/konkan/internal/util"
)

const adminPerPage = 20

// BlogHandler handles admin blog post management.
type BlogHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	cacheManager *cache.Manager
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(db *sql.DB, renderer *render.Renderer, cm *cache.Manager) *BlogHandler {
	return &BlogHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		cacheManager: cm,
	}
}

// blogListData is the admin blog list page payload.
type blogListData struct {
	Posts      []model.BlogPost
	Query      string
	Pagination Pagination
}

// List renders the admin blog post list. Drafts are included; ?q=
// filters by title or content.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)
	offset := int64((page - 1) * adminPerPage)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		posts []model.BlogPost
		total int64
		err   error
	)
	if query != "" {
		pattern := "%" + query + "%"
		posts, total, err = ListAndCount(
			func() ([]model.BlogPost, error) {
				return h.queries.SearchBlogPostsAdmin(r.Context(), pattern, adminPerPage, offset)
			},
			func() (int64, error) {
				return h.queries.CountSearchBlogPostsAdmin(r.Context(), pattern)
			})
	} else {
		posts, total, err = ListAndCount(
			func() ([]model.BlogPost, error) {
				return h.queries.ListBlogPosts(r.Context(), adminPerPage, offset)
			},
			func() (int64, error) {
				return h.queries.CountBlogPosts(r.Context())
			})
	}
	if err != nil {
		logAndInternalError(w, "failed to list blog posts", "error", err)
		return
	}

	data := blogListData{
		Posts:      posts,
		Query:      query,
		Pagination: BuildPagination(page, int(total), adminPerPage, redirectAdminBlogs, r.URL.Query()),
	}
	if err := h.renderer.Render(w, r, "admin/blogs", render.TemplateData{
		Title: "Blog Posts",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render blog list", "error", err)
	}
}

// NewForm renders the blog post creation form.
func (h *BlogHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	form := newEntityForm(model.BlogPost{Status: model.PostStatusDraft}, false)
	renderEntityForm(w, r, h.renderer, "admin/blog_form", "New Blog Post", form)
}

// Create handles blog post creation.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminBlogsNew) {
		return
	}

	post := blogPostFromForm(r)
	form := newEntityForm(post, false)
	form.Errors = post.Validate()

	if post.Slug == "" {
		post.Slug = util.Slugify(post.Title)
		form.Record.Slug = post.Slug
	}
	if msg := ValidateSlugWithChecker(post.Slug, func() (int64, error) {
		return h.queries.CountBlogPostsBySlug(r.Context(), post.Slug, 0)
	}); msg != "" {
		form.Errors["slug"] = msg
	}

	if form.HasErrors() {
		renderEntityForm(w, r, h.renderer, "admin/blog_form", "New Blog Post", form)
		return
	}

	now := time.Now()
	created, err := h.queries.CreateBlogPost(r.Context(), store.CreateBlogPostParams{
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		ImageURL:      post.ImageURL,
		Author:        post.Author,
		Category:      post.Category,
		Tags:          post.Tags,
		AffiliateLink: post.AffiliateLink,
		Status:        post.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create blog post", "error", err)
		return
	}

	h.cacheManager.InvalidateBlogs(r.Context())
	_ = h.eventService.LogBlogEvent(r.Context(), model.EventLevelInfo, "Blog post created",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"blog_id": created.ID, "title": created.Title, "status": created.Status})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminBlogsID, created.ID), "Blog post created")
}

// EditForm renders the blog post edit form.
func (h *BlogHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminBlogs, "Invalid blog post ID")
		return
	}

	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminBlogs, "blog post", id,
		func(id int64) (model.BlogPost, error) { return h.queries.GetBlogPostByID(r.Context(), id) })
	if !ok {
		return
	}

	form := newEntityForm(post, true)
	renderEntityForm(w, r, h.renderer, "admin/blog_form", "Edit Blog Post", form)
}

// Update handles blog post updates.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminBlogs, "Invalid blog post ID")
		return
	}

	current, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminBlogs, "blog post", id,
		func(id int64) (model.BlogPost, error) { return h.queries.GetBlogPostByID(r.Context(), id) })
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, fmt.Sprintf(redirectAdminBlogsID, id)) {
		return
	}

	post := blogPostFromForm(r)
	post.ID = id
	post.Views = current.Views
	form := newEntityForm(post, true)
	form.Errors = post.Validate()

	if post.Slug == "" {
		post.Slug = util.Slugify(post.Title)
		form.Record.Slug = post.Slug
	}
	if msg := ValidateSlugForUpdate(post.Slug, current.Slug, func() (int64, error) {
		return h.queries.CountBlogPostsBySlug(r.Context(), post.Slug, id)
	}); msg != "" {
		form.Errors["slug"] = msg
	}

	if form.HasErrors() {
		renderEntityForm(w, r, h.renderer, "admin/blog_form", "Edit Blog Post", form)
		return
	}

	updated, err := h.queries.UpdateBlogPost(r.Context(), store.UpdateBlogPostParams{
		ID:            id,
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		ImageURL:      post.ImageURL,
		Author:        post.Author,
		Category:      post.Category,
		Tags:          post.Tags,
		AffiliateLink: post.AffiliateLink,
		Status:        post.Status,
		UpdatedAt:     time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to update blog post", "error", err, "blog_id", id)
		return
	}

	h.cacheManager.InvalidateBlogs(r.Context())
	_ = h.eventService.LogBlogEvent(r.Context(), model.EventLevelInfo, "Blog post updated",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"blog_id": updated.ID, "title": updated.Title, "status": updated.Status})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminBlogsID, id), "Blog post updated")
}

// Delete handles blog post deletion.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminBlogs, "Invalid blog post ID")
		return
	}

	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminBlogs, "blog post", id,
		func(id int64) (model.BlogPost, error) { return h.queries.GetBlogPostByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteBlogPost(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete blog post", "error", err, "blog_id", id)
		return
	}

	h.cacheManager.InvalidateBlogs(r.Context())
	_ = h.eventService.LogBlogEvent(r.Context(), model.EventLevelInfo, "Blog post deleted",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"blog_id": id, "title": post.Title})

	flashSuccess(w, r, h.renderer, redirectAdminBlogs, "Blog post deleted")
}

// blogPostFromForm builds a BlogPost from submitted form values.
func blogPostFromForm(r *http.Request) model.BlogPost {
	return model.BlogPost{
		Title:         strings.TrimSpace(r.FormValue("title")),
		Slug:          strings.TrimSpace(r.FormValue("slug")),
		Excerpt:       strings.TrimSpace(r.FormValue("excerpt")),
		Content:       r.FormValue("content"),
		ImageURL:      strings.TrimSpace(r.FormValue("image_url")),
		Author:        strings.TrimSpace(r.FormValue("author")),
		Category:      strings.TrimSpace(r.FormValue("category")),
		Tags:          splitList(r.FormValue("tags")),
		AffiliateLink: strings.TrimSpace(r.FormValue("affiliate_link")),
		Status:        r.FormValue("status"),
	}
}
