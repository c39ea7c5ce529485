// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/konkandarshan/konkan/internal/cache"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
)

// Public page sizes.
const (
	homePostCount    = 3
	homeHotelCount   = 4
	homeProductCount = 4
	blogPerPage      = 9
	hotelsPerPage    = 12
	productsPerPage  = 12
)

// FrontendHandler handles the public site pages.
type FrontendHandler struct {
	queries       *store.Queries
	renderer      *render.Renderer
	cacheManager  *cache.Manager
	viewService   *service.ViewService
	searchService *service.SearchService
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, cm *cache.Manager, views *service.ViewService, search *service.SearchService) *FrontendHandler {
	return &FrontendHandler{
		queries:       store.New(db),
		renderer:      renderer,
		cacheManager:  cm,
		viewService:   views,
		searchService: search,
	}
}

// homeData is the homepage payload.
type homeData struct {
	Posts    []model.BlogPost
	Hotels   []model.Hotel
	Products []model.Product
	Social   model.SocialSettings
}

// Home renders the homepage: latest published posts, featured stays and
// products, and the social section headers.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.cacheManager.Blogs.GetOrSet(ctx, cache.QueryKey("published", homePostCount, 0),
		func() (*[]model.BlogPost, error) {
			list, err := h.queries.ListPublishedBlogPosts(ctx, homePostCount, 0)
			return &list, err
		})
	if err != nil {
		logAndInternalError(w, "failed to load homepage posts", "error", err)
		return
	}

	hotels, err := h.cacheManager.Hotels.GetOrSet(ctx, cache.QueryKey("active", homeHotelCount, 0),
		func() (*[]model.Hotel, error) {
			list, err := h.queries.ListActiveHotels(ctx, homeHotelCount, 0)
			return &list, err
		})
	if err != nil {
		logAndInternalError(w, "failed to load homepage hotels", "error", err)
		return
	}

	products, err := h.cacheManager.Products.GetOrSet(ctx, cache.QueryKey("in_stock", homeProductCount, 0),
		func() (*[]model.Product, error) {
			list, err := h.queries.ListInStockProducts(ctx, homeProductCount, 0)
			return &list, err
		})
	if err != nil {
		logAndInternalError(w, "failed to load homepage products", "error", err)
		return
	}

	social, err := h.socialSettings(r)
	if err != nil {
		logAndInternalError(w, "failed to load social settings", "error", err)
		return
	}

	data := homeData{
		Posts:    *posts,
		Hotels:   *hotels,
		Products: *products,
		Social:   social,
	}
	if err := h.renderer.Render(w, r, "public/home", render.TemplateData{
		Title: "Home",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render homepage", "error", err)
	}
}

// blogIndexData is the public blog list payload.
type blogIndexData struct {
	Posts      []model.BlogPost
	Results    []service.SearchResult
	Query      string
	Pagination Pagination
}

// BlogIndex renders the public blog list. Only published posts appear;
// ?q= switches to full-text search over published posts.
func (h *FrontendHandler) BlogIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := parsePageParam(r)
	offset := int64((page - 1) * blogPerPage)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	data := blogIndexData{Query: query}

	if query != "" {
		results, total, err := h.searchService.SearchPublishedPosts(ctx, service.SearchParams{
			Query:  query,
			Limit:  blogPerPage,
			Offset: int(offset),
		})
		if err != nil {
			logAndInternalError(w, "blog search failed", "error", err, "query", query)
			return
		}
		data.Results = results
		data.Pagination = BuildPagination(page, int(total), blogPerPage, RouteBlog, r.URL.Query())
	} else {
		posts, err := h.cacheManager.Blogs.GetOrSet(ctx, cache.QueryKey("published", blogPerPage, offset),
			func() (*[]model.BlogPost, error) {
				list, err := h.queries.ListPublishedBlogPosts(ctx, blogPerPage, offset)
				return &list, err
			})
		if err != nil {
			logAndInternalError(w, "failed to list published posts", "error", err)
			return
		}
		total, err := h.queries.CountPublishedBlogPosts(ctx)
		if err != nil {
			logAndInternalError(w, "failed to count published posts", "error", err)
			return
		}
		data.Posts = *posts
		data.Pagination = BuildPagination(page, int(total), blogPerPage, RouteBlog, r.URL.Query())
	}

	if err := h.renderer.Render(w, r, "public/blog", render.TemplateData{
		Title: "Blog",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render blog list", "error", err)
	}
}

// blogPostData is the public blog detail payload.
type blogPostData struct {
	Post    model.BlogPost
	Related []model.BlogPost
}

// BlogPost renders a single published post and records the view.
// Drafts return 404 regardless of who asks.
func (h *FrontendHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.queries.GetBlogPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load blog post", "error", err, "slug", slug)
		return
	}
	if !post.IsPublished() {
		h.NotFound(w, r)
		return
	}

	// Recording the view must not break the page
	if err := h.viewService.TrackView(r.Context(), post.ID, service.VisitInfo{
		UserAgent: r.UserAgent(),
		IP:        middleware.ClientIP(r),
	}); err != nil {
		slog.Error("failed to track view", "error", err, "blog_id", post.ID)
	} else {
		post.Views++
	}

	related, err := h.queries.ListPublishedBlogPosts(r.Context(), homePostCount+1, 0)
	if err != nil {
		slog.Error("failed to load related posts", "error", err)
	}
	filtered := related[:0]
	for _, p := range related {
		if p.ID != post.ID && len(filtered) < homePostCount {
			filtered = append(filtered, p)
		}
	}

	if err := h.renderer.Render(w, r, "public/blog_post", render.TemplateData{
		Title: post.Title,
		User:  middleware.GetUser(r),
		Data:  blogPostData{Post: post, Related: filtered},
	}); err != nil {
		logAndInternalError(w, "failed to render blog post", "error", err, "slug", slug)
	}
}

// hotelsData is the public hotels page payload.
type hotelsData struct {
	Hotels     []model.Hotel
	Filter     model.HotelFilter
	Categories []string
}

// Hotels renders the public hotel listing with optional search,
// category and price range filters. All set filters combine with AND.
func (h *FrontendHandler) Hotels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	page := parsePageParam(r)

	filter := model.HotelFilter{
		Search:   strings.TrimSpace(q.Get("q")),
		Category: q.Get("category"),
		MinPrice: parseQueryFloat(q.Get("min_price")),
		MaxPrice: parseQueryFloat(q.Get("max_price")),
		Limit:    hotelsPerPage,
		Offset:   int64((page - 1) * hotelsPerPage),
	}
	if filter.Category != "" && !model.ValidHotelCategory(filter.Category) {
		filter.Category = ""
	}

	key := cache.QueryKey("filter", filter.Search, filter.Category,
		filter.MinPrice, filter.MaxPrice, filter.Limit, filter.Offset)
	hotels, err := h.cacheManager.Hotels.GetOrSet(ctx, key,
		func() (*[]model.Hotel, error) {
			list, err := h.queries.FilterHotels(ctx, filter)
			return &list, err
		})
	if err != nil {
		logAndInternalError(w, "failed to filter hotels", "error", err)
		return
	}

	data := hotelsData{
		Hotels:     *hotels,
		Filter:     filter,
		Categories: model.HotelCategories(),
	}
	if err := h.renderer.Render(w, r, "public/hotels", render.TemplateData{
		Title: "Hotels & Homestays",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render hotels page", "error", err)
	}
}

// hotelData is the public hotel detail page payload.
type hotelData struct {
	Hotel model.Hotel
}

// HotelDetail renders a single hotel listing by slug. Inactive
// listings are hidden from the public site.
func (h *FrontendHandler) HotelDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	hotel, err := h.queries.GetHotelBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load hotel", "error", err, "slug", slug)
		return
	}
	if !hotel.IsActive() {
		h.NotFound(w, r)
		return
	}

	if err := h.renderer.Render(w, r, "public/hotel", render.TemplateData{
		Title: hotel.Name,
		User:  middleware.GetUser(r),
		Data:  hotelData{Hotel: hotel},
	}); err != nil {
		logAndInternalError(w, "failed to render hotel page", "error", err, "slug", slug)
	}
}

// productsData is the public products page payload.
type productsData struct {
	Products   []model.Product
	Pagination Pagination
}

// Products renders the public product catalog. Only in-stock products
// are shown.
func (h *FrontendHandler) Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := parsePageParam(r)
	offset := int64((page - 1) * productsPerPage)

	products, err := h.cacheManager.Products.GetOrSet(ctx, cache.QueryKey("in_stock", productsPerPage, offset),
		func() (*[]model.Product, error) {
			list, err := h.queries.ListInStockProducts(ctx, productsPerPage, offset)
			return &list, err
		})
	if err != nil {
		logAndInternalError(w, "failed to list products", "error", err)
		return
	}

	total, err := h.queries.CountInStockProducts(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count products", "error", err)
		return
	}

	data := productsData{
		Products:   *products,
		Pagination: BuildPagination(page, int(total), productsPerPage, RouteProducts, r.URL.Query()),
	}
	if err := h.renderer.Render(w, r, "public/products", render.TemplateData{
		Title: "Konkan Products",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render products page", "error", err)
	}
}

// NotFound renders the public 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "public/404", render.TemplateData{
		Title: "Page Not Found",
		User:  middleware.GetUser(r),
	}); err != nil {
		http.Error(w, "Page Not Found", http.StatusNotFound)
	}
}

// socialSettings loads the social settings through the cache.
func (h *FrontendHandler) socialSettings(r *http.Request) (model.SocialSettings, error) {
	settings, err := h.cacheManager.Social.GetOrSet(r.Context(), cache.QueryKey("settings"),
		func() (*model.SocialSettings, error) {
			s, err := h.queries.GetSocialSettings(r.Context())
			return &s, err
		})
	if err != nil {
		return model.SocialSettings{}, err
	}
	return *settings, nil
}

// parseQueryFloat parses a query parameter as float64, 0 when absent or
// malformed.
func parseQueryFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
