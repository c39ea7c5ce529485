// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/konkandarshan/konkan/internal/seo"
	"github.com/konkandarshan/konkan/internal/store"
)

// sitemapPostLimit bounds how many posts the sitemap lists.
const sitemapPostLimit = 1000

// SEOHandler serves the crawler-facing documents: sitemap.xml and
// robots.txt. On non-production environments robots.txt blocks all
// crawlers so staging sites stay out of search results.
type SEOHandler struct {
	queries *store.Queries
	siteURL string
	isDev   bool
}

// NewSEOHandler creates a new SEOHandler.
func NewSEOHandler(db *sql.DB, siteURL string, isDev bool) *SEOHandler {
	return &SEOHandler{
		queries: store.New(db),
		siteURL: strings.TrimSuffix(siteURL, "/"),
		isDev:   isDev,
	}
}

// Sitemap serves sitemap.xml listing the homepage, catalog sections and
// every published post.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPublishedBlogPosts(r.Context(), sitemapPostLimit, 0)
	if err != nil {
		slog.Error("failed to list posts for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	entries := make([]seo.SitemapPost, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, seo.SitemapPost{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}

	out, err := seo.GenerateSitemap(h.siteURL, entries)
	if err != nil {
		slog.Error("failed to build sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set(HeaderContentType, "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Robots serves robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	out := seo.GenerateRobots(h.siteURL, h.isDev)
	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}
