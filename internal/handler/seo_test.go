// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/konkandarshan/konkan/internal/model"
)

func TestSitemap_ListsPublishedOnly(t *testing.T) {
	db := testDB(t)
	insertBlogPost(t, db, "Tarkarli Guide", "tarkarli-guide", model.PostStatusPublished)
	insertBlogPost(t, db, "Unfinished Draft", "unfinished-draft", model.PostStatusDraft)

	h := NewSEOHandler(db, "https://konkandarshan.in", false)

	w := httptest.NewRecorder()
	h.Sitemap(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get(HeaderContentType), "application/xml")

	body := w.Body.String()
	assert.Contains(t, body, "https://konkandarshan.in/blog/tarkarli-guide")
	assert.NotContains(t, body, "unfinished-draft")
	assert.Contains(t, body, "https://konkandarshan.in/hotels")
}

func TestRobots_Production(t *testing.T) {
	db := testDB(t)
	h := NewSEOHandler(db, "https://konkandarshan.in", false)

	w := httptest.NewRecorder()
	h.Robots(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Disallow: /admin")
	assert.Contains(t, body, "Sitemap: https://konkandarshan.in/sitemap.xml")
}

func TestRobots_DevBlocksCrawlers(t *testing.T) {
	db := testDB(t)
	h := NewSEOHandler(db, "http://localhost:8080", true)

	w := httptest.NewRecorder()
	h.Robots(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	assert.Contains(t, w.Body.String(), "Disallow: /\n")
	assert.NotContains(t, w.Body.String(), "Sitemap:")
}
