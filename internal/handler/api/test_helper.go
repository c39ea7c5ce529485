// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"
)

// testDB creates an in-memory SQLite database with catalog tables for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE blog_posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			excerpt TEXT NOT NULL,
			content TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			affiliate_link TEXT,
			status TEXT NOT NULL DEFAULT 'draft',
			views INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE hotels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL,
			price_per_night REAL NOT NULL,
			rating REAL NOT NULL DEFAULT 0,
			category TEXT NOT NULL,
			amenities TEXT NOT NULL DEFAULT '[]',
			image_url TEXT NOT NULL DEFAULT '',
			affiliate_link TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			short_description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL,
			sale_price REAL,
			sku TEXT NOT NULL DEFAULT '',
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			availability_status TEXT NOT NULL DEFAULT 'in_stock',
			product_type TEXT NOT NULL DEFAULT 'simple',
			featured_image_url TEXT NOT NULL DEFAULT '',
			gallery_images TEXT NOT NULL DEFAULT '[]',
			category TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE social_settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			instagram_enabled INTEGER NOT NULL DEFAULT 0,
			instagram_username TEXT NOT NULL DEFAULT '',
			instagram_user_id TEXT NOT NULL DEFAULT '',
			instagram_title TEXT NOT NULL DEFAULT 'Follow us on Instagram',
			youtube_enabled INTEGER NOT NULL DEFAULT 0,
			youtube_channel_id TEXT NOT NULL DEFAULT '',
			youtube_title TEXT NOT NULL DEFAULT 'Latest on YouTube',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE blog_post_views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blog_id INTEGER NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE,
			country TEXT NOT NULL DEFAULT '',
			browser TEXT NOT NULL DEFAULT '',
			platform TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// createTestPost inserts a blog post and returns its ID.
func createTestPost(t *testing.T, db *sql.DB, title, slug, status string) int64 {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(`
		INSERT INTO blog_posts (title, slug, excerpt, content, author, status, created_at, updated_at)
		VALUES (?, ?, 'An excerpt', 'Some content', 'Asha Naik', ?, ?, ?)`,
		title, slug, status, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}

	id, _ := result.LastInsertId()
	return id
}

// createTestHotel inserts a hotel listing and returns its ID.
func createTestHotel(t *testing.T, db *sql.DB, name, slug, category string, price float64, status string) int64 {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(`
		INSERT INTO hotels (name, slug, location, price_per_night, category, status, created_at, updated_at)
		VALUES (?, ?, 'Malvan', ?, ?, ?, ?, ?)`,
		name, slug, price, category, status, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test hotel: %v", err)
	}

	id, _ := result.LastInsertId()
	return id
}

// createTestProduct inserts a product and returns its ID.
func createTestProduct(t *testing.T, db *sql.DB, name, slug, availability string) int64 {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(`
		INSERT INTO products (product_name, slug, price, availability_status, created_at, updated_at)
		VALUES (?, ?, 499, ?, ?, ?)`,
		name, slug, availability, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}

	id, _ := result.LastInsertId()
	return id
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path string, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newGetRequest creates an HTTP GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// listResponse is a generic wrapper for API list responses with data and meta.
type listResponse[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta"`
}

// unmarshalData unmarshals a JSON response body into the specified type.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data
}

// unmarshalList unmarshals a JSON list response body into the specified type.
func unmarshalList[T any](t *testing.T, w *httptest.ResponseRecorder) ([]T, *Meta) {
	t.Helper()
	var resp listResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data, resp.Meta
}

// executeHandler executes a handler and returns the response recorder.
func executeHandler(t *testing.T, handler func(http.ResponseWriter, *http.Request), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}
