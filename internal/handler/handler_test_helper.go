// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/konkandarshan/konkan/internal/auth"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
)

// testDB creates an in-memory SQLite database with the full schema for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			last_login_at TIMESTAMP
		);

		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);

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

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			category TEXT NOT NULL,
			message TEXT NOT NULL,
			user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			ip_address TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE media (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			key TEXT NOT NULL UNIQUE,
			filename TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			size INTEGER NOT NULL,
			width INTEGER,
			height INTEGER,
			alt TEXT NOT NULL DEFAULT '',
			uploaded_by INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE media_variants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			media_id INTEGER NOT NULL REFERENCES media(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			size INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (media_id, type)
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

// testSessionManager creates a session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testTemplatesFS builds a minimal template tree covering every page the
// handlers render. Pages only emit the title; the tests assert behavior,
// not markup.
func testTemplatesFS() fstest.MapFS {
	fsys := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{block "content" .}}{{end}}{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "admin_nav"}}{{end}}`),
		},
	}

	pages := []string{
		"public/home", "public/blog", "public/blog_post", "public/hotels", "public/hotel",
		"public/products", "public/404",
		"auth/signin", "auth/signup",
		"admin/dashboard", "admin/blogs", "admin/blog_form",
		"admin/hotels", "admin/hotel_form", "admin/products", "admin/product_form",
		"admin/social", "admin/media", "admin/users", "admin/user_form",
		"admin/events", "admin/cache", "admin/jobs",
	}
	for _, page := range pages {
		fsys[page+".html"] = &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{.Title}}{{end}}`),
		}
	}

	return fsys
}

// testRenderer creates a renderer over the minimal template tree.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	r, err := render.New(render.Config{
		TemplatesFS:    testTemplatesFS(),
		SessionManager: sm,
		SiteName:       "Konkan Darshan",
	})
	if err != nil {
		t.Fatalf("failed to create test renderer: %v", err)
	}
	return r
}

// testUser is a test user fixture.
type testUser struct {
	ID       int64
	Email    string
	Name     string
	Role     string
	Password string
}

// createTestUser creates a test user with a real password hash.
func createTestUser(t *testing.T, db *sql.DB, user testUser) model.User {
	t.Helper()

	if user.Password == "" {
		user.Password = "password123"
	}
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now()
	result, err := db.Exec(
		`INSERT INTO users (email, password_hash, role, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.Email, hash, user.Role, user.Name, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.User{
		ID:        id,
		Email:     user.Email,
		Role:      user.Role,
		Name:      user.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// insertBlogPost inserts a blog post row and returns its ID.
func insertBlogPost(t *testing.T, db *sql.DB, title, slug, status string) int64 {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(`
		INSERT INTO blog_posts (title, slug, excerpt, content, author, status, created_at, updated_at)
		VALUES (?, ?, 'An excerpt', 'Some content', 'Asha Naik', ?, ?, ?)`,
		title, slug, status, now, now,
	)
	if err != nil {
		t.Fatalf("failed to insert blog post: %v", err)
	}

	id, _ := result.LastInsertId()
	return id
}

// insertHotel inserts a hotel row and returns its ID.
func insertHotel(t *testing.T, db *sql.DB, name, slug, category string, price float64, status string) int64 {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(`
		INSERT INTO hotels (name, slug, location, price_per_night, category, status, created_at, updated_at)
		VALUES (?, ?, 'Malvan', ?, ?, ?, ?, ?)`,
		name, slug, price, category, status, now, now,
	)
	if err != nil {
		t.Fatalf("failed to insert hotel: %v", err)
	}

	id, _ := result.LastInsertId()
	return id
}

// insertProduct inserts a product row and returns its ID.
func insertProduct(t *testing.T, db *sql.DB, name, slug, availability string) int64 {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(`
		INSERT INTO products (product_name, slug, price, availability_status, created_at, updated_at)
		VALUES (?, ?, 250, ?, ?, ?)`,
		name, slug, availability, now, now,
	)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
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

// requestWithSession wraps a request with session context.
func requestWithSession(t *testing.T, sm *scs.SessionManager, r *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return r.WithContext(ctx)
}

// newFormRequest creates a POST request with form-encoded values and a
// session context.
func newFormRequest(t *testing.T, sm *scs.SessionManager, path string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return requestWithSession(t, sm, req)
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}
