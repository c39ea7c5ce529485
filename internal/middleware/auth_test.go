// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/store"
)

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		user := GetUser(req)
		if user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{
			ID:    123,
			Email: "test@example.com",
			Role:  model.RoleAdmin,
			Name:  "Test User",
		}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.ID != 123 {
			t.Errorf("GetUser().ID = %d, want 123", user.ID)
		}
		if user.Email != "test@example.com" {
			t.Errorf("GetUser().Email = %q, want %q", user.Email, "test@example.com")
		}
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		id := GetUserID(req)
		if id != 0 {
			t.Errorf("GetUserID() = %d, want 0", id)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{ID: 456}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		id := GetUserID(req)
		if id != 456 {
			t.Errorf("GetUserID() = %d, want 456", id)
		}
	})
}

func TestGetUserIDPtr(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		idPtr := GetUserIDPtr(req)
		if idPtr != nil {
			t.Errorf("GetUserIDPtr() = %v, want nil", idPtr)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{ID: 789}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		idPtr := GetUserIDPtr(req)
		if idPtr == nil {
			t.Fatal("GetUserIDPtr() = nil, want pointer")
		}
		if *idPtr != 789 {
			t.Errorf("*GetUserIDPtr() = %d, want 789", *idPtr)
		}
	})
}

func TestGetUserEmail(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		email := GetUserEmail(req)
		if email != "" {
			t.Errorf("GetUserEmail() = %q, want empty", email)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{Email: "user@example.com"}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		email := GetUserEmail(req)
		if email != "user@example.com" {
			t.Errorf("GetUserEmail() = %q, want %q", email, "user@example.com")
		}
	})
}

func TestRequestPath(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := GetRequestPath(r.Context())
		_, _ = w.Write([]byte(path))
	})

	wrapped := RequestPath(handler)

	req := httptest.NewRequest(http.MethodGet, "/admin/blogs", nil)
	rr := httptest.NewRecorder()

	wrapped.ServeHTTP(rr, req)

	if body := rr.Body.String(); body != "/admin/blogs" {
		t.Errorf("GetRequestPath() = %q, want %q", body, "/admin/blogs")
	}
}

func TestGetRequestPath(t *testing.T) {
	t.Run("no path in context", func(t *testing.T) {
		ctx := context.Background()
		path := GetRequestPath(ctx)
		if path != "" {
			t.Errorf("GetRequestPath() = %q, want empty", path)
		}
	})

	t.Run("path in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ContextKeyRequestPath, "/test/path")
		path := GetRequestPath(ctx)
		if path != "/test/path" {
			t.Errorf("GetRequestPath() = %q, want %q", path, "/test/path")
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		user           *model.User
		expectStatus   int
		expectRedirect bool
	}{
		{"admin allowed", &model.User{ID: 1, Role: model.RoleAdmin}, http.StatusOK, false},
		{"regular user forbidden", &model.User{ID: 2, Role: model.RoleUser}, http.StatusForbidden, false},
		{"unknown role forbidden", &model.User{ID: 3, Role: "superuser"}, http.StatusForbidden, false},
		{"anonymous redirected", nil, http.StatusSeeOther, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), ContextKeyUser, *tt.user)
				req = req.WithContext(ctx)
			}

			rr := httptest.NewRecorder()
			RequireAdmin()(handler).ServeHTTP(rr, req)

			if rr.Code != tt.expectStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectStatus)
			}
			if tt.expectRedirect {
				if loc := rr.Header().Get("Location"); loc != "/signin" {
					t.Errorf("Location = %q, want /signin", loc)
				}
			}
		})
	}
}

func setupPolicyTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			last_login_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		t.Fatalf("failed to create users table: %v", err)
	}
	return db
}

func TestApplyAdminPolicy(t *testing.T) {
	db := setupPolicyTestDB(t)
	queries := store.New(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO users (id, email, password_hash, role) VALUES (1, 'boss@example.com', 'x', 'user')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err = db.Exec(`INSERT INTO users (id, email, password_hash, role) VALUES (2, 'visitor@example.com', 'x', 'admin')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	allowList := func(email string) bool {
		return strings.EqualFold(email, "boss@example.com")
	}

	t.Run("listed email is promoted and healed", func(t *testing.T) {
		user, err := queries.GetUserByID(ctx, 1)
		if err != nil {
			t.Fatalf("GetUserByID: %v", err)
		}

		got := applyAdminPolicy(ctx, queries, user, allowList)
		if got.Role != model.RoleAdmin {
			t.Errorf("role = %q, want admin", got.Role)
		}

		var stored string
		if err := db.QueryRow(`SELECT role FROM users WHERE id = 1`).Scan(&stored); err != nil {
			t.Fatalf("read stored role: %v", err)
		}
		if stored != model.RoleAdmin {
			t.Errorf("stored role = %q, want admin", stored)
		}
	})

	t.Run("unlisted email is demoted despite stored role", func(t *testing.T) {
		user, err := queries.GetUserByID(ctx, 2)
		if err != nil {
			t.Fatalf("GetUserByID: %v", err)
		}

		got := applyAdminPolicy(ctx, queries, user, allowList)
		if got.Role != model.RoleUser {
			t.Errorf("role = %q, want user", got.Role)
		}

		var stored string
		if err := db.QueryRow(`SELECT role FROM users WHERE id = 2`).Scan(&stored); err != nil {
			t.Fatalf("read stored role: %v", err)
		}
		if stored != model.RoleUser {
			t.Errorf("stored role = %q, want user", stored)
		}
	})

	t.Run("nil policy leaves role alone", func(t *testing.T) {
		user := model.User{ID: 9, Email: "x@example.com", Role: model.RoleAdmin}
		got := applyAdminPolicy(ctx, queries, user, nil)
		if got.Role != model.RoleAdmin {
			t.Errorf("role = %q, want admin", got.Role)
		}
	})
}
