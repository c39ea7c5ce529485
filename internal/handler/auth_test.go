// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
)

func allowListPolicy(emails ...string) middleware.AdminPolicy {
	return func(email string) bool {
		for _, e := range emails {
			if strings.EqualFold(e, email) {
				return true
			}
		}
		return false
	}
}

func testAuthHandler(t *testing.T, db *sql.DB, sm *scs.SessionManager, isAdmin middleware.AdminPolicy) *AuthHandler {
	t.Helper()
	return NewAuthHandler(db, testRenderer(t, sm), sm, nil, isAdmin)
}

func TestSignup_DefaultRoleIsUser(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := testAuthHandler(t, db, sm, allowListPolicy("admin@konkandarshan.in"))

	form := url.Values{}
	form.Set("email", "visitor@example.com")
	form.Set("name", "Visitor")
	form.Set("password", "longenough1")

	w := httptest.NewRecorder()
	h.Signup(w, newFormRequest(t, sm, "/auth/signup", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var role string
	err := db.QueryRow(`SELECT role FROM users WHERE email = 'visitor@example.com'`).Scan(&role)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, role)
}

func TestSignup_AllowListedEmailBecomesAdmin(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := testAuthHandler(t, db, sm, allowListPolicy("admin@konkandarshan.in"))

	form := url.Values{}
	form.Set("email", "Admin@KonkanDarshan.in")
	form.Set("name", "Site Admin")
	form.Set("password", "longenough1")

	w := httptest.NewRecorder()
	h.Signup(w, newFormRequest(t, sm, "/auth/signup", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	var role string
	err := db.QueryRow(`SELECT role FROM users WHERE email = 'admin@konkandarshan.in'`).Scan(&role)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := testAuthHandler(t, db, sm, nil)

	form := url.Values{}
	form.Set("email", "visitor@example.com")
	form.Set("name", "Visitor")
	form.Set("password", "short")

	w := httptest.NewRecorder()
	h.Signup(w, newFormRequest(t, sm, "/auth/signup", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, redirectSignup, w.Header().Get("Location"))

	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := testAuthHandler(t, db, sm, nil)

	createTestUser(t, db, testUser{Email: "visitor@example.com", Name: "Visitor", Role: model.RoleUser})

	form := url.Values{}
	form.Set("email", "visitor@example.com")
	form.Set("name", "Visitor Again")
	form.Set("password", "longenough1")

	w := httptest.NewRecorder()
	h.Signup(w, newFormRequest(t, sm, "/auth/signup", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, redirectSignup, w.Header().Get("Location"))
}

func TestSignin_Valid(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := testAuthHandler(t, db, sm, nil)

	createTestUser(t, db, testUser{Email: "visitor@example.com", Name: "Visitor", Role: model.RoleUser, Password: "correct-horse1"})

	form := url.Values{}
	form.Set("email", "visitor@example.com")
	form.Set("password", "correct-horse1")

	w := httptest.NewRecorder()
	h.Signin(w, newFormRequest(t, sm, "/auth/signin", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSignin_AdminRedirectsToDashboard(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := testAuthHandler(t, db, sm, nil)

	createTestUser(t, db, testUser{Email: "admin@konkandarshan.in", Name: "Admin", Role: model.RoleAdmin, Password: "correct-horse1"})

	form := url.Values{}
	form.Set("email", "admin@konkandarshan.in")
	form.Set("password", "correct-horse1")

	w := httptest.NewRecorder()
	h.Signin(w, newFormRequest(t, sm, "/auth/signin", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestSignin_WrongPassword(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := testAuthHandler(t, db, sm, nil)

	createTestUser(t, db, testUser{Email: "visitor@example.com", Name: "Visitor", Role: model.RoleUser, Password: "correct-horse1"})

	form := url.Values{}
	form.Set("email", "visitor@example.com")
	form.Set("password", "wrong-password")

	w := httptest.NewRecorder()
	h.Signin(w, newFormRequest(t, sm, "/auth/signin", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, redirectSignin, w.Header().Get("Location"))
}

func TestSignin_UnknownUserSameResponse(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := testAuthHandler(t, db, sm, nil)

	form := url.Values{}
	form.Set("email", "nobody@example.com")
	form.Set("password", "whatever123")

	w := httptest.NewRecorder()
	h.Signin(w, newFormRequest(t, sm, "/auth/signin", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, redirectSignin, w.Header().Get("Location"))
}
