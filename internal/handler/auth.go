// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/konkandarshan/konkan/internal/auth"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
)

// SessionKeyUserID is the session key for storing the authenticated user ID.
const SessionKeyUserID = middleware.SessionKeyUserID

// minPasswordLength is the minimum accepted sign-up password length.
const minPasswordLength = 8

// AuthHandler handles sign-in, sign-up and sign-out routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	isAdmin         middleware.AdminPolicy
}

// NewAuthHandler creates a new AuthHandler. isAdmin decides which
// emails resolve to the admin role, on sign-up and on every session
// load; it is never influenced by client input.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, isAdmin middleware.AdminPolicy) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		isAdmin:         isAdmin,
	}
}

// SigninForm renders the sign-in page.
// Redirects already-authenticated users: admin goes to the dashboard,
// everyone else to the homepage.
func (h *AuthHandler) SigninForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID); userID > 0 {
		user, err := h.queries.GetUserByID(r.Context(), userID)
		if err == nil {
			if user.IsAdmin() || h.isAdminEmail(user.Email) {
				http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
			return
		}
	}

	if err := h.renderer.Render(w, r, "auth/signin", render.TemplateData{
		Title: "Sign In",
	}); err != nil {
		logAndInternalError(w, "failed to render signin page", "error", err)
	}
}

// Signin handles the sign-in form submission.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSignin) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectSignin, "Email and password are required")
		return
	}

	clientIP := middleware.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Sign-in attempt on locked account", nil, clientIP, map[string]any{"email": email})
			flashError(w, r, h.renderer, redirectSignin, "Account temporarily locked. Try again in "+formatDuration(remaining))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("sign-in attempt for unknown user", "email", email)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Sign-in failed: user not found", nil, clientIP, map[string]any{"email": email})
		} else {
			slog.Error("database error during sign-in", "error", err)
		}
		// Record failed attempt even for unknown users to prevent enumeration
		h.failedSignin(w, r, email, nil, clientIP)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectSignin, "Invalid email or password")
		return
	}
	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Sign-in failed: invalid password", &user.ID, clientIP, map[string]any{"email": email})
		h.failedSignin(w, r, email, &user.ID, clientIP)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Re-hash if the stored hash uses outdated parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash, time.Now()); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		// Don't block sign-in on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), SessionKeyUserID, user.ID)

	slog.Info("user signed in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User signed in", &user.ID, clientIP, map[string]any{"email": user.Email})

	h.renderer.SetFlash(r, "Welcome back, "+user.Name, "success")

	if user.IsAdmin() || h.isAdminEmail(user.Email) {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// failedSignin records a failed attempt and redirects with a message
// that does not reveal whether the account exists.
func (h *AuthHandler) failedSignin(w http.ResponseWriter, r *http.Request, email string, userID *int64, clientIP string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked after failed attempts", userID, clientIP, map[string]any{"email": email, "duration": lockDuration.String()})
			flashError(w, r, h.renderer, redirectSignin, "Too many failed attempts. Try again in "+formatDuration(lockDuration))
			return
		}
		remaining := h.loginProtection.GetRemainingAttempts(email)
		if remaining > 0 && remaining <= 3 {
			flashError(w, r, h.renderer, redirectSignin, fmt.Sprintf("Invalid email or password. %d attempts remaining", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectSignin, "Invalid email or password")
}

// SignupForm renders the sign-up page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID); userID > 0 {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/signup", render.TemplateData{
		Title: "Create Account",
	}); err != nil {
		logAndInternalError(w, "failed to render signup page", "error", err)
	}
}

// Signup handles account creation. New accounts get the user role
// unless the email is on the admin allow-list.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSignup) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	name := strings.TrimSpace(r.FormValue("name"))
	password := r.FormValue("password")

	if msg := validateSignup(email, name, password); msg != "" {
		flashError(w, r, h.renderer, redirectSignup, msg)
		return
	}

	if _, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
		flashError(w, r, h.renderer, redirectSignup, "An account with this email already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logAndInternalError(w, "database error during signup", "error", err)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	role := model.RoleUser
	if h.isAdminEmail(email) {
		role = model.RoleAdmin
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create user", "error", err, "email", email)
		return
	}

	clientIP := middleware.ClientIP(r)
	slog.Info("user signed up", "user_id", user.ID, "email", user.Email, "role", user.Role)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User account created", &user.ID, clientIP, map[string]any{"email": user.Email, "role": user.Role})

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), SessionKeyUserID, user.ID)

	h.renderer.SetFlash(r, "Welcome, "+user.Name, "success")
	if user.IsAdmin() {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// Signout handles user sign-out.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID)

	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User signed out", &userID, middleware.ClientIP(r), nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user signed out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, RouteRoot, "You have been signed out", "info")
}

// isAdminEmail applies the configured admin policy, treating a nil
// policy as "nobody".
func (h *AuthHandler) isAdminEmail(email string) bool {
	return h.isAdmin != nil && h.isAdmin(email)
}

// validateSignup checks sign-up input and returns an error message, or
// empty when valid.
func validateSignup(email, name, password string) string {
	if email == "" || name == "" || password == "" {
		return "Email, name and password are required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Invalid email address"
	}
	if len(password) < minPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	return ""
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
