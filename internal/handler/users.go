// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/konkandarshan/konkan/internal/auth"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
)

// UserHandler handles admin user management.
type UserHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	isAdmin      middleware.AdminPolicy
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *sql.DB, renderer *render.Renderer, isAdmin middleware.AdminPolicy) *UserHandler {
	return &UserHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		isAdmin:      isAdmin,
	}
}

// userListData is the admin user list page payload.
type userListData struct {
	Users      []model.User
	Pagination Pagination
}

// List renders the admin user list.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)
	offset := int64((page - 1) * adminPerPage)

	users, total, err := ListAndCount(
		func() ([]model.User, error) {
			return h.queries.ListUsers(r.Context(), adminPerPage, offset)
		},
		func() (int64, error) {
			return h.queries.CountUsers(r.Context())
		})
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	data := userListData{
		Users:      users,
		Pagination: BuildPagination(page, int(total), adminPerPage, redirectAdminUsers, r.URL.Query()),
	}
	if err := h.renderer.Render(w, r, "admin/users", render.TemplateData{
		Title: "Users",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render user list", "error", err)
	}
}

// NewForm renders the user creation form.
func (h *UserHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	form := newEntityForm(model.User{Role: model.RoleUser}, false)
	renderEntityForm(w, r, h.renderer, "admin/user_form", "New User", form)
}

// Create handles admin-side user creation. Allow-listed emails come out
// with the admin role no matter what the form says.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsersNew) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	name := strings.TrimSpace(r.FormValue("name"))
	password := r.FormValue("password")
	role := r.FormValue("role")

	form := newEntityForm(model.User{Email: email, Name: name, Role: role}, false)
	if email == "" {
		form.Errors["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		form.Errors["email"] = "Invalid email address"
	}
	if name == "" {
		form.Errors["name"] = "Name is required"
	}
	if len(password) < minPasswordLength {
		form.Errors["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	if !model.ValidRole(role) {
		form.Errors["role"] = "Invalid role"
	}

	if !form.HasErrors() {
		if _, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
			form.Errors["email"] = "An account with this email already exists"
		} else if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "database error checking email", "error", err)
			return
		}
	}

	if form.HasErrors() {
		renderEntityForm(w, r, h.renderer, "admin/user_form", "New User", form)
		return
	}

	if h.isAdmin != nil && h.isAdmin(email) {
		role = model.RoleAdmin
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	now := time.Now()
	created, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create user", "error", err)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "User created by admin",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"user_id": created.ID, "email": created.Email, "role": created.Role})

	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User created")
}

// EditForm renders the user edit form.
func (h *UserHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "user", id,
		func(id int64) (model.User, error) { return h.queries.GetUserByID(r.Context(), id) })
	if !ok {
		return
	}

	form := newEntityForm(user, true)
	renderEntityForm(w, r, h.renderer, "admin/user_form", "Edit User", form)
}

// Update handles user edits: name, role and optionally a new password.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return
	}

	current, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "user", id,
		func(id int64) (model.User, error) { return h.queries.GetUserByID(r.Context(), id) })
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, fmt.Sprintf(redirectAdminUsersID, id)) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	role := r.FormValue("role")
	password := r.FormValue("password")

	form := newEntityForm(current, true)
	form.Record.Name = name
	form.Record.Role = role
	if name == "" {
		form.Errors["name"] = "Name is required"
	}
	if !model.ValidRole(role) {
		form.Errors["role"] = "Invalid role"
	}
	if password != "" && len(password) < minPasswordLength {
		form.Errors["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}

	// Allow-listed emails cannot be demoted from the admin panel; the
	// policy would promote them right back on next sign-in.
	if h.isAdmin != nil && h.isAdmin(current.Email) && role != model.RoleAdmin {
		form.Errors["role"] = "This email is on the admin allow-list and keeps the admin role"
	}

	if form.HasErrors() {
		renderEntityForm(w, r, h.renderer, "admin/user_form", "Edit User", form)
		return
	}

	now := time.Now()
	if _, err := h.queries.UpdateUser(r.Context(), store.UpdateUserParams{
		ID:        id,
		Email:     current.Email,
		Name:      name,
		Role:      role,
		UpdatedAt: now,
	}); err != nil {
		logAndInternalError(w, "failed to update user", "error", err, "user_id", id)
		return
	}

	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			logAndInternalError(w, "failed to hash password", "error", err)
			return
		}
		if err := h.queries.UpdateUserPassword(r.Context(), id, hash, now); err != nil {
			logAndInternalError(w, "failed to update password", "error", err, "user_id", id)
			return
		}
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "User updated",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"user_id": id, "role": role, "password_changed": password != ""})

	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User updated")
}

// Delete removes a user account. Self-deletion is rejected.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return
	}

	if id == middleware.GetUserID(r) {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot delete your own account")
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "user", id,
		func(id int64) (model.User, error) { return h.queries.GetUserByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete user", "error", err, "user_id", id)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "User deleted",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"user_id": id, "email": user.Email})

	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User deleted")
}
