// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/render"
)

// entityForm is the shared shape for admin create and edit pages.
// The same value renders the blank form, the pre-filled edit form and
// the re-rendered form after a failed submission, so templates never
// distinguish between the three cases.
type entityForm[T any] struct {
	Record T
	Errors map[string]string
	IsEdit bool
	// Extra carries per-entity option data such as category lists.
	Extra map[string]any
}

// newEntityForm builds form state for a record, typically the zero
// value on create pages or the stored row on edit pages.
func newEntityForm[T any](record T, isEdit bool) entityForm[T] {
	return entityForm[T]{
		Record: record,
		Errors: make(map[string]string),
		IsEdit: isEdit,
		Extra:  make(map[string]any),
	}
}

// HasErrors reports whether the form failed validation.
func (f entityForm[T]) HasErrors() bool {
	return len(f.Errors) > 0
}

// renderEntityForm renders an admin form template with the form state
// and the signed-in user.
func renderEntityForm[T any](w http.ResponseWriter, r *http.Request, renderer *render.Renderer, tmpl, title string, form entityForm[T]) {
	err := renderer.Render(w, r, tmpl, render.TemplateData{
		Title:  title,
		User:   middleware.GetUser(r),
		Data:   form,
		Errors: form.Errors,
	})
	if err != nil {
		logAndInternalError(w, "failed to render form", "error", err, "template", tmpl)
	}
}
