// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
)

// MediaPerPage is the number of media items to display per page.
const MediaPerPage = 24

// MediaHandler handles the admin media library.
type MediaHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	mediaService *service.MediaService
	eventService *service.EventService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(db *sql.DB, renderer *render.Renderer, uploadDir string) *MediaHandler {
	return &MediaHandler{
		queries:      store.New(db),
		renderer:     renderer,
		mediaService: service.NewMediaService(db, uploadDir),
		eventService: service.NewEventService(db),
	}
}

// mediaListItem pairs a media row with its thumbnail URL for display.
type mediaListItem struct {
	Media        model.Media
	ThumbnailURL string
}

// mediaListData is the media library page payload.
type mediaListData struct {
	Items      []mediaListItem
	Pagination Pagination
}

// List renders the media library grid.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)
	offset := int64((page - 1) * MediaPerPage)

	media, total, err := h.mediaService.List(r.Context(), MediaPerPage, offset)
	if err != nil {
		logAndInternalError(w, "failed to list media", "error", err)
		return
	}

	items := make([]mediaListItem, 0, len(media))
	for _, m := range media {
		items = append(items, mediaListItem{
			Media:        m,
			ThumbnailURL: h.mediaService.GetThumbnailURL(m),
		})
	}

	data := mediaListData{
		Items:      items,
		Pagination: BuildPagination(page, int(total), MediaPerPage, redirectAdminMedia, r.URL.Query()),
	}
	if err := h.renderer.Render(w, r, "admin/media", render.TemplateData{
		Title: "Media Library",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render media library", "error", err)
	}
}

// Upload handles an image upload from the media library form.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(model.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirectAdminMedia, "Upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminMedia, "No file selected")
		return
	}
	defer file.Close()

	// Reject oversized or non-image files before touching the disk
	if err := h.mediaService.ValidateUpload(header); err != nil {
		flashError(w, r, h.renderer, redirectAdminMedia, uploadErrorMessage(err))
		return
	}

	alt := strings.TrimSpace(r.FormValue("alt"))
	result, err := h.mediaService.Upload(r.Context(), file, header, middleware.GetUserID(r), alt)
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) || errors.Is(err, service.ErrUnsupportedType) {
			flashError(w, r, h.renderer, redirectAdminMedia, uploadErrorMessage(err))
			return
		}
		logAndInternalError(w, "failed to upload media", "error", err)
		return
	}

	_ = h.eventService.LogMediaEvent(r.Context(), model.EventLevelInfo, "Media uploaded",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"media_id": result.Media.ID, "filename": result.Media.Filename})

	flashSuccess(w, r, h.renderer, redirectAdminMedia, "Image uploaded")
}

// Delete removes a media item, its variants and its files.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminMedia, "Invalid media ID")
		return
	}

	if err := h.mediaService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			flashError(w, r, h.renderer, redirectAdminMedia, "Media not found")
			return
		}
		logAndInternalError(w, "failed to delete media", "error", err, "media_id", id)
		return
	}

	_ = h.eventService.LogMediaEvent(r.Context(), model.EventLevelInfo, "Media deleted",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"media_id": id})

	flashSuccess(w, r, h.renderer, redirectAdminMedia, "Media deleted")
}

// uploadErrorMessage maps upload validation errors to user-facing text.
func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		return fmt.Sprintf("File exceeds the %dMB upload limit", model.MaxUploadSize/(1024*1024))
	case errors.Is(err, service.ErrUnsupportedType):
		return "Only image files can be uploaded"
	default:
		return "Upload failed"
	}
}
