// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/konkandarshan/konkan/internal/cache"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
	"github.com/konkandarshan/konkan/internal/util"
)

// HotelHandler handles admin hotel listing management.
type HotelHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	cacheManager *cache.Manager
}

// NewHotelHandler creates a new HotelHandler.
func NewHotelHandler(db *sql.DB, renderer *render.Renderer, cm *cache.Manager) *HotelHandler {
	return &HotelHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		cacheManager: cm,
	}
}

// hotelListData is the admin hotel list page payload.
type hotelListData struct {
	Hotels     []model.Hotel
	Pagination Pagination
}

// List renders the admin hotel list, active and inactive alike.
func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)
	offset := int64((page - 1) * adminPerPage)

	hotels, total, err := ListAndCount(
		func() ([]model.Hotel, error) {
			return h.queries.ListHotels(r.Context(), adminPerPage, offset)
		},
		func() (int64, error) {
			return h.queries.CountHotels(r.Context())
		})
	if err != nil {
		logAndInternalError(w, "failed to list hotels", "error", err)
		return
	}

	data := hotelListData{
		Hotels:     hotels,
		Pagination: BuildPagination(page, int(total), adminPerPage, redirectAdminHotels, r.URL.Query()),
	}
	if err := h.renderer.Render(w, r, "admin/hotels", render.TemplateData{
		Title: "Hotels",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render hotel list", "error", err)
	}
}

// NewForm renders the hotel creation form.
func (h *HotelHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	form := newEntityForm(model.Hotel{
		Category: model.HotelCategoryHotel,
		Status:   model.HotelStatusActive,
	}, false)
	form.Extra["Categories"] = model.HotelCategories()
	renderEntityForm(w, r, h.renderer, "admin/hotel_form", "New Hotel", form)
}

// Create handles hotel creation.
func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminHotelsNew) {
		return
	}

	hotel := hotelFromForm(r)
	form := newEntityForm(hotel, false)
	form.Extra["Categories"] = model.HotelCategories()
	form.Errors = hotel.Validate()

	if hotel.Slug == "" {
		hotel.Slug = util.Slugify(hotel.Name)
		form.Record.Slug = hotel.Slug
	}
	if msg := ValidateSlugWithChecker(hotel.Slug, func() (int64, error) {
		return h.queries.CountHotelsBySlug(r.Context(), hotel.Slug, 0)
	}); msg != "" {
		form.Errors["slug"] = msg
	}

	if form.HasErrors() {
		renderEntityForm(w, r, h.renderer, "admin/hotel_form", "New Hotel", form)
		return
	}

	now := time.Now()
	created, err := h.queries.CreateHotel(r.Context(), store.CreateHotelParams{
		Name:          hotel.Name,
		Slug:          hotel.Slug,
		Description:   hotel.Description,
		Location:      hotel.Location,
		PricePerNight: hotel.PricePerNight,
		Rating:        hotel.Rating,
		Category:      hotel.Category,
		Amenities:     hotel.Amenities,
		ImageURL:      hotel.ImageURL,
		AffiliateLink: hotel.AffiliateLink,
		Status:        hotel.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create hotel", "error", err)
		return
	}

	h.cacheManager.InvalidateHotels(r.Context())
	_ = h.eventService.LogHotelEvent(r.Context(), model.EventLevelInfo, "Hotel created",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"hotel_id": created.ID, "name": created.Name})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminHotelsID, created.ID), "Hotel created")
}

// EditForm renders the hotel edit form.
func (h *HotelHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminHotels, "Invalid hotel ID")
		return
	}

	hotel, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminHotels, "hotel", id,
		func(id int64) (model.Hotel, error) { return h.queries.GetHotelByID(r.Context(), id) })
	if !ok {
		return
	}

	form := newEntityForm(hotel, true)
	form.Extra["Categories"] = model.HotelCategories()
	renderEntityForm(w, r, h.renderer, "admin/hotel_form", "Edit Hotel", form)
}

// Update handles hotel updates.
func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminHotels, "Invalid hotel ID")
		return
	}

	current, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminHotels, "hotel", id,
		func(id int64) (model.Hotel, error) { return h.queries.GetHotelByID(r.Context(), id) })
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, fmt.Sprintf(redirectAdminHotelsID, id)) {
		return
	}

	hotel := hotelFromForm(r)
	hotel.ID = id
	form := newEntityForm(hotel, true)
	form.Extra["Categories"] = model.HotelCategories()
	form.Errors = hotel.Validate()

	if hotel.Slug == "" {
		hotel.Slug = util.Slugify(hotel.Name)
		form.Record.Slug = hotel.Slug
	}
	if msg := ValidateSlugForUpdate(hotel.Slug, current.Slug, func() (int64, error) {
		return h.queries.CountHotelsBySlug(r.Context(), hotel.Slug, id)
	}); msg != "" {
		form.Errors["slug"] = msg
	}

	if form.HasErrors() {
		renderEntityForm(w, r, h.renderer, "admin/hotel_form", "Edit Hotel", form)
		return
	}

	updated, err := h.queries.UpdateHotel(r.Context(), store.UpdateHotelParams{
		ID:            id,
		Name:          hotel.Name,
		Slug:          hotel.Slug,
		Description:   hotel.Description,
		Location:      hotel.Location,
		PricePerNight: hotel.PricePerNight,
		Rating:        hotel.Rating,
		Category:      hotel.Category,
		Amenities:     hotel.Amenities,
		ImageURL:      hotel.ImageURL,
		AffiliateLink: hotel.AffiliateLink,
		Status:        hotel.Status,
		UpdatedAt:     time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to update hotel", "error", err, "hotel_id", id)
		return
	}

	h.cacheManager.InvalidateHotels(r.Context())
	_ = h.eventService.LogHotelEvent(r.Context(), model.EventLevelInfo, "Hotel updated",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"hotel_id": updated.ID, "name": updated.Name})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminHotelsID, id), "Hotel updated")
}

// Delete handles hotel deletion.
func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminHotels, "Invalid hotel ID")
		return
	}

	hotel, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminHotels, "hotel", id,
		func(id int64) (model.Hotel, error) { return h.queries.GetHotelByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteHotel(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete hotel", "error", err, "hotel_id", id)
		return
	}

	h.cacheManager.InvalidateHotels(r.Context())
	_ = h.eventService.LogHotelEvent(r.Context(), model.EventLevelInfo, "Hotel deleted",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"hotel_id": id, "name": hotel.Name})

	flashSuccess(w, r, h.renderer, redirectAdminHotels, "Hotel deleted")
}

// hotelFromForm builds a Hotel from submitted form values.
func hotelFromForm(r *http.Request) model.Hotel {
	return model.Hotel{
		Name:          strings.TrimSpace(r.FormValue("name")),
		Slug:          strings.TrimSpace(r.FormValue("slug")),
		Description:   r.FormValue("description"),
		Location:      strings.TrimSpace(r.FormValue("location")),
		PricePerNight: formFloat(r, "price_per_night"),
		Rating:        formFloat(r, "rating"),
		Category:      r.FormValue("category"),
		Amenities:     splitList(r.FormValue("amenities")),
		ImageURL:      strings.TrimSpace(r.FormValue("image_url")),
		AffiliateLink: strings.TrimSpace(r.FormValue("affiliate_link")),
		Status:        r.FormValue("status"),
	}
}
