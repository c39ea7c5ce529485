// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/store"
)

// HotelHandler serves the public hotel catalog API.
type HotelHandler struct {
	queries *store.Queries
}

// NewHotelHandler creates a new hotel API handler.
func NewHotelHandler(db *sql.DB) *HotelHandler {
	return &HotelHandler{queries: store.New(db)}
}

// List handles GET /api/v1/hotels. Filters combine: every filter that is
// set must match. Only active hotels are returned.
func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, offset := pagination(r)
	q := r.URL.Query()

	filter := model.HotelFilter{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Limit:    perPage,
		Offset:   offset,
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil && v > 0 {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil && v > 0 {
		filter.MaxPrice = v
	}

	hotels, err := h.queries.FilterHotels(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list hotels", "error", err)
		WriteInternalError(w, "Failed to retrieve hotels")
		return
	}

	total, err := h.queries.CountFilteredHotels(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to count hotels", "error", err)
		WriteInternalError(w, "Failed to retrieve hotels")
		return
	}

	WriteSuccess(w, hotels, &Meta{
		Total:   total,
		Page:    page,
		PerPage: int(perPage),
		Pages:   pages(total, perPage),
	})
}

// Get handles GET /api/v1/hotels/{id}.
func (h *HotelHandler) Get(w http.ResponseWriter, r *http.Request) {
	hotel, ok := requireEntityByID(w, r, "hotel", func(id int64) (model.Hotel, error) {
		return h.queries.GetHotelByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if hotel.Status != model.HotelStatusActive {
		WriteNotFound(w, "Hotel not found")
		return
	}

	WriteSuccess(w, hotel, nil)
}
