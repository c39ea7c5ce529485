// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func validHotel() Hotel {
	return Hotel{
		Name:          "Sagar Kinara Homestay",
		Location:      "Malvan",
		PricePerNight: 2500,
		Rating:        4.5,
		Category:      HotelCategoryHomestay,
		Status:        HotelStatusActive,
	}
}

func TestHotelValidate_Valid(t *testing.T) {
	h := validHotel()
	if errs := h.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestHotelValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Hotel)
		field string
	}{
		{"empty name", func(h *Hotel) { h.Name = "" }, "name"},
		{"empty location", func(h *Hotel) { h.Location = "" }, "location"},
		{"zero price", func(h *Hotel) { h.PricePerNight = 0 }, "price_per_night"},
		{"negative price", func(h *Hotel) { h.PricePerNight = -100 }, "price_per_night"},
		{"rating above 5", func(h *Hotel) { h.Rating = 5.1 }, "rating"},
		{"negative rating", func(h *Hotel) { h.Rating = -1 }, "rating"},
		{"bad category", func(h *Hotel) { h.Category = "hostel" }, "category"},
		{"bad status", func(h *Hotel) { h.Status = "hidden" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHotel()
			tt.mod(&h)
			errs := h.Validate()
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.field)
			}
		})
	}
}

func TestValidHotelCategory(t *testing.T) {
	for _, c := range HotelCategories() {
		if !ValidHotelCategory(c) {
			t.Errorf("ValidHotelCategory(%q) = false, want true", c)
		}
	}
	if ValidHotelCategory("hostel") {
		t.Error("ValidHotelCategory(hostel) = true, want false")
	}
	if ValidHotelCategory("") {
		t.Error("ValidHotelCategory(empty) = true, want false")
	}
}

func TestHotelIsActive(t *testing.T) {
	h := Hotel{Status: HotelStatusActive}
	if !h.IsActive() {
		t.Error("IsActive() = false for active listing")
	}
	h.Status = HotelStatusInactive
	if h.IsActive() {
		t.Error("IsActive() = true for inactive listing")
	}
}
