// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Hotel categories
const (
	HotelCategoryHotel    = "hotel"
	HotelCategoryHomestay = "homestay"
	HotelCategoryVilla    = "villa"
	HotelCategoryResort   = "resort"
)

// Hotel statuses
const (
	HotelStatusActive   = "active"
	HotelStatusInactive = "inactive"
)

// Hotel represents a stay listing promoted on the site.
type Hotel struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight float64   `json:"price_per_night"`
	Rating        float64   `json:"rating"`
	Category      string    `json:"category"`
	Amenities     []string  `json:"amenities"`
	ImageURL      string    `json:"image_url"`
	AffiliateLink string    `json:"affiliate_link,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsActive returns true if the listing is visible on the public site.
func (h *Hotel) IsActive() bool {
	return h.Status == HotelStatusActive
}

// HotelCategories returns all valid hotel categories.
func HotelCategories() []string {
	return []string{HotelCategoryHotel, HotelCategoryHomestay, HotelCategoryVilla, HotelCategoryResort}
}

// ValidHotelCategory checks a hotel category value.
func ValidHotelCategory(category string) bool {
	for _, c := range HotelCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// ValidHotelStatus checks a hotel status value.
func ValidHotelStatus(status string) bool {
	return status == HotelStatusActive || status == HotelStatusInactive
}

// Validate checks required fields and enum values, shared by create and
// update paths.
func (h *Hotel) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(h.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(h.Location) == "" {
		errs["location"] = "Location is required"
	}
	if h.PricePerNight <= 0 {
		errs["price_per_night"] = "Price per night must be greater than zero"
	}
	if h.Rating < 0 || h.Rating > 5 {
		errs["rating"] = "Rating must be between 0 and 5"
	}
	if !ValidHotelCategory(h.Category) {
		errs["category"] = "Category must be hotel, homestay, villa or resort"
	}
	if !ValidHotelStatus(h.Status) {
		errs["status"] = "Status must be active or inactive"
	}
	return errs
}

// HotelFilter describes the public listing query. Zero values mean the
// predicate is not applied; all set predicates combine with AND.
type HotelFilter struct {
	Search   string
	Category string
	MinPrice float64
	MaxPrice float64
	Limit    int64
	Offset   int64
}
