// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konkandarshan/konkan/internal/model"
)

func TestHotelList_OnlyActive(t *testing.T) {
	db := testDB(t)
	h := NewHotelHandler(db)

	createTestHotel(t, db, "Sagar Kinara", "sagar-kinara", "homestay", 2500, model.HotelStatusActive)
	createTestHotel(t, db, "Closed Lodge", "closed-lodge", "hotel", 1800, model.HotelStatusInactive)

	w := executeHandler(t, h.List, newGetRequest(t, "/api/v1/hotels", nil))

	require.Equal(t, http.StatusOK, w.Code)
	hotels, meta := unmarshalList[model.Hotel](t, w)
	require.Len(t, hotels, 1)
	assert.Equal(t, "Sagar Kinara", hotels[0].Name)
	require.NotNil(t, meta)
	assert.Equal(t, int64(1), meta.Total)
}

func TestHotelList_FiltersCombine(t *testing.T) {
	db := testDB(t)
	h := NewHotelHandler(db)

	// Matches category and price range.
	createTestHotel(t, db, "Sagar Kinara", "sagar-kinara", "homestay", 2500, model.HotelStatusActive)
	// Matches category only.
	createTestHotel(t, db, "Budget Stay", "budget-stay", "homestay", 900, model.HotelStatusActive)
	// Matches price range only.
	createTestHotel(t, db, "Coastal Resort", "coastal-resort", "resort", 3500, model.HotelStatusActive)

	w := executeHandler(t, h.List,
		newGetRequest(t, "/api/v1/hotels?category=homestay&min_price=2000&max_price=4000", nil))

	require.Equal(t, http.StatusOK, w.Code)
	hotels, meta := unmarshalList[model.Hotel](t, w)
	require.Len(t, hotels, 1)
	assert.Equal(t, "sagar-kinara", hotels[0].Slug)
	require.NotNil(t, meta)
	assert.Equal(t, int64(1), meta.Total)
}

func TestHotelList_SearchMatchesNameAndLocation(t *testing.T) {
	db := testDB(t)
	h := NewHotelHandler(db)

	createTestHotel(t, db, "Sagar Kinara", "sagar-kinara", "homestay", 2500, model.HotelStatusActive)
	createTestHotel(t, db, "Hilltop Villa", "hilltop-villa", "villa", 5200, model.HotelStatusActive)

	w := executeHandler(t, h.List, newGetRequest(t, "/api/v1/hotels?q=sagar", nil))

	require.Equal(t, http.StatusOK, w.Code)
	hotels, _ := unmarshalList[model.Hotel](t, w)
	require.Len(t, hotels, 1)
	assert.Equal(t, "Sagar Kinara", hotels[0].Name)
}

func TestHotelGet_InactiveHidden(t *testing.T) {
	db := testDB(t)
	h := NewHotelHandler(db)

	id := createTestHotel(t, db, "Closed Lodge", "closed-lodge", "hotel", 1800, model.HotelStatusInactive)

	w := executeHandler(t, h.Get, newGetRequest(t, "/api/v1/hotels/1",
		map[string]string{"id": strconv.FormatInt(id, 10)}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHotelGet_Active(t *testing.T) {
	db := testDB(t)
	h := NewHotelHandler(db)

	id := createTestHotel(t, db, "Sagar Kinara", "sagar-kinara", "homestay", 2500, model.HotelStatusActive)

	w := executeHandler(t, h.Get, newGetRequest(t, "/api/v1/hotels/1",
		map[string]string{"id": strconv.FormatInt(id, 10)}))

	require.Equal(t, http.StatusOK, w.Code)
	hotel := unmarshalData[model.Hotel](t, w)
	assert.Equal(t, "Sagar Kinara", hotel.Name)
	assert.Equal(t, 2500.0, hotel.PricePerNight)
}
