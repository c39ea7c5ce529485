// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/util"
)

const hotelColumns = `id, name, slug, description, location, price_per_night, rating,
	category, amenities, image_url, affiliate_link, status, created_at, updated_at`

func scanHotel(row interface{ Scan(...any) error }) (model.Hotel, error) {
	var h model.Hotel
	var amenities string
	var affiliate sql.NullString
	err := row.Scan(&h.ID, &h.Name, &h.Slug, &h.Description, &h.Location,
		&h.PricePerNight, &h.Rating, &h.Category, &amenities, &h.ImageURL,
		&affiliate, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return h, err
	}
	h.Amenities = decodeJSON(amenities)
	h.AffiliateLink = affiliate.String
	return h, nil
}

func (q *Queries) queryHotels(ctx context.Context, query string, args ...any) ([]model.Hotel, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []model.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

// ListHotels returns all listings regardless of status, newest first.
// Used by the admin dashboard.
func (q *Queries) ListHotels(ctx context.Context, limit, offset int64) ([]model.Hotel, error) {
	return q.queryHotels(ctx, `
		SELECT `+hotelColumns+` FROM hotels
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

// ListActiveHotels returns active listings only, newest first.
func (q *Queries) ListActiveHotels(ctx context.Context, limit, offset int64) ([]model.Hotel, error) {
	return q.queryHotels(ctx, `
		SELECT `+hotelColumns+` FROM hotels
		WHERE status = 'active'
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

// hotelFilterWhere builds the WHERE clause shared by FilterHotels and
// CountFilteredHotels. Every set predicate must match.
func hotelFilterWhere(f model.HotelFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(` WHERE status = 'active'`)
	var args []any

	if f.Search != "" {
		b.WriteString(` AND (LOWER(name) LIKE ? OR LOWER(location) LIKE ?)`)
		pattern := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		b.WriteString(` AND category = ?`)
		args = append(args, f.Category)
	}
	if f.MinPrice > 0 {
		b.WriteString(` AND price_per_night >= ?`)
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		b.WriteString(` AND price_per_night <= ?`)
		args = append(args, f.MaxPrice)
	}

	return b.String(), args
}

// FilterHotels returns active listings matching every set predicate.
// Search matches name or location case-insensitively; category narrows to
// one value; the price bounds are inclusive. Predicates combine with AND.
func (q *Queries) FilterHotels(ctx context.Context, f model.HotelFilter) ([]model.Hotel, error) {
	where, args := hotelFilterWhere(f)

	var b strings.Builder
	b.WriteString(`SELECT ` + hotelColumns + ` FROM hotels` + where)
	b.WriteString(` ORDER BY created_at DESC`)
	if f.Limit > 0 {
		b.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, f.Limit, f.Offset)
	}

	return q.queryHotels(ctx, b.String(), args...)
}

// CountFilteredHotels counts the active listings matching every set
// predicate, ignoring Limit and Offset.
func (q *Queries) CountFilteredHotels(ctx context.Context, f model.HotelFilter) (int64, error) {
	where, args := hotelFilterWhere(f)
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM hotels`+where, args...).Scan(&n)
	return n, err
}

// CountHotels returns the total number of listings.
func (q *Queries) CountHotels(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotels`).Scan(&n)
	return n, err
}

// GetHotelByID fetches a listing by primary key.
func (q *Queries) GetHotelByID(ctx context.Context, id int64) (model.Hotel, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = ?`, id)
	return scanHotel(row)
}

// GetHotelBySlug fetches a listing by slug.
func (q *Queries) GetHotelBySlug(ctx context.Context, slug string) (model.Hotel, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE slug = ?`, slug)
	return scanHotel(row)
}

// CountHotelsBySlug counts listings with the given slug, excluding one ID.
func (q *Queries) CountHotelsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM hotels WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

// CreateHotelParams holds the fields for creating a hotel listing.
type CreateHotelParams struct {
	Name          string
	Slug          string
	Description   string
	Location      string
	PricePerNight float64
	Rating        float64
	Category      string
	Amenities     []string
	ImageURL      string
	AffiliateLink string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateHotel inserts a new listing and returns the stored row.
func (q *Queries) CreateHotel(ctx context.Context, arg CreateHotelParams) (model.Hotel, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO hotels (name, slug, description, location, price_per_night,
			rating, category, amenities, image_url, affiliate_link, status,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+hotelColumns,
		arg.Name, arg.Slug, arg.Description, arg.Location, arg.PricePerNight,
		arg.Rating, arg.Category, encodeJSON(arg.Amenities), arg.ImageURL,
		util.NullStringFromValue(arg.AffiliateLink), arg.Status, arg.CreatedAt, arg.UpdatedAt)
	return scanHotel(row)
}

// UpdateHotelParams holds the fields for updating a hotel listing.
type UpdateHotelParams struct {
	ID            int64
	Name          string
	Slug          string
	Description   string
	Location      string
	PricePerNight float64
	Rating        float64
	Category      string
	Amenities     []string
	ImageURL      string
	AffiliateLink string
	Status        string
	UpdatedAt     time.Time
}

// UpdateHotel updates a listing and returns the stored row.
func (q *Queries) UpdateHotel(ctx context.Context, arg UpdateHotelParams) (model.Hotel, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE hotels SET name = ?, slug = ?, description = ?, location = ?,
			price_per_night = ?, rating = ?, category = ?, amenities = ?,
			image_url = ?, affiliate_link = ?, status = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+hotelColumns,
		arg.Name, arg.Slug, arg.Description, arg.Location, arg.PricePerNight,
		arg.Rating, arg.Category, encodeJSON(arg.Amenities), arg.ImageURL,
		util.NullStringFromValue(arg.AffiliateLink), arg.Status, arg.UpdatedAt, arg.ID)
	return scanHotel(row)
}

// DeleteHotel removes a listing.
func (q *Queries) DeleteHotel(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
	return err
}
