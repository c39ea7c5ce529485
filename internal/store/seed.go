// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/konkandarshan/konkan/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates initial data: the default admin account and, when the
// catalog is empty, a small set of sample content for each section.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	if err := seedAdmin(ctx, queries); err != nil {
		return err
	}
	if err := seedContent(ctx, queries); err != nil {
		return err
	}
	return nil
}

func seedAdmin(ctx context.Context, queries *Queries) error {
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         "admin",
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)
	return nil
}

func seedContent(ctx context.Context, queries *Queries) error {
	count, err := queries.CountBlogPosts(ctx)
	if err != nil {
		return fmt.Errorf("counting blog posts: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()

	posts := []CreateBlogPostParams{
		{
			Title:    "Hidden Gems of Konkan Coast",
			Slug:     "hidden-gems-of-konkan-coast",
			Excerpt:  "Quiet beaches, sea forts and fishing villages the guidebooks skip.",
			Content:  "<p>Start at Velas, famous for its turtle festival, and work your way south through Harihareshwar, Diveagar and the untouched sands of Kelshi.</p>",
			Author:   "Konkan Darshan Team",
			Category: "Destinations",
			Tags:     []string{"beaches", "forts", "offbeat"},
			Status:   "published",
		},
		{
			Title:    "Best Time to Visit Konkan",
			Slug:     "best-time-to-visit-konkan",
			Excerpt:  "Monsoon greens or winter beach weather? Planning your trip by season.",
			Content:  "<p>October to February brings dry days and calm seas. The monsoon turns the ghats spectacular but closes water sports.</p>",
			Author:   "Konkan Darshan Team",
			Category: "Planning",
			Tags:     []string{"seasons", "planning"},
			Status:   "draft",
		},
	}
	for _, p := range posts {
		p.CreatedAt = now
		p.UpdatedAt = now
		if _, err := queries.CreateBlogPost(ctx, p); err != nil {
			return fmt.Errorf("seeding blog post %q: %w", p.Title, err)
		}
	}

	hotels := []CreateHotelParams{
		{
			Name:          "Sagar Kinara Homestay",
			Slug:          "sagar-kinara-homestay",
			Description:   "Family-run homestay two minutes from Tarkarli beach.",
			Location:      "Malvan",
			PricePerNight: 2500,
			Rating:        4.6,
			Category:      "homestay",
			Amenities:     []string{"Home-cooked meals", "Scooter rental", "Beach access"},
			Status:        "active",
		},
		{
			Name:          "Blue Lagoon Resort",
			Slug:          "blue-lagoon-resort",
			Description:   "Seafront cottages with a private stretch of Ganpatipule sand.",
			Location:      "Ganpatipule",
			PricePerNight: 6500,
			Rating:        4.3,
			Category:      "resort",
			Amenities:     []string{"Pool", "Restaurant", "Water sports desk"},
			Status:        "active",
		},
	}
	for _, h := range hotels {
		h.CreatedAt = now
		h.UpdatedAt = now
		if _, err := queries.CreateHotel(ctx, h); err != nil {
			return fmt.Errorf("seeding hotel %q: %w", h.Name, err)
		}
	}

	products := []CreateProductParams{
		{
			ProductName:        "Devgad Alphonso Mangoes (1 dozen)",
			Slug:               "devgad-alphonso-mangoes",
			ShortDescription:   "GI-tagged hapus, packed at the orchard.",
			Description:        "Carbide-free Alphonso mangoes from Devgad, graded and shipped within a day of picking.",
			Price:              1500,
			SalePrice:          sql.NullFloat64{Float64: 1200, Valid: true},
			SKU:                "KD-MNG-001",
			StockQuantity:      40,
			AvailabilityStatus: "in_stock",
			ProductType:        "simple",
			Category:           "Fruit",
			Tags:               []string{"alphonso", "seasonal"},
		},
		{
			ProductName:        "Malvani Masala (250g)",
			Slug:               "malvani-masala",
			ShortDescription:   "Stone-ground blend for fish curry.",
			Description:        "A traditional 16-spice Malvani blend, roasted and ground in small batches.",
			Price:              350,
			SKU:                "KD-SPC-002",
			StockQuantity:      120,
			AvailabilityStatus: "in_stock",
			ProductType:        "simple",
			Category:           "Spices",
			Tags:               []string{"masala", "malvani"},
		},
	}
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		if _, err := queries.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seeding product %q: %w", p.ProductName, err)
		}
	}

	// Ensure the social settings singleton exists with defaults.
	if _, err := queries.GetSocialSettings(ctx); err != nil {
		return fmt.Errorf("seeding social settings: %w", err)
	}

	slog.Info("seeded sample content",
		"blog_posts", len(posts),
		"hotels", len(hotels),
		"products", len(products),
	)
	return nil
}
