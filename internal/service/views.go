// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/konkandarshan/konkan/internal/geoip"
	"github.com/konkandarshan/konkan/internal/store"
)

// ErrPostNotFound is returned when a view is recorded against a post
// that does not exist.
var ErrPostNotFound = errors.New("blog post not found")

// VisitInfo carries the request attributes recorded with a view.
type VisitInfo struct {
	UserAgent string
	IP        string
}

// ViewService tracks blog post views: the monotonic counter on the post
// plus a per-visit row used for retention-bounded analytics. Bot traffic
// is skipped.
type ViewService struct {
	queries *store.Queries
	geo     *geoip.Lookup // optional, nil disables country lookup
}

// NewViewService creates a view tracking service. geo may be nil.
func NewViewService(db *sql.DB, geo *geoip.Lookup) *ViewService {
	return &ViewService{
		queries: store.New(db),
		geo:     geo,
	}
}

// TrackView increments the view counter for a post and records the visit.
// Bot user agents are ignored without error. Returns ErrPostNotFound if
// the post does not exist.
func (s *ViewService) TrackView(ctx context.Context, blogID int64, visit VisitInfo) error {
	ua := useragent.Parse(visit.UserAgent)
	if ua.Bot {
		slog.Debug("skipping bot view", "blog_id", blogID, "user_agent", visit.UserAgent)
		return nil
	}

	if err := s.queries.IncrementBlogPostViews(ctx, blogID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}

	country := ""
	if s.geo != nil {
		country = s.geo.LookupCountry(visit.IP)
	}

	browser := ua.Name
	if browser == "" {
		browser = "Unknown"
	}
	platform := ua.OS
	if platform == "" {
		platform = "Unknown"
	}

	// The counter is the source of truth; a failed visit row must not
	// undo the increment.
	if err := s.queries.CreateBlogPostView(ctx, store.CreateBlogPostViewParams{
		BlogID:    blogID,
		Country:   country,
		Browser:   browser,
		Platform:  platform,
		CreatedAt: time.Now(),
	}); err != nil {
		slog.Warn("failed to record visit row", "blog_id", blogID, "error", err)
	}

	return nil
}

// DeleteOldViews removes visit rows older than the specified duration.
func (s *ViewService) DeleteOldViews(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	return s.queries.DeleteBlogPostViewsBefore(ctx, cutoff)
}
