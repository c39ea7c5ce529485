// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// CreateBlogPostViewParams holds the per-visit fields recorded alongside
// the counter increment.
type CreateBlogPostViewParams struct {
	BlogID    int64
	Country   string
	Browser   string
	Platform  string
	CreatedAt time.Time
}

// CreateBlogPostView inserts a per-visit view row.
func (q *Queries) CreateBlogPostView(ctx context.Context, arg CreateBlogPostViewParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO blog_post_views (blog_id, country, browser, platform, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.BlogID, arg.Country, arg.Browser, arg.Platform, arg.CreatedAt)
	return err
}

// CountBlogPostViews returns the number of recorded visits for a post.
func (q *Queries) CountBlogPostViews(ctx context.Context, blogID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_post_views WHERE blog_id = ?`, blogID).Scan(&n)
	return n, err
}

// DeleteBlogPostViewsBefore removes visit rows older than the cutoff and
// returns the number deleted. Used by the retention job.
func (q *Queries) DeleteBlogPostViewsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM blog_post_views WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
