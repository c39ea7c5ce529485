// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/util"
)

const blogColumns = `id, title, slug, excerpt, content, image_url, author, category,
	tags, affiliate_link, status, views, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (model.BlogPost, error) {
	var p model.BlogPost
	var tags string
	var affiliate sql.NullString
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL,
		&p.Author, &p.Category, &tags, &affiliate, &p.Status, &p.Views,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.Tags = decodeJSON(tags)
	p.AffiliateLink = affiliate.String
	return p, nil
}

func (q *Queries) queryBlogPosts(ctx context.Context, query string, args ...any) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListBlogPosts returns all posts regardless of status, newest first.
// Used by the admin dashboard.
func (q *Queries) ListBlogPosts(ctx context.Context, limit, offset int64) ([]model.BlogPost, error) {
	return q.queryBlogPosts(ctx, `
		SELECT `+blogColumns+` FROM blog_posts
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

// ListPublishedBlogPosts returns published posts only, newest first.
// Drafts never appear here.
func (q *Queries) ListPublishedBlogPosts(ctx context.Context, limit, offset int64) ([]model.BlogPost, error) {
	return q.queryBlogPosts(ctx, `
		SELECT `+blogColumns+` FROM blog_posts
		WHERE status = 'published'
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

// CountBlogPosts returns the total number of posts.
func (q *Queries) CountBlogPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts`).Scan(&n)
	return n, err
}

// CountPublishedBlogPosts returns the number of published posts.
func (q *Queries) CountPublishedBlogPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE status = 'published'`).Scan(&n)
	return n, err
}

// GetBlogPostByID fetches a post by primary key.
func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanBlogPost(row)
}

// GetBlogPostBySlug fetches a post by slug.
func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = ?`, slug)
	return scanBlogPost(row)
}

// CountBlogPostsBySlug counts posts with the given slug, excluding one ID.
// Used for slug uniqueness checks on create (excludeID 0) and update.
func (q *Queries) CountBlogPostsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

// CreateBlogPostParams holds the fields for creating a blog post.
type CreateBlogPostParams struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ImageURL      string
	Author        string
	Category      string
	Tags          []string
	AffiliateLink string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateBlogPost inserts a new post and returns the stored row.
func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (title, slug, excerpt, content, image_url, author,
			category, tags, affiliate_link, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+blogColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.ImageURL, arg.Author,
		arg.Category, encodeJSON(arg.Tags), util.NullStringFromValue(arg.AffiliateLink),
		arg.Status, arg.CreatedAt, arg.UpdatedAt)
	return scanBlogPost(row)
}

// UpdateBlogPostParams holds the fields for updating a blog post.
// Views are deliberately absent: the counter only moves through
// IncrementBlogPostViews.
type UpdateBlogPostParams struct {
	ID            int64
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ImageURL      string
	Author        string
	Category      string
	Tags          []string
	AffiliateLink string
	Status        string
	UpdatedAt     time.Time
}

// UpdateBlogPost updates a post and returns the stored row.
func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE blog_posts SET title = ?, slug = ?, excerpt = ?, content = ?,
			image_url = ?, author = ?, category = ?, tags = ?,
			affiliate_link = ?, status = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+blogColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.ImageURL, arg.Author,
		arg.Category, encodeJSON(arg.Tags), util.NullStringFromValue(arg.AffiliateLink),
		arg.Status, arg.UpdatedAt, arg.ID)
	return scanBlogPost(row)
}

// DeleteBlogPost removes a post.
func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	return err
}

// IncrementBlogPostViews bumps the view counter by one. The update is a
// single statement so concurrent increments never lose writes, and the
// counter never decreases.
func (q *Queries) IncrementBlogPostViews(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE blog_posts SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SearchBlogPostsAdmin matches title or content case-insensitively across
// every status. The public site searches the FTS index instead; this LIKE
// variant exists so admins can find drafts too.
func (q *Queries) SearchBlogPostsAdmin(ctx context.Context, pattern string, limit, offset int64) ([]model.BlogPost, error) {
	return q.queryBlogPosts(ctx, `
		SELECT `+blogColumns+` FROM blog_posts
		WHERE title LIKE ? OR content LIKE ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, pattern, pattern, limit, offset)
}

// CountSearchBlogPostsAdmin counts posts matching the admin search pattern.
func (q *Queries) CountSearchBlogPostsAdmin(ctx context.Context, pattern string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE title LIKE ? OR content LIKE ?`,
		pattern, pattern).Scan(&n)
	return n, err
}
