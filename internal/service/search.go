// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic services.
package service

import (
	"context"
	"database/sql"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/konkandarshan/konkan/internal/store"
)

// SearchService provides blog post search. The public site uses SQLite
// FTS5 over published posts; admin search uses LIKE so drafts show up too.
type SearchService struct {
	db      *sql.DB
	queries *store.Queries
}

// SearchResult represents a single search result with match highlight.
type SearchResult struct {
	ID        int64
	Title     string
	Slug      string
	Excerpt   string
	Highlight string
	Author    string
	Category  string
	Status    string
	Views     int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Rank      float64
}

// SearchParams holds search parameters.
type SearchParams struct {
	Query  string
	Limit  int
	Offset int
}

// NewSearchService creates a new search service.
func NewSearchService(db *sql.DB) *SearchService {
	return &SearchService{db: db, queries: store.New(db)}
}

// escapeQuery escapes special FTS5 characters in the query.
func (s *SearchService) escapeQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}

	// Strip FTS5 operators but keep non-ASCII letters and digits so
	// Devanagari queries still match.
	re := regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	query = re.ReplaceAllString(query, " ")

	words := strings.Fields(query)
	if len(words) == 0 {
		return ""
	}

	// Quote each word and add a prefix wildcard for forgiving matching
	var terms []string
	for _, word := range words {
		if word != "" {
			terms = append(terms, `"`+word+`"*`)
		}
	}

	return strings.Join(terms, " OR ")
}

// SearchPublishedPosts searches published blog posts using FTS5. bm25(),
// snippet() and MATCH are FTS5-specific, so these queries stay as direct
// SQL rather than going through the store layer.
func (s *SearchService) SearchPublishedPosts(ctx context.Context, params SearchParams) ([]SearchResult, int64, error) {
	if params.Query == "" {
		return []SearchResult{}, 0, nil
	}

	escapedQuery := s.escapeQuery(params.Query)
	if escapedQuery == "" {
		return []SearchResult{}, 0, nil
	}

	countQuery := `
		SELECT COUNT(*) FROM blog_posts p
		INNER JOIN blog_posts_fts ON blog_posts_fts.rowid = p.id
		WHERE blog_posts_fts MATCH ? AND p.status = 'published'`

	var total int64
	err := s.db.QueryRowContext(ctx, countQuery, escapedQuery).Scan(&total)
	if err != nil {
		// If the FTS table doesn't exist yet, fall back to 0 results
		if strings.Contains(err.Error(), "no such table") {
			return []SearchResult{}, 0, nil
		}
		return nil, 0, err
	}

	if total == 0 {
		return []SearchResult{}, 0, nil
	}

	// bm25() ranks relevance (lower = more relevant), snippet() builds a
	// highlighted excerpt from the content column.
	searchQuery := `
		SELECT
			p.id,
			p.title,
			p.slug,
			p.content,
			p.author,
			p.category,
			p.status,
			p.views,
			p.created_at,
			p.updated_at,
			bm25(blog_posts_fts) as rank,
			snippet(blog_posts_fts, 2, '<mark>', '</mark>', '...', 30) as highlight
		FROM blog_posts p
		INNER JOIN blog_posts_fts ON blog_posts_fts.rowid = p.id
		WHERE blog_posts_fts MATCH ? AND p.status = 'published'
		ORDER BY rank
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, searchQuery, escapedQuery, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var content string
		err := rows.Scan(
			&r.ID,
			&r.Title,
			&r.Slug,
			&content,
			&r.Author,
			&r.Category,
			&r.Status,
			&r.Views,
			&r.CreatedAt,
			&r.UpdatedAt,
			&r.Rank,
			&r.Highlight,
		)
		if err != nil {
			return nil, 0, err
		}

		// Sanitize highlight to remove broken HTML from FTS snippet output
		r.Highlight = sanitizeHighlight(r.Highlight)
		r.Excerpt = s.generateExcerpt(content, params.Query, 200)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// generateExcerpt creates a text excerpt from the content, centered on the
// first matching search term.
func (s *SearchService) generateExcerpt(content, query string, maxLen int) string {
	content = stripHTMLTags(content)
	if content == "" {
		return ""
	}

	lowerContent := strings.ToLower(content)
	words := strings.Fields(strings.ToLower(query))

	var firstMatch = -1
	for _, word := range words {
		if idx := strings.Index(lowerContent, word); idx != -1 {
			if firstMatch == -1 || idx < firstMatch {
				firstMatch = idx
			}
		}
	}

	var excerpt string
	if firstMatch == -1 {
		if len(content) > maxLen {
			excerpt = content[:maxLen] + "..."
		} else {
			excerpt = content
		}
	} else {
		start := firstMatch - maxLen/3
		if start < 0 {
			start = 0
		}
		end := start + maxLen
		if end > len(content) {
			end = len(content)
		}

		excerpt = content[start:end]
		if start > 0 {
			excerpt = "..." + excerpt
		}
		if end < len(content) {
			excerpt += "..."
		}
	}

	return excerpt
}

// stripHTMLTags removes HTML tags from a string.
func stripHTMLTags(s string) string {
	re := regexp.MustCompile(`<[^>]*>`)
	s = re.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// sanitizeHighlight strips all HTML tags from FTS snippet output except
// <mark> tags.
func sanitizeHighlight(highlight string) string {
	if highlight == "" {
		return ""
	}

	highlight = strings.ReplaceAll(highlight, "<mark>", "\x00MARK_OPEN\x00")
	highlight = strings.ReplaceAll(highlight, "</mark>", "\x00MARK_CLOSE\x00")

	highlight = stripHTMLTags(highlight)

	highlight = strings.ReplaceAll(highlight, "\x00MARK_OPEN\x00", "<mark>")
	highlight = strings.ReplaceAll(highlight, "\x00MARK_CLOSE\x00", "</mark>")

	return strings.TrimSpace(highlight)
}

// RebuildIndex rebuilds the FTS index from scratch. Useful after bulk
// imports or seeding, where the triggers were bypassed.
func (s *SearchService) RebuildIndex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts_fts`)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO blog_posts_fts(rowid, title, excerpt, content)
		SELECT id, title, excerpt, content
		FROM blog_posts
		WHERE status = 'published'
	`)
	return err
}

// SearchAllPosts searches posts of every status for the admin dashboard.
// The FTS index only covers published posts, so this uses LIKE.
func (s *SearchService) SearchAllPosts(ctx context.Context, params SearchParams) ([]SearchResult, int64, error) {
	if params.Query == "" {
		return []SearchResult{}, 0, nil
	}

	likePattern := "%" + params.Query + "%"

	total, err := s.queries.CountSearchBlogPostsAdmin(ctx, likePattern)
	if err != nil {
		return nil, 0, err
	}

	if total == 0 {
		return []SearchResult{}, 0, nil
	}

	posts, err := s.queries.SearchBlogPostsAdmin(ctx, likePattern,
		int64(params.Limit), int64(params.Offset))
	if err != nil {
		return nil, 0, err
	}

	results := make([]SearchResult, 0, len(posts))
	for _, p := range posts {
		r := SearchResult{
			ID:        p.ID,
			Title:     p.Title,
			Slug:      p.Slug,
			Author:    p.Author,
			Category:  p.Category,
			Status:    p.Status,
			Views:     p.Views,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
		r.Excerpt = s.generateExcerpt(p.Content, params.Query, 200)
		results = append(results, r)
	}

	return results, total, nil
}
