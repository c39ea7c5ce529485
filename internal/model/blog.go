// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Blog post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// BlogPost represents a travel blog article.
type BlogPost struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url"`
	Author        string    `json:"author"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	AffiliateLink string    `json:"affiliate_link,omitempty"`
	Status        string    `json:"status"`
	Views         int64     `json:"views"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsPublished returns true if the post is published.
func (p *BlogPost) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsDraft returns true if the post is a draft.
func (p *BlogPost) IsDraft() bool {
	return p.Status == PostStatusDraft
}

// ValidPostStatus checks a blog post status value.
func ValidPostStatus(status string) bool {
	return status == PostStatusDraft || status == PostStatusPublished
}

// Validate checks required fields and enum values. It returns a map of
// field name to error message, empty when the record is valid. The same
// rules apply on create and on update, before any database work.
func (p *BlogPost) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(p.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(p.Excerpt) == "" {
		errs["excerpt"] = "Excerpt is required"
	}
	if strings.TrimSpace(p.Content) == "" {
		errs["content"] = "Content is required"
	}
	if strings.TrimSpace(p.Author) == "" {
		errs["author"] = "Author is required"
	}
	if !ValidPostStatus(p.Status) {
		errs["status"] = "Status must be draft or published"
	}
	return errs
}
