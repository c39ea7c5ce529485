// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func validPost() BlogPost {
	return BlogPost{
		Title:    "Hidden Gems of Konkan Coast",
		Excerpt:  "Beaches and forts beyond the guidebooks.",
		Content:  "<p>Start at Velas and work south.</p>",
		Author:   "Siddhant",
		Category: "Travel",
		Status:   PostStatusPublished,
	}
}

func TestBlogPostValidate_Valid(t *testing.T) {
	p := validPost()
	if errs := p.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestBlogPostValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*BlogPost)
		field string
	}{
		{"empty title", func(p *BlogPost) { p.Title = "" }, "title"},
		{"whitespace title", func(p *BlogPost) { p.Title = "   " }, "title"},
		{"empty excerpt", func(p *BlogPost) { p.Excerpt = "" }, "excerpt"},
		{"empty content", func(p *BlogPost) { p.Content = "" }, "content"},
		{"empty author", func(p *BlogPost) { p.Author = "" }, "author"},
		{"bad status", func(p *BlogPost) { p.Status = "archived" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPost()
			tt.mod(&p)
			errs := p.Validate()
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.field)
			}
		})
	}
}

func TestBlogPostStatusHelpers(t *testing.T) {
	p := BlogPost{Status: PostStatusDraft}
	if !p.IsDraft() || p.IsPublished() {
		t.Error("draft post misreported")
	}
	p.Status = PostStatusPublished
	if p.IsDraft() || !p.IsPublished() {
		t.Error("published post misreported")
	}
}

func TestValidPostStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{PostStatusDraft, true},
		{PostStatusPublished, true},
		{"archived", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidPostStatus(tt.status); got != tt.want {
			t.Errorf("ValidPostStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
