// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFeedTestDB(t *testing.T, instagramOn, youtubeOn bool) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE social_settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			instagram_enabled BOOLEAN NOT NULL DEFAULT 0,
			instagram_username TEXT NOT NULL DEFAULT '',
			instagram_user_id TEXT NOT NULL DEFAULT '',
			instagram_title TEXT NOT NULL DEFAULT '',
			youtube_enabled BOOLEAN NOT NULL DEFAULT 0,
			youtube_channel_id TEXT NOT NULL DEFAULT '',
			youtube_title TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO social_settings (instagram_enabled, instagram_user_id, youtube_enabled, youtube_channel_id)
		VALUES (?, ?, ?, ?)`,
		instagramOn, "17841400000000000", youtubeOn, "UCkonkan")
	require.NoError(t, err)

	return db
}

func TestFetchInstagram(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/media", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "4", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"id": "1", "media_url": "https://cdn/a.jpg", "permalink": "https://instagram.com/p/a",
			 "caption": "Tarkarli beach", "media_type": "IMAGE", "timestamp": "2026-08-01T10:00:00+0000"},
			{"id": "2", "media_url": "https://cdn/b.jpg", "permalink": "https://instagram.com/p/b",
			 "caption": "", "media_type": "CAROUSEL_ALBUM", "timestamp": "2026-07-28T09:00:00+0000"}
		]}`))
	}))
	defer upstream.Close()

	db := setupFeedTestDB(t, true, false)
	svc := NewFeedService(db, FeedCredentials{InstagramToken: "test-token"})
	svc.instagramBase = upstream.URL

	posts, err := svc.FetchInstagram(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Tarkarli beach", posts[0].Caption)
	assert.Equal(t, "IMAGE", posts[0].MediaType)
	assert.Equal(t, "https://cdn/b.jpg", posts[1].MediaURL)
}

func TestFetchInstagram_NotConfigured(t *testing.T) {
	db := setupFeedTestDB(t, false, true)
	svc := NewFeedService(db, FeedCredentials{InstagramToken: "test-token"})

	_, err := svc.FetchInstagram(context.Background(), 4)
	assert.ErrorIs(t, err, ErrFeedNotConfigured)
}

func TestFetchInstagram_MissingToken(t *testing.T) {
	db := setupFeedTestDB(t, true, false)
	svc := NewFeedService(db, FeedCredentials{})

	_, err := svc.FetchInstagram(context.Background(), 4)
	assert.ErrorIs(t, err, ErrFeedCredentials)
}

func TestFetchInstagram_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "token expired"}}`, http.StatusBadRequest)
	}))
	defer upstream.Close()

	db := setupFeedTestDB(t, true, false)
	svc := NewFeedService(db, FeedCredentials{InstagramToken: "expired"})
	svc.instagramBase = upstream.URL

	_, err := svc.FetchInstagram(context.Background(), 4)
	assert.ErrorIs(t, err, ErrFeedUpstream)
}

func TestFetchYouTube(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "UCkonkan", r.URL.Query().Get("channelId"))
		assert.Equal(t, "video", r.URL.Query().Get("type"))
		assert.Equal(t, "3", r.URL.Query().Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"id": {"videoId": "abc123"},
			 "snippet": {"title": "Konkan road trip", "description": "Day one",
				"publishedAt": "2026-08-10T08:00:00Z",
				"thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/abc123/mqdefault.jpg"}}}}
		]}`))
	}))
	defer upstream.Close()

	db := setupFeedTestDB(t, false, true)
	svc := NewFeedService(db, FeedCredentials{YouTubeAPIKey: "test-key"})
	svc.youtubeBase = upstream.URL

	videos, err := svc.FetchYouTube(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "abc123", videos[0].ID)
	assert.Equal(t, "Konkan road trip", videos[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", videos[0].VideoURL)
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/mqdefault.jpg", videos[0].ThumbnailURL)
}

func TestFetchYouTube_NotConfigured(t *testing.T) {
	db := setupFeedTestDB(t, true, false)
	svc := NewFeedService(db, FeedCredentials{YouTubeAPIKey: "test-key"})

	_, err := svc.FetchYouTube(context.Background(), 3)
	assert.ErrorIs(t, err, ErrFeedNotConfigured)
}

func TestClampFeedLimit(t *testing.T) {
	assert.Equal(t, 4, clampFeedLimit(0, 4))
	assert.Equal(t, 3, clampFeedLimit(-1, 3))
	assert.Equal(t, 10, clampFeedLimit(10, 4))
	assert.Equal(t, maxFeedLimit, clampFeedLimit(100, 4))
}
