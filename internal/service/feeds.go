// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/konkandarshan/konkan/internal/store"
)

const (
	instagramAPIBase = "https://graph.instagram.com"
	youtubeAPIBase   = "https://www.googleapis.com/youtube/v3"

	feedTimeout = 10 * time.Second

	defaultInstagramLimit = 4
	defaultYouTubeLimit   = 3
	maxFeedLimit          = 25
)

// Feed fetch errors. Handlers map ErrFeedNotConfigured to 400 and the
// other two to 500.
var (
	ErrFeedNotConfigured = errors.New("feed not configured")
	ErrFeedCredentials   = errors.New("feed credentials not configured")
	ErrFeedUpstream      = errors.New("upstream feed request failed")
)

// FeedCredentials holds the platform API secrets. They come from the
// process environment and are never persisted or rendered to clients.
type FeedCredentials struct {
	InstagramToken string
	YouTubeAPIKey  string
}

// InstagramPost mirrors the Basic Display API media fields passed
// through to clients.
type InstagramPost struct {
	ID        string `json:"id"`
	MediaURL  string `json:"media_url"`
	Permalink string `json:"permalink"`
	Caption   string `json:"caption"`
	MediaType string `json:"media_type"`
	Timestamp string `json:"timestamp"`
}

// YouTubeVideo is a Data API v3 search result mapped to the shape the
// public site renders.
type YouTubeVideo struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	VideoURL     string `json:"video_url"`
	PublishedAt  string `json:"published_at"`
}

// FeedService proxies the Instagram and YouTube APIs for the public
// social section. Responses are never cached; every call hits upstream.
type FeedService struct {
	queries *store.Queries
	creds   FeedCredentials
	client  *http.Client

	// Overridable for tests
	instagramBase string
	youtubeBase   string
}

// NewFeedService creates a feed service backed by the social settings
// singleton.
func NewFeedService(db *sql.DB, creds FeedCredentials) *FeedService {
	return &FeedService{
		queries:       store.New(db),
		creds:         creds,
		client:        &http.Client{Timeout: feedTimeout},
		instagramBase: instagramAPIBase,
		youtubeBase:   youtubeAPIBase,
	}
}

// FetchInstagram returns the latest Instagram posts for the configured
// account. Returns ErrFeedNotConfigured when the platform is disabled or
// missing its account ID.
func (s *FeedService) FetchInstagram(ctx context.Context, limit int) ([]InstagramPost, error) {
	settings, err := s.queries.GetSocialSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load social settings: %w", err)
	}
	if !settings.InstagramConfigured() {
		return nil, fmt.Errorf("%w: instagram", ErrFeedNotConfigured)
	}
	if s.creds.InstagramToken == "" {
		return nil, fmt.Errorf("%w: instagram access token", ErrFeedCredentials)
	}

	params := url.Values{}
	params.Set("fields", "id,media_url,permalink,caption,media_type,timestamp")
	params.Set("limit", strconv.Itoa(clampFeedLimit(limit, defaultInstagramLimit)))
	params.Set("access_token", s.creds.InstagramToken)

	var payload struct {
		Data []InstagramPost `json:"data"`
	}
	if err := s.getJSON(ctx, s.instagramBase+"/me/media?"+params.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("%w: instagram: %v", ErrFeedUpstream, err)
	}

	if payload.Data == nil {
		return []InstagramPost{}, nil
	}
	return payload.Data, nil
}

// FetchYouTube returns the latest videos from the configured channel,
// newest first. Returns ErrFeedNotConfigured when the platform is
// disabled or missing its channel ID.
func (s *FeedService) FetchYouTube(ctx context.Context, limit int) ([]YouTubeVideo, error) {
	settings, err := s.queries.GetSocialSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load social settings: %w", err)
	}
	if !settings.YouTubeConfigured() {
		return nil, fmt.Errorf("%w: youtube", ErrFeedNotConfigured)
	}
	if s.creds.YouTubeAPIKey == "" {
		return nil, fmt.Errorf("%w: youtube api key", ErrFeedCredentials)
	}

	params := url.Values{}
	params.Set("key", s.creds.YouTubeAPIKey)
	params.Set("channelId", settings.YouTubeChannelID)
	params.Set("part", "snippet")
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(clampFeedLimit(limit, defaultYouTubeLimit)))

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				PublishedAt string `json:"publishedAt"`
				Thumbnails  struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := s.getJSON(ctx, s.youtubeBase+"/search?"+params.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("%w: youtube: %v", ErrFeedUpstream, err)
	}

	videos := make([]YouTubeVideo, 0, len(payload.Items))
	for _, item := range payload.Items {
		videos = append(videos, YouTubeVideo{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
			VideoURL:     "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}

func (s *FeedService) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func clampFeedLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxFeedLimit {
		return maxFeedLimit
	}
	return limit
}
