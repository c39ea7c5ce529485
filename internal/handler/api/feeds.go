// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/konkandarshan/konkan/internal/service"
)

// FeedHandler serves the Instagram and YouTube feed proxy endpoints.
// Credentials stay server-side; clients only ever see the fetched items.
type FeedHandler struct {
	feedService *service.FeedService
}

// NewFeedHandler creates a new feed API handler.
func NewFeedHandler(db *sql.DB, creds service.FeedCredentials) *FeedHandler {
	return &FeedHandler{
		feedService: service.NewFeedService(db, creds),
	}
}

// feedRequest is the request body for feed endpoints.
type feedRequest struct {
	Limit int `json:"limit"`
}

// instagramResponse is the response body for the Instagram feed.
type instagramResponse struct {
	Posts []service.InstagramPost `json:"posts"`
}

// youtubeResponse is the response body for the YouTube feed.
type youtubeResponse struct {
	Videos []service.YouTubeVideo `json:"videos"`
}

// Instagram handles POST /api/v1/feeds/instagram.
func (h *FeedHandler) Instagram(w http.ResponseWriter, r *http.Request) {
	req := decodeFeedRequest(r)

	posts, err := h.feedService.FetchInstagram(r.Context(), req.Limit)
	if err != nil {
		writeFeedError(w, r, "instagram", err)
		return
	}

	WriteJSON(w, http.StatusOK, instagramResponse{Posts: posts})
}

// YouTube handles POST /api/v1/feeds/youtube.
func (h *FeedHandler) YouTube(w http.ResponseWriter, r *http.Request) {
	req := decodeFeedRequest(r)

	videos, err := h.feedService.FetchYouTube(r.Context(), req.Limit)
	if err != nil {
		writeFeedError(w, r, "youtube", err)
		return
	}

	WriteJSON(w, http.StatusOK, youtubeResponse{Videos: videos})
}

// decodeFeedRequest reads the optional JSON body. A missing or malformed
// body falls back to the service defaults rather than failing the request.
func decodeFeedRequest(r *http.Request) feedRequest {
	var req feedRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req
}

func writeFeedError(w http.ResponseWriter, r *http.Request, feed string, err error) {
	switch {
	case errors.Is(err, service.ErrFeedNotConfigured):
		WriteBadRequest(w, capitalizeFirst(feed)+" feed is not enabled", nil)
	case errors.Is(err, service.ErrFeedCredentials):
		slog.Error("Feed credentials missing", "feed", feed)
		WriteInternalError(w, capitalizeFirst(feed)+" feed is not configured on the server")
	default:
		slog.Error("Feed fetch failed", "feed", feed, "error", err, "path", r.URL.Path)
		WriteInternalError(w, "Failed to fetch "+feed+" feed")
	}
}
