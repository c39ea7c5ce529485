// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Default section titles used when the settings row is first created.
const (
	DefaultInstagramTitle = "Follow us on Instagram"
	DefaultYouTubeTitle   = "Latest on YouTube"
)

// SocialSettings is the singleton configuration for the public social
// media section. Platform credentials are not stored here; they come
// from the process environment.
type SocialSettings struct {
	ID                int64     `json:"id"`
	InstagramEnabled  bool      `json:"instagram_enabled"`
	InstagramUsername string    `json:"instagram_username"`
	InstagramUserID   string    `json:"instagram_user_id"`
	InstagramTitle    string    `json:"instagram_title"`
	YouTubeEnabled    bool      `json:"youtube_enabled"`
	YouTubeChannelID  string    `json:"youtube_channel_id"`
	YouTubeTitle      string    `json:"youtube_title"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultSocialSettings returns the row inserted on first read when no
// settings exist yet. Both platforms start disabled.
func DefaultSocialSettings() SocialSettings {
	return SocialSettings{
		InstagramTitle: DefaultInstagramTitle,
		YouTubeTitle:   DefaultYouTubeTitle,
	}
}

// InstagramConfigured reports whether the Instagram feed can be fetched.
func (s *SocialSettings) InstagramConfigured() bool {
	return s.InstagramEnabled && s.InstagramUserID != ""
}

// YouTubeConfigured reports whether the YouTube feed can be fetched.
func (s *SocialSettings) YouTubeConfigured() bool {
	return s.YouTubeEnabled && s.YouTubeChannelID != ""
}
