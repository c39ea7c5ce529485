package model

import "testing"

func TestDefaultSocialSettings(t *testing.T) {
	s := DefaultSocialSettings()
	if s.InstagramEnabled || s.YouTubeEnabled {
		t.Error("default settings should start with both platforms disabled")
	}
	if s.InstagramTitle != DefaultInstagramTitle {
		t.Errorf("InstagramTitle = %q, want %q", s.InstagramTitle, DefaultInstagramTitle)
	}
	if s.YouTubeTitle != DefaultYouTubeTitle {
		t.Errorf("YouTubeTitle = %q, want %q", s.YouTubeTitle, DefaultYouTubeTitle)
	}
}

func TestSocialSettingsConfigured(t *testing.T) {
	s := SocialSettings{InstagramEnabled: true}
	if s.InstagramConfigured() {
		t.Error("InstagramConfigured() = true without a user ID")
	}
	s.InstagramUserID = "17841400000000000"
	if !s.InstagramConfigured() {
		t.Error("InstagramConfigured() = false with enabled flag and user ID")
	}
	s.InstagramEnabled = false
	if s.InstagramConfigured() {
		t.Error("InstagramConfigured() = true while disabled")
	}

	y := SocialSettings{YouTubeEnabled: true, YouTubeChannelID: "UCxyz"}
	if !y.YouTubeConfigured() {
		t.Error("YouTubeConfigured() = false with enabled flag and channel ID")
	}
	y.YouTubeChannelID = ""
	if y.YouTubeConfigured() {
		t.Error("YouTubeConfigured() = true without a channel ID")
	}
}
