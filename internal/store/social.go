// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/konkandarshan/konkan/internal/model"
)

const socialColumns = `id, instagram_enabled, instagram_username, instagram_user_id,
	instagram_title, youtube_enabled, youtube_channel_id, youtube_title,
	created_at, updated_at`

func scanSocialSettings(row interface{ Scan(...any) error }) (model.SocialSettings, error) {
	var s model.SocialSettings
	err := row.Scan(&s.ID, &s.InstagramEnabled, &s.InstagramUsername, &s.InstagramUserID,
		&s.InstagramTitle, &s.YouTubeEnabled, &s.YouTubeChannelID, &s.YouTubeTitle,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetSocialSettings returns the singleton settings row, creating it with
// defaults on first read.
func (q *Queries) GetSocialSettings(ctx context.Context) (model.SocialSettings, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+socialColumns+` FROM social_settings ORDER BY id LIMIT 1`)
	s, err := scanSocialSettings(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return s, err
	}

	def := model.DefaultSocialSettings()
	now := time.Now()
	row = q.db.QueryRowContext(ctx, `
		INSERT INTO social_settings (instagram_enabled, instagram_username,
			instagram_user_id, instagram_title, youtube_enabled,
			youtube_channel_id, youtube_title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+socialColumns,
		def.InstagramEnabled, def.InstagramUsername, def.InstagramUserID,
		def.InstagramTitle, def.YouTubeEnabled, def.YouTubeChannelID,
		def.YouTubeTitle, now, now)
	return scanSocialSettings(row)
}

// UpdateSocialSettingsParams holds the editable social settings fields.
type UpdateSocialSettingsParams struct {
	InstagramEnabled  bool
	InstagramUsername string
	InstagramUserID   string
	InstagramTitle    string
	YouTubeEnabled    bool
	YouTubeChannelID  string
	YouTubeTitle      string
	UpdatedAt         time.Time
}

// UpdateSocialSettings writes the singleton row and returns it. The row
// is created first when it does not exist yet.
func (q *Queries) UpdateSocialSettings(ctx context.Context, arg UpdateSocialSettingsParams) (model.SocialSettings, error) {
	current, err := q.GetSocialSettings(ctx)
	if err != nil {
		return model.SocialSettings{}, err
	}

	row := q.db.QueryRowContext(ctx, `
		UPDATE social_settings SET instagram_enabled = ?, instagram_username = ?,
			instagram_user_id = ?, instagram_title = ?, youtube_enabled = ?,
			youtube_channel_id = ?, youtube_title = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+socialColumns,
		arg.InstagramEnabled, arg.InstagramUsername, arg.InstagramUserID,
		arg.InstagramTitle, arg.YouTubeEnabled, arg.YouTubeChannelID,
		arg.YouTubeTitle, arg.UpdatedAt, current.ID)
	return scanSocialSettings(row)
}
