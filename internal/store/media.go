// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/konkandarshan/konkan/internal/model"
)

const mediaColumns = `id, uuid, key, filename, mime_type, size, width, height, alt,
	uploaded_by, created_at, updated_at`

func scanMedia(row interface{ Scan(...any) error }) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.UUID, &m.Key, &m.Filename, &m.MimeType, &m.Size,
		&m.Width, &m.Height, &m.Alt, &m.UploadedBy, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMediaParams holds the fields for recording an upload.
type CreateMediaParams struct {
	UUID       string
	Key        string
	Filename   string
	MimeType   string
	Size       int64
	Width      sql.NullInt64
	Height     sql.NullInt64
	Alt        string
	UploadedBy int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateMedia inserts a new media record and returns the stored row.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO media (uuid, key, filename, mime_type, size, width, height,
			alt, uploaded_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+mediaColumns,
		arg.UUID, arg.Key, arg.Filename, arg.MimeType, arg.Size, arg.Width,
		arg.Height, arg.Alt, arg.UploadedBy, arg.CreatedAt, arg.UpdatedAt)
	return scanMedia(row)
}

// GetMediaByID fetches a media record by primary key.
func (q *Queries) GetMediaByID(ctx context.Context, id int64) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	return scanMedia(row)
}

// GetMediaByKey fetches a media record by storage key.
func (q *Queries) GetMediaByKey(ctx context.Context, key string) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE key = ?`, key)
	return scanMedia(row)
}

// ListMedia returns media records newest first.
func (q *Queries) ListMedia(ctx context.Context, limit, offset int64) ([]model.Media, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+mediaColumns+` FROM media
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CountMedia returns the total number of media records.
func (q *Queries) CountMedia(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	return n, err
}

// DeleteMedia removes a media record. Variants cascade.
func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	return err
}

// CreateMediaVariantParams holds the fields for recording a variant.
type CreateMediaVariantParams struct {
	MediaID   int64
	Type      string
	Width     int64
	Height    int64
	Size      int64
	CreatedAt time.Time
}

// CreateMediaVariant inserts a generated variant record.
func (q *Queries) CreateMediaVariant(ctx context.Context, arg CreateMediaVariantParams) (model.MediaVariant, error) {
	var v model.MediaVariant
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO media_variants (media_id, type, width, height, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, media_id, type, width, height, size, created_at`,
		arg.MediaID, arg.Type, arg.Width, arg.Height, arg.Size, arg.CreatedAt)
	err := row.Scan(&v.ID, &v.MediaID, &v.Type, &v.Width, &v.Height, &v.Size, &v.CreatedAt)
	return v, err
}

// ListMediaVariants returns the variants generated for a media record.
func (q *Queries) ListMediaVariants(ctx context.Context, mediaID int64) ([]model.MediaVariant, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, media_id, type, width, height, size, created_at
		FROM media_variants WHERE media_id = ? ORDER BY id`, mediaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []model.MediaVariant
	for rows.Next() {
		var v model.MediaVariant
		if err := rows.Scan(&v.ID, &v.MediaID, &v.Type, &v.Width, &v.Height,
			&v.Size, &v.CreatedAt); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
