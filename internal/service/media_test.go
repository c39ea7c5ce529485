// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"regexp"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konkandarshan/konkan/internal/model"
)

func TestMakeStorageKey(t *testing.T) {
	pattern := regexp.MustCompile(`^\d+_[a-zA-Z0-9._-]+$`)

	tests := []struct {
		input string
		want  string // sanitized suffix after the timestamp prefix
	}{
		{"normal.jpg", "normal.jpg"},
		{"beach photo.jpg", "beach_photo.jpg"},
		{"tarkarli's beach.png", "tarkarli_s_beach.png"},
		{"path/to/file.jpg", "file.jpg"},
		{"konkan#2026?.webp", "konkan_2026_.webp"},
		{"देवबाग.jpg", "______.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := MakeStorageKey(tt.input)
			if !pattern.MatchString(got) {
				t.Fatalf("MakeStorageKey(%q) = %q, want timestamp_name form", tt.input, got)
			}
			_, suffix, _ := strings.Cut(got, "_")
			if suffix != tt.want {
				t.Errorf("MakeStorageKey(%q) suffix = %q, want %q", tt.input, suffix, tt.want)
			}
		})
	}
}

func TestImageMimeFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"image.jpg", model.MimeTypeJPEG},
		{"image.jpeg", model.MimeTypeJPEG},
		{"IMAGE.JPG", model.MimeTypeJPEG},
		{"photo.png", model.MimeTypePNG},
		{"animation.gif", model.MimeTypeGIF},
		{"modern.webp", model.MimeTypeWebP},
		{"document.pdf", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := imageMimeFromExtension(tt.filename); got != tt.want {
				t.Errorf("imageMimeFromExtension(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestValidateUpload(t *testing.T) {
	svc := NewMediaService(nil, t.TempDir())

	header := func(name, contentType string, size int64) *multipart.FileHeader {
		h := &multipart.FileHeader{
			Filename: name,
			Size:     size,
			Header:   textproto.MIMEHeader{},
		}
		if contentType != "" {
			h.Header.Set("Content-Type", contentType)
		}
		return h
	}

	t.Run("valid image", func(t *testing.T) {
		err := svc.ValidateUpload(header("beach.jpg", "image/jpeg", 1024))
		assert.NoError(t, err)
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		err := svc.ValidateUpload(header("beach.jpg", "image/jpeg", model.MaxUploadSize+1))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("non-image rejected", func(t *testing.T) {
		err := svc.ValidateUpload(header("brochure.pdf", "application/pdf", 1024))
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("missing content type falls back to extension", func(t *testing.T) {
		assert.NoError(t, svc.ValidateUpload(header("beach.png", "", 1024)))
		assert.ErrorIs(t, svc.ValidateUpload(header("notes.txt", "", 1024)), ErrUnsupportedType)
	})
}

func setupMediaTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE media (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			key TEXT NOT NULL UNIQUE,
			filename TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			size INTEGER NOT NULL,
			width INTEGER,
			height INTEGER,
			alt TEXT NOT NULL DEFAULT '',
			uploaded_by INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE TABLE media_variants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			media_id INTEGER NOT NULL,
			type TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			size INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);
	`)
	require.NoError(t, err)
	return db
}

// uploadTestForm builds a parsed multipart form holding a generated PNG.
func uploadTestForm(t *testing.T, filename string, width, height int) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	partHeader.Set("Content-Type", "image/png")
	part, err := w.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&body, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	header := form.File["file"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return file, header
}

func TestMediaUploadAndDelete(t *testing.T) {
	db := setupMediaTestDB(t)
	uploadDir := t.TempDir()
	svc := NewMediaService(db, uploadDir)
	ctx := context.Background()

	file, header := uploadTestForm(t, "malvan beach.png", 400, 300)

	result, err := svc.Upload(ctx, file, header, 1, "Malvan beach at sunset")
	require.NoError(t, err)

	media := result.Media
	assert.Equal(t, "malvan beach.png", media.Filename)
	assert.Equal(t, model.MimeTypePNG, media.MimeType)
	assert.True(t, strings.HasSuffix(media.Key, "_malvan_beach.png"))
	assert.Equal(t, int64(400), media.Width.Int64)
	assert.Equal(t, int64(300), media.Height.Int64)
	assert.Equal(t, "Malvan beach at sunset", media.Alt)
	assert.Equal(t, "/uploads/originals/"+media.UUID+"/"+media.Key, media.URL)

	// 400x300 clears the 150x150 thumbnail but fits inside the 800x600
	// medium bounds, so only the thumbnail is generated.
	require.Len(t, result.Variants, 1)
	assert.Equal(t, model.VariantThumbnail, result.Variants[0].Type)
	assert.Equal(t, int64(150), result.Variants[0].Width)

	originalPath := uploadDir + "/originals/" + media.UUID + "/" + media.Key
	_, err = os.Stat(originalPath)
	require.NoError(t, err, "original file should exist on disk")

	items, total, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	require.NoError(t, svc.Delete(ctx, media.ID))
	_, _, err = svc.List(ctx, 10, 0)
	require.NoError(t, err)
	if _, err := os.Stat(originalPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected original file to be removed, stat err = %v", err)
	}
}

func TestMediaDeleteByURL(t *testing.T) {
	db := setupMediaTestDB(t)
	svc := NewMediaService(db, t.TempDir())
	ctx := context.Background()

	file, header := uploadTestForm(t, "devbag.png", 200, 200)
	result, err := svc.Upload(ctx, file, header, 1, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByURL(ctx, result.Media.URL))

	_, total, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Unknown and malformed URLs are a no-op
	assert.NoError(t, svc.DeleteByURL(ctx, "/uploads/originals/none/12345_missing.png"))
	assert.NoError(t, svc.DeleteByURL(ctx, "https://example.com/external.jpg"))
}
