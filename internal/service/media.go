// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/konkandarshan/konkan/internal/imaging"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/store"
	"github.com/konkandarshan/konkan/internal/util"
)

// DefaultUploadDir is used when no upload directory is configured.
const DefaultUploadDir = "./uploads"

// Upload validation errors. Handlers map these to field errors without
// touching disk or the database.
var (
	ErrFileTooLarge    = fmt.Errorf("file size exceeds maximum allowed (%d bytes)", model.MaxUploadSize)
	ErrUnsupportedType = errors.New("only image files can be uploaded")
	ErrMediaNotFound   = errors.New("media not found")
)

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// UploadResult contains the stored media record and its generated variants.
type UploadResult struct {
	Media    model.Media
	Variants []model.MediaVariant
}

// MediaService handles image uploads, variant generation and deletion.
type MediaService struct {
	queries   *store.Queries
	processor *imaging.Processor
	uploadDir string
}

// NewMediaService creates a new media service.
func NewMediaService(db *sql.DB, uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// ValidateUpload checks size and MIME type before any disk or database
// work. Returns ErrFileTooLarge or ErrUnsupportedType.
func (s *MediaService) ValidateUpload(header *multipart.FileHeader) error {
	if header.Size > model.MaxUploadSize {
		return ErrFileTooLarge
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = imageMimeFromExtension(header.Filename)
	}
	if !model.IsSupportedImageType(mimeType) {
		return ErrUnsupportedType
	}
	return nil
}

// Upload validates, processes and stores an uploaded image. The storage
// key combines the upload timestamp with the sanitized original filename
// so keys stay unique and URLs stay readable.
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, userID int64, alt string) (*UploadResult, error) {
	if err := s.ValidateUpload(header); err != nil {
		return nil, err
	}

	fileUUID := uuid.New().String()
	key := MakeStorageKey(header.Filename)

	processResult, err := s.processor.ProcessImage(file, fileUUID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	now := time.Now()
	media, err := s.queries.CreateMedia(ctx, store.CreateMediaParams{
		UUID:       fileUUID,
		Key:        key,
		Filename:   filepath.Base(header.Filename),
		MimeType:   processResult.MimeType,
		Size:       processResult.Size,
		Width:      util.NullInt64FromValue(int64(processResult.Width)),
		Height:     util.NullInt64FromValue(int64(processResult.Height)),
		Alt:        alt,
		UploadedBy: userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		_ = s.processor.DeleteMediaFiles(fileUUID)
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}
	media.URL = s.GetURL(media, "")

	result := UploadResult{Media: media}

	variants, err := s.processor.CreateAllVariants(processResult.FilePath, fileUUID, key)
	if err != nil {
		// The original is already stored, missing variants are not fatal
		slog.Warn("failed to create some image variants", "media_id", media.ID, "error", err)
	}
	for _, v := range variants {
		variant, err := s.queries.CreateMediaVariant(ctx, store.CreateMediaVariantParams{
			MediaID:   media.ID,
			Type:      v.Type,
			Width:     int64(v.Width),
			Height:    int64(v.Height),
			Size:      v.Size,
			CreatedAt: now,
		})
		if err != nil {
			slog.Warn("failed to store variant record", "media_id", media.ID, "type", v.Type, "error", err)
			continue
		}
		result.Variants = append(result.Variants, variant)
	}

	return &result, nil
}

// Delete removes a media record, its variants and its files.
func (s *MediaService) Delete(ctx context.Context, mediaID int64) error {
	media, err := s.queries.GetMediaByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMediaNotFound
		}
		return fmt.Errorf("failed to get media: %w", err)
	}

	// Variants cascade with the media row
	if err := s.queries.DeleteMedia(ctx, mediaID); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}

	if err := s.processor.DeleteMediaFiles(media.UUID); err != nil {
		// DB records are already gone, leave the orphaned files to a cleanup pass
		slog.Warn("failed to delete media files", "media_id", mediaID, "error", err)
	}
	return nil
}

// DeleteByURL deletes the media record whose storage key matches the last
// path segment of url. URLs that do not point at an upload are ignored.
func (s *MediaService) DeleteByURL(ctx context.Context, url string) error {
	key := path.Base(strings.TrimSuffix(url, "/"))
	if key == "" || key == "." || key == "/" {
		return nil
	}
	media, err := s.queries.GetMediaByKey(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to look up media by key: %w", err)
	}
	return s.Delete(ctx, media.ID)
}

// List returns a page of media records newest first, plus the total count.
func (s *MediaService) List(ctx context.Context, limit, offset int64) ([]model.Media, int64, error) {
	items, err := s.queries.ListMedia(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountMedia(ctx)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].URL = s.GetURL(items[i], "")
	}
	return items, total, nil
}

// GetURL returns the serving path for a media item or one of its variants.
func (s *MediaService) GetURL(media model.Media, variant string) string {
	if variant == "" || variant == "original" {
		return fmt.Sprintf("/uploads/originals/%s/%s", media.UUID, media.Key)
	}
	return fmt.Sprintf("/uploads/%s/%s/%s", variant, media.UUID, media.Key)
}

// GetThumbnailURL returns the thumbnail URL for a media item.
func (s *MediaService) GetThumbnailURL(media model.Media) string {
	return s.GetURL(media, model.VariantThumbnail)
}

// MakeStorageKey builds a storage key from an original filename by
// prefixing the upload time in milliseconds and replacing every
// character outside [a-zA-Z0-9.-] with an underscore.
func MakeStorageKey(filename string) string {
	name := filepath.Base(filename)
	name = keySanitizer.ReplaceAllString(name, "_")
	if name == "" || name == "." {
		name = "upload"
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), name)
}

func imageMimeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
