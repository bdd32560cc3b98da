package service

import (
	"context"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rescuelink/api/internal/storage"
	"github.com/rescuelink/api/internal/validation"
)

type ImageService struct {
	storage storage.Storage
}

// NewImageService accepts a nil storage; uploads then fail with ErrStorageDisabled.
func NewImageService(storage storage.Storage) *ImageService {
	return &ImageService{storage: storage}
}

func (s *ImageService) Enabled() bool {
	return s.storage != nil
}

// Upload stores a case image under cases/ and returns the URL to use as image_url.
func (s *ImageService) Upload(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}

	contentType, err := validation.Image(file, header)
	if err != nil {
		return "", ValidationError([]validation.FieldError{{Field: "image", Message: err.Error()}})
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	storagePath := "cases/" + uuid.New().String() + ext

	if err := s.storage.Save(ctx, storagePath, file, contentType); err != nil {
		return "", upstream("Failed to store image", err)
	}

	slog.Info("case image uploaded", "user_id", userID, "path", storagePath, "size", header.Size)
	return s.storage.URL(storagePath), nil
}
