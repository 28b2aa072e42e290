package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
)

// ImageService handles all image-related operations including upload, retrieval, and deletion
type ImageService struct {
	store ObjectStore
}

// NewImageService creates an image service over store
func NewImageService(store ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// UploadDataURL validates a base64 data URL image and stores it under prefix.
// Returns the storage key.
func (s *ImageService) UploadDataURL(ctx context.Context, prefix, dataURL string) (string, error) {
	img, err := utils.DecodeImageDataURL(dataURL)
	if err != nil {
		return "", err
	}
	return s.put(ctx, prefix, img)
}

// UploadFile validates a multipart image and stores it under prefix.
// Returns the storage key.
func (s *ImageService) UploadFile(ctx context.Context, prefix string, fileHeader *multipart.FileHeader) (string, error) {
	img, err := utils.ReadImageFile(fileHeader)
	if err != nil {
		return "", err
	}
	return s.put(ctx, prefix, img)
}

func (s *ImageService) put(ctx context.Context, prefix string, img utils.Image) (string, error) {
	key := utils.GenerateImageKey(prefix, img)
	if err := s.store.Put(ctx, key, img.Data, img.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL generates a URL for accessing an image
func (s *ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.store.URL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// ResolveURL returns the image URL for an optional key, or nil
func (s *ImageService) ResolveURL(ctx context.Context, imageKey *string) *string {
	if imageKey == nil || *imageKey == "" {
		return nil
	}
	url, err := s.GetImageURL(ctx, *imageKey)
	if err != nil || url == "" {
		return nil
	}
	return &url
}

// DeleteImage removes an image from storage
func (s *ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.store.Delete(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
