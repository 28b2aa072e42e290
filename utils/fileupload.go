package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// AllowedImageTypes maps accepted content types to the extension used when storing them
var AllowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

func tooLarge() error {
	return &FileUploadError{
		Code:    "FILE_TOO_LARGE",
		Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
	}
}

func invalidFormat() error {
	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: "Only PNG, JPEG and WebP images are allowed",
	}
}

// Image is a decoded upload ready to be stored
type Image struct {
	Data        []byte
	ContentType string
}

// Ext returns the file extension for the image's content type
func (img Image) Ext() string {
	return AllowedImageTypes[img.ContentType]
}

// ValidateImage checks size and sniffs the content type of data.
// The sniffed type wins over whatever the client declared.
func ValidateImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, &FileUploadError{Code: "EMPTY_FILE", Message: "File is empty"}
	}
	if len(data) > MaxFileSize {
		return Image{}, tooLarge()
	}

	contentType := http.DetectContentType(data)
	if _, ok := AllowedImageTypes[contentType]; !ok {
		return Image{}, invalidFormat()
	}

	return Image{Data: data, ContentType: contentType}, nil
}

// DecodeImageDataURL decodes a base64 "data:image/...;base64," URL and validates it
func DecodeImageDataURL(dataURL string) (Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(dataURL), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return Image{}, &FileUploadError{Code: "INVALID_DATA_URL", Message: "Image must be a base64 data URL"}
	}

	// base64 inflates by 4/3; reject before decoding anything huge
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxFileSize+3 {
		return Image{}, tooLarge()
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, &FileUploadError{Code: "INVALID_DATA_URL", Message: "Image data is not valid base64"}
	}

	return ValidateImage(data)
}

// ReadImageFile reads and validates an uploaded multipart image
func ReadImageFile(fileHeader *multipart.FileHeader) (img Image, err error) {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return Image{}, tooLarge()
	}

	src, err := fileHeader.Open()
	if err != nil {
		return Image{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close uploaded file: %w", closeErr)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(src, MaxFileSize+1)); err != nil {
		return Image{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return ValidateImage(buf.Bytes())
}

// GenerateImageKey builds a unique object key under prefix, e.g. "furniture/20250075/<uuid>.png"
func GenerateImageKey(prefix string, img Image) string {
	return fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.New().String(), img.Ext())
}

// SaveFile writes data to uploadDir/key, creating directories as needed
func SaveFile(uploadDir, key string, data []byte) error {
	fullPath, err := SafeJoin(uploadDir, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

// SafeJoin joins key onto dir and rejects keys escaping dir
func SafeJoin(dir, key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" {
		return "", &FileUploadError{Code: "INVALID_FILENAME", Message: "Invalid file name"}
	}
	return filepath.Join(dir, cleaned), nil
}

// GetImageURL returns the URL path for accessing a locally stored image
func GetImageURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/uploads/%s", key)
}
