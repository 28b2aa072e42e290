package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadController serves images kept in the local store
type UploadController struct {
	Store *services.LocalStore
	Log   *zap.Logger
}

// contentTypeForExt returns the content type stored under ext, or ""
func contentTypeForExt(ext string) string {
	for contentType, e := range utils.AllowedImageTypes {
		if e == ext {
			return contentType
		}
	}
	return ""
}

// GetUploadedImage handles GET /api/v1/uploads/*key - serves uploaded images
func (h *UploadController) GetUploadedImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	// Validate key is not empty
	if key == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Security: Prevent directory traversal attacks
	if strings.Contains(key, "..") || strings.Contains(key, "\\") {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType := contentTypeForExt(strings.ToLower(filepath.Ext(key)))
	if contentType == "" {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG, JPEG and WebP files are supported")
		return
	}

	path, err := h.Store.Path(key)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to read image")
		return
	}

	// Serve the file with appropriate headers
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(path)
}
