package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.uber.org/zap"
)

const (
	defaultPresignExpirySeconds = 900
	maxPresignExpirySeconds     = 3600
)

var allowedUploadContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type UploadController struct {
	media   *services.MediaService
	logger  *zap.Logger
	timeout time.Duration
}

func NewUploadController(media *services.MediaService, logger *zap.Logger) *UploadController {
	return &UploadController{
		media:   media,
		logger:  logger,
		timeout: DefaultContextTimeout,
	}
}

// PresignUpload handles GET /uploads/presign?filename=&contentType=.
// The browser uploads the file bytes to S3 directly; this endpoint only
// mints the URL.
func (ctl *UploadController) PresignUpload(c *gin.Context) {
	if !ctl.media.Enabled() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "media uploads are not configured"})
		return
	}

	filename := strings.TrimSpace(c.Query("filename"))
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename query parameter is required"})
		return
	}
	contentType := strings.TrimSpace(c.Query("contentType"))
	if !allowedUploadContentTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid content type %q; images only", contentType)})
		return
	}
	folder := strings.TrimSpace(c.DefaultQuery("folder", "media"))

	expires := int64(defaultPresignExpirySeconds)
	if raw := c.Query("expires"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires must be a positive number of seconds"})
			return
		}
		if parsed > maxPresignExpirySeconds {
			parsed = maxPresignExpirySeconds
		}
		expires = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	uploadURL, key, publicURL, err := ctl.media.PresignUpload(ctx, folder, filename, contentType, expires)
	if err != nil {
		ctl.logger.Error("Failed to presign upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": uploadURL,
		"key":       key,
		"publicUrl": publicURL,
		"expiresIn": expires,
	})
}
