package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.uber.org/zap"
)

// ImportController ingests uploaded JSON/CSV files into an entity
// collection.
type ImportController struct {
	importService services.ImportService
	cache         *CacheManager
	validator     *RequestValidator
	logger        *zap.Logger
	timeout       time.Duration
}

func NewImportController(is services.ImportService, cache *CacheManager, validator *RequestValidator, logger *zap.Logger) *ImportController {
	return &ImportController{
		importService: is,
		cache:         cache,
		validator:     validator,
		logger:        logger,
		timeout:       DefaultContextTimeout,
	}
}

// Import handles POST /import (multipart: file, entity, mode,
// validateOnly).
func (ctl *ImportController) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	// Size gate runs before the file is read or parsed at all.
	if fileHeader.Size > services.MaxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("import file too large (max %dMB)", services.MaxImportSize/(1024*1024)),
		})
		return
	}

	entity := strings.ToLower(strings.TrimSpace(c.PostForm("entity")))
	if entity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity is required"})
		return
	}

	mode := models.ImportMode(strings.ToLower(c.DefaultPostForm("mode", string(models.ImportModeCreate))))
	validateOnly, err := strconv.ParseBool(c.DefaultPostForm("validateOnly", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validateOnly must be a boolean"})
		return
	}

	format, err := ctl.validator.ImportFormat(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHandle, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer fileHandle.Close()

	data, err := io.ReadAll(fileHandle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, svcErr := ctl.importService.Import(ctx, services.ImportRequest{
		Entity:       entity,
		Mode:         mode,
		ValidateOnly: validateOnly,
		Format:       format,
		Data:         data,
	})
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	// Imported products change what the storefront lists.
	if !validateOnly && entity == models.EntityProducts && result.SuccessCount > 0 {
		if err := ctl.cache.Invalidate(ctx); err != nil {
			ctl.logger.Error("Failed to invalidate cache after import", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": result,
	})
}
