package controllers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/trahoangdev/kureno-sub000/models"
)

// Allowed import file extensions by declared format.
var (
	jsonImportExtensions = map[string]bool{".json": true}
	csvImportExtensions  = map[string]bool{".csv": true, ".txt": true}
)

// RequestValidator handles request parsing and input validation shared
// across controllers.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// ParsePagination validates and parses pagination parameters.
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	pageStr := c.DefaultQuery("page", "1")
	perPageStr := c.DefaultQuery("perPage", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, 0, errors.New("invalid page number")
	}
	if page > MaxPageNumber {
		page = MaxPageNumber
	}

	perPage, err := strconv.Atoi(perPageStr)
	if err != nil || perPage < 1 {
		return 0, 0, errors.New("invalid page size")
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	return page, perPage, nil
}

// BindJSON binds the request body into req and runs struct validation.
func (rv *RequestValidator) BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := rv.validate.Struct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ImportFormat maps an uploaded filename and content type onto the
// import parser to use.
func (rv *RequestValidator) ImportFormat(filename, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case jsonImportExtensions[ext]:
		return models.FormatJSON, nil
	case csvImportExtensions[ext]:
		return models.FormatCSV, nil
	}

	switch contentType {
	case "application/json":
		return models.FormatJSON, nil
	case "text/csv", "application/csv", "text/plain":
		return models.FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported file type %q; only JSON and CSV files are allowed", filename)
}
