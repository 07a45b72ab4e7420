package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/middleware"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/services"
)

// ExportController serves entity data as downloadable JSON or CSV.
type ExportController struct {
	exportService services.ExportService
	timeout       time.Duration
}

func NewExportController(es services.ExportService) *ExportController {
	return &ExportController{
		exportService: es,
		timeout:       DefaultContextTimeout,
	}
}

// Export handles GET /export?entity=&format=&startDate=&endDate=.
func (ctl *ExportController) Export(c *gin.Context) {
	req := models.ExportRequest{
		Entity: strings.ToLower(strings.TrimSpace(c.DefaultQuery("entity", models.EntityAll))),
		Format: strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", models.FormatJSON))),
	}

	dateRange, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Range = dateRange

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	file, svcErr := ctl.exportService.Export(ctx, req, middleware.Actor(c))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// parseDateRange reads the optional inclusive startDate/endDate bounds.
// Dates may be plain days or full RFC3339 timestamps; a day-only end
// bound covers that entire day.
func parseDateRange(c *gin.Context) (models.DateRange, error) {
	var dr models.DateRange

	if raw := strings.TrimSpace(c.Query("startDate")); raw != "" {
		t, _, err := parseDateParam(raw)
		if err != nil {
			return dr, fmt.Errorf("invalid startDate %q", raw)
		}
		dr.Start = &t
	}
	if raw := strings.TrimSpace(c.Query("endDate")); raw != "" {
		t, dayOnly, err := parseDateParam(raw)
		if err != nil {
			return dr, fmt.Errorf("invalid endDate %q", raw)
		}
		if dayOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		dr.End = &t
	}
	if dr.Start != nil && dr.End != nil && dr.Start.After(*dr.End) {
		return dr, fmt.Errorf("startDate must not be after endDate")
	}
	return dr, nil
}

func parseDateParam(raw string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
