package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/middleware"
	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/pkg/export"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

type analyticsService interface {
	PlatformStats(ctx context.Context) (*models.PlatformStats, bool, error)
	ExportPlatformStats(ctx context.Context, format string) ([]byte, export.Renderer, error)
}

// AnalyticsHandler exposes platform statistics.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// PlatformStats godoc
// @Summary Platform statistics
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /analytics/platform-stats [get]
func (h *AnalyticsHandler) PlatformStats(c *gin.Context) {
	start := time.Now()
	stats, cacheHit, err := h.analytics.PlatformStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, stats, nil, meta)
}

// Export godoc
// @Summary Export platform statistics
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /analytics/platform-stats/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	body, renderer, err := h.analytics.ExportPlatformStats(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("platform-stats-%s.%s", time.Now().UTC().Format("20060102"), renderer.Extension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, renderer.ContentType(), body)
}
