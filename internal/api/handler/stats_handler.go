package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/ports"
	"github.com/dealspot/dealspot/internal/preview"
)

type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Dashboard handles GET /v1/dashboard/stats.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Stats
// @Failure      403  {object}  errorResponse
// @Router       /v1/dashboard/stats [get]
func (h *StatsHandler) Dashboard(c echo.Context) error {
	stats, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Previewer fetches link metadata used to pre-fill deal forms.
type Previewer interface {
	Fetch(ctx context.Context, rawURL string) (*preview.Page, error)
}

type PreviewHandler struct {
	previewer Previewer
}

func NewPreviewHandler(previewer Previewer) *PreviewHandler {
	return &PreviewHandler{previewer: previewer}
}

// Preview handles GET /v1/dashboard/preview.
//
// @Summary      Extract title, description and image from a URL
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        url  query     string  true  "Page URL"
// @Success      200  {object}  preview.Page
// @Failure      400  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/dashboard/preview [get]
func (h *PreviewHandler) Preview(c echo.Context) error {
	raw := c.QueryParam("url")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}
	page, err := h.previewer.Fetch(c.Request().Context(), raw)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
