package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/api/metrics"
	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
	"github.com/dealspot/dealspot/internal/export"
)

// reserved query parameters; everything else is passed on as a filter.
var exportParams = map[string]bool{"format": true, "sortField": true, "sortOrder": true}

// ExportHandler serves bulk exports as a direct download or, for large
// result sets, as a server-sent-event stream.
type ExportHandler struct {
	service   ports.ExportService
	threshold int64
}

func NewExportHandler(service ports.ExportService) *ExportHandler {
	return &ExportHandler{service: service, threshold: export.StreamThreshold}
}

// Export handles GET /v1/dashboard/export/:entity.
//
// @Summary      Export records
// @Description  Below 1000 matching records the file is returned as an attachment. Otherwise the response is a text/event-stream of progress events ending with one event that carries the base64 file.
// @Tags         dashboard
// @Produce      plain
// @Produce      octet-stream
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        entity     path      string  true   "deals, users, subscribers, stores or comments"
// @Param        format     query     string  false  "txt (default) or xlsx"
// @Param        sortField  query     string  false  "Sort field"
// @Param        sortOrder  query     string  false  "asc or desc"
// @Success      200        {file}    file
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /v1/dashboard/export/{entity} [get]
func (h *ExportHandler) Export(c echo.Context) error {
	ctx := c.Request().Context()
	req := toExportRequest(c)
	start := time.Now()

	job, err := h.service.Prepare(ctx, req)
	if err != nil {
		return err
	}

	total, err := job.Count(ctx)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(req.Entity, "direct", "error").Inc()
		return err
	}
	if total == 0 {
		metrics.ExportsTotal.WithLabelValues(req.Entity, "direct", "empty").Inc()
		return domain.ErrNoExportData
	}

	if total < h.threshold {
		err = h.direct(c, job)
		observeExport(req.Entity, "direct", start, err)
		return err
	}

	err = h.stream(c, job)
	observeExport(req.Entity, "stream", start, err)
	return nil
}

func (h *ExportHandler) direct(c echo.Context, job export.Job) error {
	file, err := job.Direct(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

// stream writes one `data: <json>` line per event. Failures after the
// headers are sent reach the client as an ErrorEvent.
func (h *ExportHandler) stream(c echo.Context, job export.Job) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.Header().Set("X-Export-Id", uuid.NewString())
	res.WriteHeader(http.StatusOK)
	res.Flush()

	return job.Stream(c.Request().Context(), export.SinkFunc(func(event any) error {
		return writeEvent(res, event)
	}))
}

func writeEvent(res *echo.Response, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
		return err
	}
	res.Flush()
	return nil
}

func toExportRequest(c echo.Context) ports.ExportRequest {
	req := ports.ExportRequest{
		Entity:    c.Param("entity"),
		Format:    c.QueryParam("format"),
		SortField: c.QueryParam("sortField"),
		SortOrder: c.QueryParam("sortOrder"),
		Filters:   map[string]string{},
	}
	for key, values := range c.QueryParams() {
		if exportParams[key] || len(values) == 0 {
			continue
		}
		req.Filters[key] = values[0]
	}
	return req
}

func observeExport(entity, mode string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrNoExportData):
		result = "empty"
	case err != nil:
		result = "error"
	}
	metrics.ExportsTotal.WithLabelValues(entity, mode, result).Inc()
	metrics.ExportDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
