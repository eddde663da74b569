package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/analytics"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/middleware"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/services"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/utils"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// ReportHandler serves analytics, single responses and exports to the owner.
type ReportHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewReportHandler(analyticsService services.AnalyticsService, exportService services.ExportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetAnalytics returns the response summary
// @Router /assessments/{id}/analytics [get]
func (h *ReportHandler) GetAnalytics(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	opts := analytics.Options{
		Days:    parseIntQuery(c, "days", analytics.DefaultTimelineDays),
		Buckets: parseIntQuery(c, "buckets", analytics.DefaultScoreBuckets),
	}
	if opts.Days < 0 || opts.Days > analytics.MaxTimelineDays {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid days",
			nil, fmt.Sprintf("days must be between 1 and %d", analytics.MaxTimelineDays), "validation")
		return
	}
	if opts.Buckets < 0 || opts.Buckets > analytics.MaxScoreBuckets {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid buckets",
			nil, fmt.Sprintf("buckets must be between 1 and %d", analytics.MaxScoreBuckets), "validation")
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), id, opts, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetResponse returns one completed response
// @Router /assessments/{id}/responses/{response_id} [get]
func (h *ReportHandler) GetResponse(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	responseID := ParseStringIDParam(c, "response_id")
	if responseID == "" {
		return
	}

	response, err := h.analyticsService.GetResponse(c.Request.Context(), id, responseID, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExportResponses downloads responses as xlsx (default) or csv
// @Router /assessments/{id}/responses/export [get]
func (h *ReportHandler) ExportResponses(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	req := models.ExportRequest{
		AssessmentID: id,
		Format:       models.ExportFormat(c.DefaultQuery("format", string(models.ExportXLSX))),
	}
	var ok bool
	if req.DateFrom, ok = parseDateQuery(c, "date_from", false); !ok {
		return
	}
	if req.DateTo, ok = parseDateQuery(c, "date_to", true); !ok {
		return
	}

	h.LogRequest(c, "Exporting responses", "assessment_id", id, "format", req.Format)

	body, filename, err := h.exportService.Export(c.Request.Context(), &req, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	contentType := contentTypeXLSX
	if req.Format == models.ExportCSV {
		contentType = contentTypeCSV
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	c.Data(http.StatusOK, contentType, body)
}
