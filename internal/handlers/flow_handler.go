package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/middleware"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/services"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/utils"
)

type FlowHandler struct {
	BaseHandler
	flowService services.FlowService
}

func NewFlowHandler(flowService services.FlowService, logger utils.Logger) *FlowHandler {
	return &FlowHandler{
		BaseHandler: NewBaseHandler(logger),
		flowService: flowService,
	}
}

// FlowResponse is the editable part of an assessment
type FlowResponse struct {
	AssessmentID uint                    `json:"assessmentId"`
	Version      int                     `json:"version"`
	Status       models.AssessmentStatus `json:"status"`
	Nodes        models.NodeList         `json:"nodes"`
	Edges        models.EdgeList         `json:"edges"`
}

func newFlowResponse(a *models.Assessment) FlowResponse {
	nodes, edges := a.Nodes, a.Edges
	if nodes == nil {
		nodes = models.NodeList{}
	}
	if edges == nil {
		edges = models.EdgeList{}
	}
	return FlowResponse{
		AssessmentID: a.ID,
		Version:      a.Version,
		Status:       a.Status,
		Nodes:        nodes,
		Edges:        edges,
	}
}

// CreateAssessment creates an empty draft
// @Router /assessments [post]
func (h *FlowHandler) CreateAssessment(c *gin.Context) {
	var req services.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating assessment", "title", req.Title)

	assessment, err := h.flowService.Create(c.Request.Context(), &req, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// ListAssessments lists the caller's assessments
// @Router /assessments [get]
func (h *FlowHandler) ListAssessments(c *gin.Context) {
	h.LogRequest(c, "Listing assessments")

	filters := parseAssessmentFilters(c)
	assessments, total, err := h.flowService.List(c.Request.Context(), filters, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Items:  assessments,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// GetAssessment retrieves an assessment with its flow
// @Router /assessments/{id} [get]
func (h *FlowHandler) GetAssessment(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	assessment, err := h.flowService.Get(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// GetFlow returns the stored graph
// @Router /assessments/{id}/flow [get]
func (h *FlowHandler) GetFlow(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	assessment, err := h.flowService.Get(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newFlowResponse(assessment))
}

// SaveFlow replaces the graph of a draft
// @Router /assessments/{id}/flow [put]
func (h *FlowHandler) SaveFlow(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.SaveGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Saving flow", "assessment_id", id, "nodes", len(req.Nodes), "edges", len(req.Edges))

	assessment, err := h.flowService.SaveGraph(c.Request.Context(), id, &req, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newFlowResponse(assessment))
}

// ValidateFlow returns structural diagnostics without changing anything
// @Router /assessments/{id}/flow/validate [post]
func (h *FlowHandler) ValidateFlow(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	report, err := h.flowService.Validate(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAncestors lists piping candidates for a node
// @Router /assessments/{id}/flow/nodes/{node_id}/ancestors [get]
func (h *FlowHandler) GetAncestors(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	nodeID := ParseStringIDParam(c, "node_id")
	if nodeID == "" {
		return
	}

	candidates, err := h.flowService.Ancestors(c.Request.Context(), id, nodeID, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidates)
}

// PublishAssessment freezes the flow and opens it to respondents
// @Router /assessments/{id}/publish [post]
func (h *FlowHandler) PublishAssessment(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Publishing assessment", "assessment_id", id)

	result, err := h.flowService.Publish(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assessment published successfully", result)
}

// ArchiveAssessment closes an assessment for good
// @Router /assessments/{id}/archive [post]
func (h *FlowHandler) ArchiveAssessment(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Archiving assessment", "assessment_id", id)

	if err := h.flowService.Archive(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assessment archived successfully", nil)
}

func parseAssessmentFilters(c *gin.Context) repositories.AssessmentFilters {
	filters := repositories.AssessmentFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: strings.ToLower(c.Query("sort_order")),
	}
	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	if status := c.Query("status"); status != "" {
		assessmentStatus := models.AssessmentStatus(status)
		filters.Status = &assessmentStatus
	}
	return filters
}
