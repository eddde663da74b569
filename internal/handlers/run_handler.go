package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/services"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/utils"
)

// RunHandler serves respondents. These routes are public; admission is decided by the
// assessment's status, its response limit and the optional invite token.
type RunHandler struct {
	BaseHandler
	runService services.RunService
}

func NewRunHandler(runService services.RunService, logger utils.Logger) *RunHandler {
	return &RunHandler{
		BaseHandler: NewBaseHandler(logger),
		runService:  runService,
	}
}

// StartRun opens a session on a published assessment
// @Router /assessments/{id}/runs [post]
func (h *RunHandler) StartRun(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	// The body is optional: an empty POST starts an anonymous run.
	var req services.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if token := c.Query("invite"); token != "" && req.InviteToken == "" {
		req.InviteToken = token
	}

	h.LogRequest(c, "Starting run", "assessment_id", id, "invited", req.InviteToken != "")

	view, err := h.runService.Start(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetRun returns the current screen of a session
// @Router /runs/{session_id} [get]
func (h *RunHandler) GetRun(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}

	view, err := h.runService.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitAnswer answers the current screen and moves on
// @Router /runs/{session_id}/answers [post]
func (h *RunHandler) SubmitAnswer(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}

	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	view, err := h.runService.Answer(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GoBack returns to the previous screen
// @Router /runs/{session_id}/back [post]
func (h *RunHandler) GoBack(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}

	view, err := h.runService.Back(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
