package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/middleware"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/services"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse wraps one page of a list endpoint
type ListResponse struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// log returns the request-scoped logger set by utils.RequestLogger, if any.
func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", middleware.Actor(c),
	}
	fields = append(fields, additionalFields...)

	h.log(c).Debug(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", middleware.Actor(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.log(c).LogError(err, message, fields...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", middleware.Actor(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.log(c).Warn(message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
	}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}
	if len(details) > 1 {
		if code, ok := details[1].(string); ok {
			errorResp.Code = code
		}
	}

	if statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode, "error", err)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// handleServiceError maps service errors to HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	formatted := services.FormatError(err)
	code, _ := formatted["type"].(string)
	delete(formatted, "message")
	delete(formatted, "type")
	var details interface{}
	if len(formatted) > 0 {
		details = formatted
	}

	var blocked *services.PublishBlockedError
	var rule *services.BusinessRuleError

	switch {
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, validationMessage(err), err, details, code)
	case errors.As(err, &blocked):
		h.RespondWithError(c, http.StatusUnprocessableEntity, "Flow has blocking issues", err, details, code)
	case errors.As(err, &rule):
		h.RespondWithError(c, http.StatusUnprocessableEntity, rule.Message, err, details, code)
	case errors.Is(err, services.ErrUnauthorized):
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err, nil, code)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusForbidden, err.Error(), err, nil, code)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, err.Error(), err, nil, code)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, err.Error(), err, nil, code)
	case services.IsGone(err):
		h.RespondWithError(c, http.StatusGone, err.Error(), err, nil, code)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

func validationMessage(err error) string {
	var verrs services.ValidationErrors
	if errors.As(err, &verrs) {
		return "Validation failed"
	}
	return err.Error()
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "assessment-builder",
	})
}
