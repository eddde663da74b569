package services

import (
	"errors"
	"fmt"

	apperrors "github.com/himanshudube97/Assessment-builder-sub000/internal/errors"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/flow"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Assessment specific errors
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrAssessmentAccessDenied = errors.New("access denied to assessment")
	ErrAssessmentNotEditable  = errors.New("assessment cannot be edited in current status")
	ErrAssessmentNotPublished = errors.New("assessment is not published")

	// Run specific errors
	ErrRunNotFound     = errors.New("run not found or expired")
	ErrGraphChanged    = errors.New("flow changed since the run started")
	ErrInviteNotFound  = repositories.ErrInviteNotFound
	ErrInviteExpired   = repositories.ErrInviteExpired
	ErrInviteExhausted = repositories.ErrInviteExhausted

	ErrResponseLimitReached = repositories.ErrResponseLimitReached

	// Export
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// PublishBlockedError carries the diagnostics that stopped a publish.
type PublishBlockedError struct {
	Diagnostics []flow.Diagnostic `json:"diagnostics"`
}

func (e *PublishBlockedError) Error() string {
	return fmt.Sprintf("flow has %d blocking issue(s)", len(flow.Errors(e.Diagnostics)))
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrRunNotFound) ||
		errors.Is(err, ErrInviteNotFound) ||
		errors.Is(err, repositories.ErrNotFound) ||
		errors.Is(err, flow.ErrUnknownNode)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrAssessmentAccessDenied)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUnsupportedFormat) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var ae *flow.AnswerError
	return errors.As(err, &ae)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	if errors.As(err, &bre) {
		return true
	}
	var pbe *PublishBlockedError
	return errors.As(err, &pbe)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAssessmentNotEditable) ||
		errors.Is(err, ErrGraphChanged) ||
		errors.Is(err, flow.ErrNodeMismatch) ||
		errors.Is(err, flow.ErrRunComplete) ||
		errors.Is(err, flow.ErrNoHistory)
}

// IsGone checks if error means the resource can no longer admit anyone
func IsGone(err error) bool {
	return errors.Is(err, ErrInviteExpired) ||
		errors.Is(err, ErrInviteExhausted) ||
		errors.Is(err, ErrResponseLimitReached) ||
		errors.Is(err, ErrAssessmentNotPublished)
}
