package services

import (
	"fmt"
	"testing"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/flow"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		classify func(error) bool
	}{
		{"wrapped assessment not found", fmt.Errorf("load: %w", ErrAssessmentNotFound), IsNotFound},
		{"repository not found", repositories.ErrNotFound, IsNotFound},
		{"unknown node", flow.ErrUnknownNode, IsNotFound},
		{"validation list", ValidationErrors{{Field: "title", Message: "is required"}}, IsValidation},
		{"answer error", &flow.AnswerError{NodeID: "q1", Reason: "required"}, IsValidation},
		{"unsupported format", ErrUnsupportedFormat, IsValidation},
		{"publish blocked", &PublishBlockedError{}, IsBusinessRule},
		{"graph changed", ErrGraphChanged, IsConflict},
		{"node mismatch", flow.ErrNodeMismatch, IsConflict},
		{"expired invite", ErrInviteExpired, IsGone},
		{"limit reached", fmt.Errorf("submit: %w", repositories.ErrResponseLimitReached), IsGone},
		{"not published", ErrAssessmentNotPublished, IsGone},
		{"access denied", ErrAssessmentAccessDenied, IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.classify(tt.err))
		})
	}

	assert.False(t, IsNotFound(ErrGraphChanged))
	assert.False(t, IsGone(ErrAssessmentNotFound))
}

func TestFormatError(t *testing.T) {
	assert.Nil(t, FormatError(nil))

	formatted := FormatError(ValidationErrors{{Field: "title", Message: "is required"}})
	assert.Equal(t, "validation", formatted["type"])
	assert.Equal(t, 1, formatted["count"])

	blocked := FormatError(&PublishBlockedError{Diagnostics: []flow.Diagnostic{{Code: flow.CodeMissingExit, Severity: flow.SeverityError}}})
	assert.Equal(t, "publish_blocked", blocked["type"])
	assert.Len(t, blocked["diagnostics"], 1)

	rule := FormatError(NewBusinessRuleError("invalid-status-transition", "no", nil))
	assert.Equal(t, "business_rule", rule["type"])
	assert.Equal(t, "invalid-status-transition", rule["rule"])

	assert.Equal(t, "closed", FormatError(ErrInviteExhausted)["type"])
	assert.Equal(t, "conflict", FormatError(ErrAssessmentNotEditable)["type"])
}

func TestSanitizeForLogging(t *testing.T) {
	sanitized := SanitizeForLogging(map[string]interface{}{
		"inviteToken": "abc",
		"title":       "Survey",
		"nested":      []interface{}{map[string]interface{}{"secret": "x"}},
	}).(map[string]interface{})

	assert.Equal(t, "[REDACTED]", sanitized["inviteToken"])
	assert.Equal(t, "Survey", sanitized["title"])
	nested := sanitized["nested"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "[REDACTED]", nested["secret"])
}
