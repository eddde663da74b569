package flow

import (
	"fmt"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

const dateLayout = "2006-01-02"

// CheckAnswer enforces the question's own input constraints. Empty answers pass unless
// the question is required.
func CheckAnswer(nodeID string, q *models.QuestionPayload, v models.Value) error {
	if v.IsEmpty() {
		if q.Required {
			return &AnswerError{NodeID: nodeID, Reason: "an answer is required"}
		}
		return nil
	}

	switch {
	case q.QuestionKind.MultiSelect():
		return checkSelections(nodeID, q, v.Strings())

	case q.QuestionKind.SingleSelect():
		if v.IsList() {
			return &AnswerError{NodeID: nodeID, Reason: "expected a single option"}
		}
		if len(q.Options) > 0 && !q.HasOption(v.String()) {
			return &AnswerError{NodeID: nodeID, Reason: fmt.Sprintf("unknown option %q", v.String())}
		}

	case q.QuestionKind == models.QuestionRating, q.QuestionKind == models.QuestionScale, q.QuestionKind == models.QuestionNumber:
		n, ok := v.Float()
		if !ok {
			return &AnswerError{NodeID: nodeID, Reason: "expected a number"}
		}
		if q.MinValue != nil && n < *q.MinValue {
			return &AnswerError{NodeID: nodeID, Reason: fmt.Sprintf("must be at least %v", *q.MinValue)}
		}
		if q.MaxValue != nil && n > *q.MaxValue {
			return &AnswerError{NodeID: nodeID, Reason: fmt.Sprintf("must be at most %v", *q.MaxValue)}
		}

	case q.QuestionKind == models.QuestionDate:
		if _, err := time.Parse(dateLayout, v.String()); err != nil {
			return &AnswerError{NodeID: nodeID, Reason: "expected a date (YYYY-MM-DD)"}
		}

	default:
		if v.IsList() {
			return &AnswerError{NodeID: nodeID, Reason: "expected text"}
		}
		if q.MaxLength != nil && utf8.RuneCountInString(v.String()) > *q.MaxLength {
			return &AnswerError{NodeID: nodeID, Reason: fmt.Sprintf("must be at most %d characters", *q.MaxLength)}
		}
		if q.QuestionKind == models.QuestionEmail {
			if _, err := mail.ParseAddress(v.String()); err != nil {
				return &AnswerError{NodeID: nodeID, Reason: "expected an email address"}
			}
		}
	}
	return nil
}

func checkSelections(nodeID string, q *models.QuestionPayload, selected []string) error {
	if q.MinSelections != nil && len(selected) < *q.MinSelections {
		return &AnswerError{NodeID: nodeID, Reason: fmt.Sprintf("select at least %d options", *q.MinSelections)}
	}
	if q.MaxSelections != nil && len(selected) > *q.MaxSelections {
		return &AnswerError{NodeID: nodeID, Reason: fmt.Sprintf("select at most %d options", *q.MaxSelections)}
	}
	if len(q.Options) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(selected))
	for _, id := range selected {
		if !q.HasOption(id) {
			return &AnswerError{NodeID: nodeID, Reason: fmt.Sprintf("unknown option %q", id)}
		}
		if seen[id] {
			return &AnswerError{NodeID: nodeID, Reason: fmt.Sprintf("option %q selected twice", id)}
		}
		seen[id] = true
	}
	return nil
}
