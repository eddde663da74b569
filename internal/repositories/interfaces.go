package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteExpired        = errors.New("invite has expired")
	ErrInviteExhausted      = errors.New("invite has no uses left")
	ErrResponseLimitReached = errors.New("assessment is not accepting more responses")
)

// Repository groups the stores and owns transactions. Every repository method accepts an
// optional tx; nil means "use the root connection".
type Repository interface {
	Assessments() AssessmentRepository
	Responses() ResponseRepository
	Invites() InviteRepository

	// WithTransaction runs fn in one database transaction. Returning an error rolls back.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	Status    *models.AssessmentStatus `json:"status"`
	CreatedBy *string                  `json:"created_by"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "created_at", "title", "updated_at"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}

type ResponseFilters struct {
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
