package repositories

import (
	"context"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"gorm.io/gorm"
)

// AssessmentRepository interface for assessment and flow graph storage
type AssessmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error)
	List(ctx context.Context, tx *gorm.DB, filters AssessmentFilters) ([]*models.Assessment, int64, error)

	// SaveGraph replaces the stored graph and bumps Version.
	SaveGraph(ctx context.Context, tx *gorm.DB, id uint, nodes models.NodeList, edges models.EdgeList) (int, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.AssessmentStatus) error
	IsOwner(ctx context.Context, tx *gorm.DB, assessmentID uint, userID string) (bool, error)

	// IncrementResponseCount atomically adds one submission and fails with
	// ErrResponseLimitReached when the new count exceeds MaxResponses. Call it inside a
	// transaction so the failure rolls the increment back.
	IncrementResponseCount(ctx context.Context, tx *gorm.DB, id uint) (int, error)
}
