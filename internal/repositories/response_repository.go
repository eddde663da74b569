package repositories

import (
	"context"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"gorm.io/gorm"
)

// ResponseRepository stores completed responses. Responses are append-only.
type ResponseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, response *models.CompletedResponse) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.CompletedResponse, error)
	ListByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uint, filters ResponseFilters) ([]models.CompletedResponse, error)
}
