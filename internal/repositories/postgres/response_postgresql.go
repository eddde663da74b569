package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"gorm.io/gorm"
)

type ResponsePostgreSQL struct {
	helpers *SharedHelpers
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{helpers: NewSharedHelpers(db)}
}

func (r *ResponsePostgreSQL) Create(ctx context.Context, tx *gorm.DB, response *models.CompletedResponse) error {
	if err := r.helpers.getDB(tx).WithContext(ctx).Create(response).Error; err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	return nil
}

func (r *ResponsePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.CompletedResponse, error) {
	var response models.CompletedResponse
	err := r.helpers.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &response, nil
}

// ListByAssessment returns responses oldest first. DateFrom/DateTo bound submitted_at inclusively.
func (r *ResponsePostgreSQL) ListByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uint, filters repositories.ResponseFilters) ([]models.CompletedResponse, error) {
	query := r.helpers.getDB(tx).WithContext(ctx).
		Model(&models.CompletedResponse{}).
		Where("assessment_id = ?", assessmentID)

	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var responses []models.CompletedResponse
	if err := query.Order("submitted_at ASC").Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, nil
}
