package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssessmentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Create stores a new draft assessment
func (a *AssessmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	assessment.Status = models.StatusDraft
	assessment.Version = 1
	assessment.ResponseCount = 0
	if assessment.Nodes == nil {
		assessment.Nodes = models.NodeList{}
	}
	if assessment.Edges == nil {
		assessment.Edges = models.EdgeList{}
	}

	if err := a.helpers.getDB(tx).WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// GetByID retrieves an assessment by ID
func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	err := a.helpers.getDB(tx).WithContext(ctx).First(&assessment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	query := a.helpers.getDB(tx).WithContext(ctx).Model(&models.Assessment{})

	// Apply filters
	query = a.applyFilters(query, filters)

	// Count total
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination and ordering
	query = a.applyPaginationAndSort(query, filters)

	var assessments []*models.Assessment
	if err := query.Find(&assessments).Error; err != nil {
		return nil, 0, err
	}

	return assessments, total, nil
}

func (a *AssessmentPostgreSQL) SaveGraph(ctx context.Context, tx *gorm.DB, id uint, nodes models.NodeList, edges models.EdgeList) (int, error) {
	var updated models.Assessment
	result := a.helpers.getDB(tx).WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "version"}}}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"nodes":      nodes,
			"edges":      edges,
			"version":    gorm.Expr("version + ?", 1),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to save graph: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, repositories.ErrNotFound
	}
	return updated.Version, nil
}

func (a *AssessmentPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.AssessmentStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.StatusPublished {
		updates["published_at"] = time.Now()
	}

	result := a.helpers.getDB(tx).WithContext(ctx).
		Model(&models.Assessment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (a *AssessmentPostgreSQL) IsOwner(ctx context.Context, tx *gorm.DB, assessmentID uint, userID string) (bool, error) {
	var count int64
	err := a.helpers.getDB(tx).WithContext(ctx).
		Model(&models.Assessment{}).
		Where("id = ? AND created_by = ?", assessmentID, userID).
		Count(&count).Error

	return count > 0, err
}

// IncrementResponseCount bumps response_count in a single UPDATE ... RETURNING, so two
// concurrent submissions can never both observe the same count.
func (a *AssessmentPostgreSQL) IncrementResponseCount(ctx context.Context, tx *gorm.DB, id uint) (int, error) {
	var updated models.Assessment
	result := a.helpers.getDB(tx).WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "response_count"}, {Name: "max_responses"}}}).
		Where("id = ?", id).
		UpdateColumn("response_count", gorm.Expr("response_count + ?", 1))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to increment response count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, repositories.ErrNotFound
	}

	if updated.MaxResponses > 0 && updated.ResponseCount > updated.MaxResponses {
		return updated.ResponseCount, repositories.ErrResponseLimitReached
	}
	return updated.ResponseCount, nil
}

// Helper methods

func (a *AssessmentPostgreSQL) applyFilters(query *gorm.DB, filters repositories.AssessmentFilters) *gorm.DB {
	return a.helpers.ApplyAssessmentFilters(query, filters)
}

func (a *AssessmentPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.AssessmentFilters) *gorm.DB {
	return a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
}
