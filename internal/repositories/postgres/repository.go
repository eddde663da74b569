package postgres

import (
	"context"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db          *gorm.DB
	assessments repositories.AssessmentRepository
	responses   repositories.ResponseRepository
	invites     repositories.InviteRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:          db,
		assessments: NewAssessmentPostgreSQL(db),
		responses:   NewResponsePostgreSQL(db),
		invites:     NewInvitePostgreSQL(db),
	}
}

func (r *Repository) Assessments() repositories.AssessmentRepository { return r.assessments }
func (r *Repository) Responses() repositories.ResponseRepository     { return r.responses }
func (r *Repository) Invites() repositories.InviteRepository         { return r.invites }

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// AutoMigrate creates or updates the tables owned by this service.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Assessment{},
		&models.CompletedResponse{},
		&models.Invite{},
	)
}
