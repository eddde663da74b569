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

type InvitePostgreSQL struct {
	helpers *SharedHelpers
}

func NewInvitePostgreSQL(db *gorm.DB) repositories.InviteRepository {
	return &InvitePostgreSQL{helpers: NewSharedHelpers(db)}
}

func (i *InvitePostgreSQL) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*models.Invite, error) {
	var invite models.Invite
	err := i.helpers.getDB(tx).WithContext(ctx).Where("token = ?", token).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

// ConsumeUse increments first and validates the returned row. The caller's transaction
// discards the increment when an error comes back.
func (i *InvitePostgreSQL) ConsumeUse(ctx context.Context, tx *gorm.DB, token string, now time.Time) (*models.Invite, error) {
	var invite models.Invite
	result := i.helpers.getDB(tx).WithContext(ctx).
		Model(&invite).
		Clauses(clause.Returning{}).
		Where("token = ?", token).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to consume invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repositories.ErrInviteNotFound
	}

	if invite.Expired(now) {
		return nil, repositories.ErrInviteExpired
	}
	if invite.MaxUses > 0 && invite.UsedCount > invite.MaxUses {
		return nil, repositories.ErrInviteExhausted
	}
	return &invite, nil
}
