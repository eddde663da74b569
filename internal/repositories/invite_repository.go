package repositories

import (
	"context"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"gorm.io/gorm"
)

// InviteRepository counts invite usage. Tokens are issued by another system.
type InviteRepository interface {
	GetByToken(ctx context.Context, tx *gorm.DB, token string) (*models.Invite, error)

	// ConsumeUse atomically increments UsedCount, then checks expiry and MaxUses against the
	// incremented row. Call it inside a transaction so a rejection rolls the use back.
	ConsumeUse(ctx context.Context, tx *gorm.DB, token string, now time.Time) (*models.Invite, error)
}
