package models

import "time"

// Invite admits respondents to an assessment. Tokens are issued elsewhere; this service
// only counts their use.
type Invite struct {
	Token        string     `json:"token" gorm:"primaryKey;size:64"`
	AssessmentID uint       `json:"assessmentId" gorm:"not null;index"`
	MaxUses      int        `json:"maxUses" gorm:"default:0"` // zero means unlimited
	UsedCount    int        `json:"usedCount" gorm:"default:0"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (Invite) TableName() string {
	return "invites"
}

func (i Invite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
