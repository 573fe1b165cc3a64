package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like target types.
const (
	TargetTypeProperty = "property"
	TargetTypeReview   = "review"
)

// Like records that a user likes a target (property or review).
// At most one row per (UserID, TargetID) is the logical invariant, but it
// is deliberately NOT enforced with a unique index: dedup is driven by the
// client-tracked toggle state, and two concurrent likes can insert two rows.
type Like struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"not null;index:idx_likes_user_target" json:"userId"`
	TargetID   string    `gorm:"not null;index:idx_likes_user_target" json:"targetId"`
	TargetType string    `gorm:"not null;index" json:"targetType"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns a fresh document id unless one was provided.
func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
