package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is an independent entity attached to a property. Likes on
// reviews are Like rows with TargetType = review.
type Review struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Review     string    `gorm:"type:text;not null" json:"review"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	PropertyID string    `gorm:"type:varchar(36);index;column:property" json:"property"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns a fresh document id unless one was provided.
func (r *Review) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
