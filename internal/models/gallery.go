package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gallery is one non-primary listing image. Rows are written before the
// owning Property exists; a row whose id never lands in a Property's
// gallery list is an orphan (accepted outcome of a failed pipeline).
type Gallery struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Image     string    `gorm:"type:text;not null" json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a fresh document id unless one was provided.
func (g *Gallery) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
