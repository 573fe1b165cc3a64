package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property types accepted by the listing form.
const (
	PropertyTypeHouse     = "House"
	PropertyTypeTownhouse = "Townhouse"
	PropertyTypeCondo     = "Condo"
	PropertyTypeDuplex    = "Duplex"
	PropertyTypeStudio    = "Studio"
	PropertyTypeVilla     = "Villa"
	PropertyTypeApartment = "Apartment"
	PropertyTypeOther     = "Other"
)

// Property is a persisted listing. Image holds the primary upload URL;
// GalleryIDs is the ordered list of Gallery record ids created before
// this row was written (referential validity by creation order, not by
// a foreign key).
type Property struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string   `gorm:"not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Address     string   `json:"address"`
	// Geolocation is the raw "lat,lng" string exactly as submitted.
	Geolocation string   `json:"geolocation"`
	// Geohash is derived from Geolocation at creation time for proximity lookups.
	Geohash    string    `gorm:"index" json:"geohash,omitempty"`
	Price      float64   `json:"price"`
	Area       float64   `json:"area"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  int       `json:"bathrooms"`
	Facilities []string  `gorm:"serializer:json" json:"facilities"`
	Rating     float64   `json:"rating"`
	Type       string    `gorm:"index" json:"type"`
	Image      string    `json:"image"`
	GalleryIDs []string  `gorm:"serializer:json;column:gallery" json:"gallery"`
	AgentID    string    `gorm:"type:varchar(36);index" json:"agent"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Loaded on detail reads, not persisted columns.
	Agent   *Agent    `gorm:"foreignKey:AgentID;references:ID" json:"agent_profile,omitempty"`
	Reviews []Review  `gorm:"foreignKey:PropertyID;references:ID" json:"reviews,omitempty"`
	Gallery []Gallery `gorm:"-" json:"gallery_images,omitempty"`
}

// BeforeCreate assigns a fresh document id unless one was provided.
func (p *Property) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
