package repository

import (
	"context"

	"estate/internal/cache"
	"estate/internal/models"
	"estate/internal/observability"

	"gorm.io/gorm"
)

// ListPropertiesQuery carries the browse filters for property listings.
type ListPropertiesQuery struct {
	// Filter matches the property type exactly; "" and "All" disable it.
	Filter string
	// Query is a free-text search over name, address and type.
	Query string
	// MinRating/MaxRating bound the rating when non-nil.
	MinRating *float64
	MaxRating *float64
	Limit     int
}

// PropertyRepository defines the interface for property data operations.
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id string) (*models.Property, error)
	List(ctx context.Context, q ListPropertiesQuery) ([]*models.Property, error)
	Latest(ctx context.Context, limit int) ([]*models.Property, error)
}

type propertyRepository struct {
	db        *gorm.DB
	galleries GalleryRepository
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db, galleries: NewGalleryRepository(db)}
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	defer observability.TrackQuery("create", "properties")()

	return r.db.WithContext(ctx).Create(property).Error
}

// GetByID loads a property with its agent, reviews and ordered gallery images.
// The result is served cache-aside; like toggles do not touch property rows,
// so the cached detail never goes stale from interactions.
func (r *propertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	key := cache.PropertyKey(id)

	err := cache.Aside(ctx, key, &property, cache.PropertyTTL, func() error {
		defer observability.TrackQuery("get_by_id", "properties")()

		if err := r.db.WithContext(ctx).
			Preload("Agent").
			Preload("Reviews").
			First(&property, "id = ?", id).Error; err != nil {
			return err
		}

		gallery, err := r.galleries.GetByIDs(ctx, property.GalleryIDs)
		if err != nil {
			return err
		}
		property.Gallery = gallery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) List(ctx context.Context, q ListPropertiesQuery) ([]*models.Property, error) {
	defer observability.TrackQuery("list", "properties")()

	db := r.db.WithContext(ctx).Model(&models.Property{}).Order("created_at DESC")

	if q.Filter != "" && q.Filter != "All" {
		db = db.Where("type = ?", q.Filter)
	}
	if q.Query != "" {
		like := "%" + q.Query + "%"
		db = db.Where("name ILIKE ? OR address ILIKE ? OR type ILIKE ?", like, like, like)
	}
	if q.MinRating != nil {
		db = db.Where("rating >= ?", *q.MinRating)
	}
	if q.MaxRating != nil {
		db = db.Where("rating <= ?", *q.MaxRating)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var properties []*models.Property
	if err := db.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Latest returns the oldest listings first, capped at limit. The ordering
// mirrors the home screen's "latest" rail contract.
func (r *propertyRepository) Latest(ctx context.Context, limit int) ([]*models.Property, error) {
	defer observability.TrackQuery("latest", "properties")()

	var properties []*models.Property
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}
