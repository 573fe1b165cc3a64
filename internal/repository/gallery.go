package repository

import (
	"context"

	"estate/internal/models"
	"estate/internal/observability"

	"gorm.io/gorm"
)

// GalleryRepository defines the interface for gallery data operations.
type GalleryRepository interface {
	Create(ctx context.Context, gallery *models.Gallery) error
	GetByIDs(ctx context.Context, ids []string) ([]models.Gallery, error)
}

type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a new gallery repository
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) Create(ctx context.Context, gallery *models.Gallery) error {
	defer observability.TrackQuery("create", "galleries")()

	return r.db.WithContext(ctx).Create(gallery).Error
}

// GetByIDs loads gallery records and returns them in the order of ids.
// Ids with no matching record are skipped.
func (r *galleryRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Gallery, error) {
	defer observability.TrackQuery("get_by_ids", "galleries")()

	if len(ids) == 0 {
		return nil, nil
	}

	var rows []models.Gallery
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]models.Gallery, len(rows))
	for _, g := range rows {
		byID[g.ID] = g
	}

	ordered := make([]models.Gallery, 0, len(rows))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			ordered = append(ordered, g)
		}
	}
	return ordered, nil
}
