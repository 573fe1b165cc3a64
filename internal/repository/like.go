package repository

import (
	"context"
	"errors"

	"estate/internal/models"
	"estate/internal/observability"

	"gorm.io/gorm"
)

// LikeRepository defines the interface for like-fact data operations.
//
// There is intentionally no unique constraint on (user_id, target_id):
// dedup is driven by the client-tracked toggle state, and the repository
// faithfully inserts whatever it is told to.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Exists(ctx context.Context, userID, targetID string) (bool, error)
	ExistsForType(ctx context.Context, userID, targetID, targetType string) (bool, error)
	// FindFirst returns the oldest like fact for the pair, or
	// gorm.ErrRecordNotFound when none exists.
	FindFirst(ctx context.Context, userID, targetID string) (*models.Like, error)
	FindFirstForType(ctx context.Context, userID, targetID, targetType string) (*models.Like, error)
	Delete(ctx context.Context, id string) error
	CountForTarget(ctx context.Context, targetID, targetType string) (int64, error)
	// LikedTargets filters targetIDs down to those the user has liked.
	LikedTargets(ctx context.Context, userID string, targetIDs []string) ([]string, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	defer observability.TrackQuery("create", "likes")()

	return r.db.WithContext(ctx).Create(like).Error
}

func (r *likeRepository) Exists(ctx context.Context, userID, targetID string) (bool, error) {
	defer observability.TrackQuery("exists", "likes")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) ExistsForType(ctx context.Context, userID, targetID, targetType string) (bool, error) {
	defer observability.TrackQuery("exists_for_type", "likes")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) FindFirst(ctx context.Context, userID, targetID string) (*models.Like, error) {
	defer observability.TrackQuery("find_first", "likes")()

	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Order("created_at ASC").
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) FindFirstForType(ctx context.Context, userID, targetID, targetType string) (*models.Like, error) {
	defer observability.TrackQuery("find_first_for_type", "likes")()

	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
		Order("created_at ASC").
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Delete removes exactly one like fact by id. When duplicates exist for a
// pair, callers delete one per call.
func (r *likeRepository) Delete(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete", "likes")()

	return r.db.WithContext(ctx).Delete(&models.Like{}, "id = ?", id).Error
}

func (r *likeRepository) CountForTarget(ctx context.Context, targetID, targetType string) (int64, error) {
	defer observability.TrackQuery("count_for_target", "likes")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *likeRepository) LikedTargets(ctx context.Context, userID string, targetIDs []string) ([]string, error) {
	defer observability.TrackQuery("liked_targets", "likes")()

	if len(targetIDs) == 0 {
		return nil, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_id IN ?", userID, targetIDs).
		Distinct().
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// IsNotFound reports whether err is the record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
