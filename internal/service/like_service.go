package service

import (
	"context"

	"estate/internal/models"
	"estate/internal/observability"
	"estate/internal/repository"
)

// LikeService exposes the like ledger. Errors are returned to the
// caller; deciding whether to fail open to "not liked" is the HTTP
// layer's call, not this one's.
type LikeService struct {
	likes repository.LikeRepository
}

func NewLikeService(likes repository.LikeRepository) *LikeService {
	return &LikeService{likes: likes}
}

// IsLiked reports whether any like fact exists for the pair.
func (s *LikeService) IsLiked(ctx context.Context, userID, targetID string) (bool, error) {
	return s.likes.Exists(ctx, userID, targetID)
}

// Like appends a like fact. Not idempotent: a second call without an
// intervening Unlike inserts a second fact and inflates counts. Dedup
// lives in the client-tracked toggle state.
func (s *LikeService) Like(ctx context.Context, userID, targetID, targetType string) error {
	if userID == "" {
		return models.NewNotAuthenticatedError()
	}
	if targetType != models.TargetTypeProperty && targetType != models.TargetTypeReview {
		return models.NewValidationError("Unknown target type")
	}

	err := s.likes.Create(ctx, &models.Like{
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
	})
	if err != nil {
		observability.RecordLikeOperation("like", "error")
		return models.NewRemoteWriteError("like", err)
	}
	observability.RecordLikeOperation("like", "ok")
	return nil
}

// Unlike deletes the first matching fact. When duplicates exist only
// one is removed per call.
func (s *LikeService) Unlike(ctx context.Context, userID, targetID string) error {
	if userID == "" {
		return models.NewNotAuthenticatedError()
	}

	like, err := s.likes.FindFirst(ctx, userID, targetID)
	if err != nil {
		if repository.IsNotFound(err) {
			// nothing to remove; treat as a no-op
			return nil
		}
		observability.RecordLikeOperation("unlike", "error")
		return models.NewRemoteWriteError("like", err)
	}

	if err := s.likes.Delete(ctx, like.ID); err != nil {
		observability.RecordLikeOperation("unlike", "error")
		return models.NewRemoteWriteError("like", err)
	}
	observability.RecordLikeOperation("unlike", "ok")
	return nil
}

// Toggle flips the like state as the client sees it and returns the new
// liked value. liked is the state the client toggled INTO.
func (s *LikeService) Toggle(ctx context.Context, userID, targetID, targetType string, liked bool) (bool, error) {
	if liked {
		if err := s.Like(ctx, userID, targetID, targetType); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := s.Unlike(ctx, userID, targetID); err != nil {
		return true, err
	}
	return false, nil
}

// LikedTargets filters targetIDs down to those the user has liked, in
// one query instead of a per-id fan-out.
func (s *LikeService) LikedTargets(ctx context.Context, userID string, targetIDs []string) ([]string, error) {
	if userID == "" {
		return nil, models.NewNotAuthenticatedError()
	}
	return s.likes.LikedTargets(ctx, userID, targetIDs)
}
