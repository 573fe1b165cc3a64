package service

import (
	"context"

	"estate/internal/cache"
	"estate/internal/events"
	"estate/internal/models"
	"estate/internal/observability"
	"estate/internal/repository"
)

// ReviewLikes is the aggregate a review card renders.
type ReviewLikes struct {
	Count   int64 `json:"count"`
	IsLiked bool  `json:"isLiked"`
}

// ToggleResult reports the state a toggle landed in.
type ToggleResult struct {
	Liked bool `json:"liked"`
}

// AddReviewInput is the review submission payload.
type AddReviewInput struct {
	PropertyID string `json:"property"`
	Review     string `json:"review"`
	Rating     int    `json:"rating"`
}

type ReviewService struct {
	reviews   repository.ReviewRepository
	likes     repository.LikeRepository
	publisher *events.Publisher
}

func NewReviewService(reviews repository.ReviewRepository, likes repository.LikeRepository, publisher *events.Publisher) *ReviewService {
	return &ReviewService{reviews: reviews, likes: likes, publisher: publisher}
}

// AddReview persists a review authored by the principal and invalidates
// the property's cached detail, which embeds its reviews.
func (s *ReviewService) AddReview(ctx context.Context, principal *models.Principal, in AddReviewInput) (*models.Review, error) {
	if principal == nil {
		return nil, models.NewNotAuthenticatedError()
	}
	if in.PropertyID == "" {
		return nil, models.NewValidationError("Property id is required")
	}
	if in.Review == "" {
		return nil, models.NewValidationError("Review text is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}

	review := &models.Review{
		Review:     in.Review,
		Name:       principal.Name,
		Avatar:     principal.AvatarOrFallback(),
		PropertyID: in.PropertyID,
		Rating:     in.Rating,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, models.NewRemoteWriteError("review", err)
	}

	cache.InvalidateProperty(ctx, in.PropertyID)

	if err := s.publisher.Publish(ctx, events.RoutingKeyReviewCreated, events.ReviewCreated{
		ReviewID:   review.ID,
		PropertyID: review.PropertyID,
		Rating:     review.Rating,
		CreatedAt:  review.CreatedAt,
	}); err != nil {
		observability.Logger.WarnContext(ctx, "Failed to publish review.created", "review_id", review.ID, "error", err)
	}

	return review, nil
}

// ToggleReviewLike reads the current state then writes the opposite.
// Read-then-write without a lock: two concurrent toggles by one user can
// both observe "absent" and both insert, duplicating the fact.
func (s *ReviewService) ToggleReviewLike(ctx context.Context, reviewID, userID string) (*ToggleResult, error) {
	if userID == "" {
		return nil, models.NewNotAuthenticatedError()
	}

	existing, err := s.likes.FindFirstForType(ctx, userID, reviewID, models.TargetTypeReview)
	if err != nil && !repository.IsNotFound(err) {
		observability.RecordLikeOperation("review_toggle", "error")
		return nil, models.NewRemoteWriteError("like", err)
	}

	if existing != nil {
		if err := s.likes.Delete(ctx, existing.ID); err != nil {
			observability.RecordLikeOperation("review_toggle", "error")
			return nil, models.NewRemoteWriteError("like", err)
		}
		cache.InvalidateReviewLikes(ctx, reviewID)
		observability.RecordLikeOperation("review_toggle", "ok")
		return &ToggleResult{Liked: false}, nil
	}

	err = s.likes.Create(ctx, &models.Like{
		UserID:     userID,
		TargetID:   reviewID,
		TargetType: models.TargetTypeReview,
	})
	if err != nil {
		observability.RecordLikeOperation("review_toggle", "error")
		return nil, models.NewRemoteWriteError("like", err)
	}
	cache.InvalidateReviewLikes(ctx, reviewID)
	observability.RecordLikeOperation("review_toggle", "ok")
	return &ToggleResult{Liked: true}, nil
}

// GetReviewLikes returns the total like count for a review and whether
// userID is among the likers. Two independent queries, no atomic read;
// the count is served cache-aside with a short TTL.
func (s *ReviewService) GetReviewLikes(ctx context.Context, reviewID, userID string) (*ReviewLikes, error) {
	var count int64
	err := cache.Aside(ctx, cache.ReviewLikesKey(reviewID), &count, cache.ReviewLikesTTL, func() error {
		var err error
		count, err = s.likes.CountForTarget(ctx, reviewID, models.TargetTypeReview)
		return err
	})
	if err != nil {
		return nil, err
	}

	isLiked := false
	if userID != "" {
		isLiked, err = s.likes.ExistsForType(ctx, userID, reviewID, models.TargetTypeReview)
		if err != nil {
			return nil, err
		}
	}

	return &ReviewLikes{Count: count, IsLiked: isLiked}, nil
}
