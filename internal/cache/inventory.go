package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PropertyKeyPrefix    = "property:%s"
	ReviewLikesKeyPrefix = "review:%s:likes"
)

const (
	PropertyTTL    = 30 * time.Minute
	ReviewLikesTTL = 2 * time.Minute
)

func PropertyKey(propertyID string) string {
	return fmt.Sprintf(PropertyKeyPrefix, propertyID)
}

func ReviewLikesKey(reviewID string) string {
	return fmt.Sprintf(ReviewLikesKeyPrefix, reviewID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProperty(ctx context.Context, propertyID string) {
	Invalidate(ctx, PropertyKey(propertyID))
}

func InvalidateReviewLikes(ctx context.Context, reviewID string) {
	Invalidate(ctx, ReviewLikesKey(reviewID))
}
