package server

import (
	"estate/internal/models"
	"estate/internal/observability"
	"estate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview persists a review authored by the caller.
func (s *Server) CreateReview(c *fiber.Ctx) error {
	principal, err := s.currentPrincipal(c)
	if err != nil {
		return nil
	}

	var in service.AddReviewInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.AddReview(c.UserContext(), principal, in)
	if err != nil {
		return models.RespondWithError(c, statusForCode(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// ToggleReviewLike flips the caller's like on a review. A remote failure
// yields a null result body, the client's "no state change" signal.
func (s *Server) ToggleReviewLike(c *fiber.Ctx) error {
	principal, err := s.currentPrincipal(c)
	if err != nil {
		return nil
	}
	reviewID, err := requiredParam(c, "id", "review ID")
	if err != nil {
		return nil
	}

	result, err := s.reviewService.ToggleReviewLike(c.UserContext(), reviewID, principal.ID)
	if err != nil {
		observability.Logger.WarnContext(c.UserContext(), "Review like toggle failed, returning null",
			"review_id", reviewID, "error", err)
		return c.JSON(fiber.Map{"result": nil})
	}
	return c.JSON(fiber.Map{"result": result})
}

// GetReviewLikes returns the like count for a review and whether the
// caller is among the likers.
func (s *Server) GetReviewLikes(c *fiber.Ctx) error {
	reviewID, err := requiredParam(c, "id", "review ID")
	if err != nil {
		return nil
	}

	likes, err := s.reviewService.GetReviewLikes(c.UserContext(), reviewID, optionalUserID(c))
	if err != nil {
		// fail open: a broken counter renders as zero likes, not an error screen
		observability.Logger.WarnContext(c.UserContext(), "Review likes lookup failed, failing open",
			"review_id", reviewID, "error", err)
		return c.JSON(service.ReviewLikes{})
	}
	return c.JSON(likes)
}
