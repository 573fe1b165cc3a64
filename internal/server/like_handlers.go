package server

import (
	"strings"

	"estate/internal/interaction"
	"estate/internal/models"
	"estate/internal/observability"

	"github.com/gofiber/fiber/v2"
)

type toggleLikeRequest struct {
	TargetID   string `json:"targetId"`
	TargetType string `json:"targetType"`
	Liked      bool   `json:"liked"`
}

// GetIsLiked reports whether the caller has liked a target. This is the
// one place the fail-open policy lives: on a query error an anonymous
// "not liked" is returned with HTTP 200 so the mobile heart icon renders
// instead of erroring the screen.
func (s *Server) GetIsLiked(c *fiber.Ctx) error {
	targetID, err := requiredParam(c, "targetId", "target ID")
	if err != nil {
		return nil
	}

	userID := optionalUserID(c)
	if userID == "" {
		return c.JSON(fiber.Map{"isLiked": false})
	}

	liked, err := s.likeService.IsLiked(c.UserContext(), userID, targetID)
	if err != nil {
		observability.Logger.WarnContext(c.UserContext(), "Liked lookup failed, failing open",
			"target_id", targetID, "error", err)
		return c.JSON(fiber.Map{"isLiked": false})
	}
	return c.JSON(fiber.Map{"isLiked": liked})
}

// ToggleLike flips the caller's like on a target. Remote failures return
// a neutral body rather than 5xx; the client re-offers the action.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	principal, err := s.currentPrincipal(c)
	if err != nil {
		return nil
	}

	var req toggleLikeRequest
	if err := c.BodyParser(&req); err != nil || req.TargetID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid toggle payload"))
	}
	if req.TargetType == "" {
		req.TargetType = models.TargetTypeProperty
	}

	// optimistic: the tracker reflects the toggle before the write lands
	state := s.tracker.Apply(principal.ID, interaction.Op{TargetID: req.TargetID, Liked: req.Liked})

	liked, err := s.likeService.Toggle(c.UserContext(), principal.ID, req.TargetID, req.TargetType, req.Liked)
	if err != nil {
		// every failure rolls the optimistic toggle back; the tracker must
		// never keep a pending op the server rejected
		s.tracker.Apply(principal.ID, interaction.Op{TargetID: req.TargetID, Liked: !req.Liked})
		s.tracker.Confirm(principal.ID, req.TargetID)
		if models.HasCode(err, models.CodeValidation) {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		observability.Logger.WarnContext(c.UserContext(), "Like toggle failed, returning neutral result",
			"target_id", req.TargetID, "error", err)
		return c.JSON(fiber.Map{"changed": false, "isLiked": !req.Liked})
	}

	s.tracker.Confirm(principal.ID, req.TargetID)
	return c.JSON(fiber.Map{"changed": true, "isLiked": liked, "count": state.Count})
}

// GetInteractions returns liked state for a batch of ids in one call,
// seeding the client's interaction cache on screen mount.
// Query: ids=a,b,c
func (s *Server) GetInteractions(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("ids"))
	if raw == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Query parameter \"ids\" is required"))
	}
	ids := strings.Split(raw, ",")

	server := make(map[string]interaction.State, len(ids))
	for _, id := range ids {
		server[id] = interaction.State{}
	}

	userID := optionalUserID(c)
	if userID != "" {
		likedIDs, err := s.likeService.LikedTargets(c.UserContext(), userID, ids)
		if err != nil {
			// same fail-open policy as GetIsLiked: unknown reads as unliked
			observability.Logger.WarnContext(c.UserContext(), "Batch liked lookup failed, failing open", "error", err)
		}
		// counts are served per review by GetReviewLikes; this endpoint
		// only seeds the liked flags
		for _, id := range likedIDs {
			server[id] = interaction.State{Liked: true}
		}
	}

	return c.JSON(fiber.Map{"data": s.tracker.Resolve(userID, server)})
}
