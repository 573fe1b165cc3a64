package server

import (
	"context"
	"errors"
	"time"

	"estate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// currentPrincipal extracts the authenticated principal set by AuthRequired.
// On absence it writes a 401 JSON response and returns errResponseWritten.
func (s *Server) currentPrincipal(c *fiber.Ctx) (*models.Principal, error) {
	p, ok := c.Locals("principal").(models.Principal)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized, models.NewNotAuthenticatedError())
		return nil, errResponseWritten
	}
	return &p, nil
}

// optionalUserID returns the authenticated user id, or "" for anonymous
// requests that passed through OptionalAuth.
func optionalUserID(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(string); ok {
		return uid
	}
	return ""
}

// requiredParam extracts a non-empty route parameter. On failure it writes
// a 400 JSON response and returns errResponseWritten.
func requiredParam(c *fiber.Ctx, param, label string) (string, error) {
	v := c.Params(param)
	if v == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+label))
		return "", errResponseWritten
	}
	return v, nil
}

// statusForCode maps application error codes to HTTP statuses.
func statusForCode(err error) int {
	switch {
	case models.HasCode(err, models.CodeNotAuthenticated):
		return fiber.StatusUnauthorized
	case models.HasCode(err, models.CodeValidation):
		return fiber.StatusBadRequest
	case models.HasCode(err, models.CodeNotFound), models.HasCode(err, models.CodeAssetNotFound):
		return fiber.StatusNotFound
	case models.HasCode(err, models.CodeRemoteWrite):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; readiness only degrades when a configured client
	// stops answering.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "disabled"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// GetFlags returns feature flags evaluated for the caller. Anonymous
// callers get percentage rollouts resolved to false.
func (s *Server) GetFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.flags.Snapshot(optionalUserID(c)),
	})
}

// GetMe echoes the authenticated principal, applying the initials avatar
// fallback the mobile profile screen expects.
func (s *Server) GetMe(c *fiber.Ctx) error {
	principal, err := s.currentPrincipal(c)
	if err != nil {
		return nil
	}
	out := *principal
	out.Avatar = out.AvatarOrFallback()
	return c.JSON(out)
}
