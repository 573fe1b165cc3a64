package server

import (
	"estate/internal/contracts"
	"estate/internal/models"
	"estate/internal/repository"
	"estate/internal/service"

	"github.com/gofiber/fiber/v2"
)

const latestPropertiesLimit = 5

// GetProperties lists properties with browse filters.
// Query params: filter (type, "All" disables), query (free text),
// minRating, maxRating, limit.
func (s *Server) GetProperties(c *fiber.Ctx) error {
	q := repository.ListPropertiesQuery{
		Filter: c.Query("filter"),
		Query:  c.Query("query"),
		Limit:  c.QueryInt("limit", 0),
	}
	if v := c.QueryFloat("minRating", -1); v >= 0 {
		q.MinRating = &v
	}
	if v := c.QueryFloat("maxRating", -1); v >= 0 {
		q.MaxRating = &v
	}

	properties, err := s.propertyRepo.List(c.UserContext(), q)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"data": properties, "total": len(properties)})
}

// GetLatestProperties returns the home screen's "latest" rail.
func (s *Server) GetLatestProperties(c *fiber.Ctx) error {
	properties, err := s.propertyRepo.Latest(c.UserContext(), latestPropertiesLimit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"data": properties})
}

// GetProperty returns one property with agent, reviews and gallery.
func (s *Server) GetProperty(c *fiber.Ctx) error {
	id, err := requiredParam(c, "id", "property ID")
	if err != nil {
		return nil
	}

	property, err := s.propertyRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("property", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.JSON(property)
}

// CreateProperty runs the listing creation pipeline. The body carries the
// string-typed form plus local image refs and is validated against the
// embedded JSON schema before any parsing happens.
func (s *Server) CreateProperty(c *fiber.Ctx) error {
	principal, err := s.currentPrincipal(c)
	if err != nil {
		return nil
	}

	body := c.Body()
	if err := contracts.ValidatePropertyForm(body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}

	var in service.CreatePropertyInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	id, err := s.listingService.CreateProperty(c.UserContext(), principal, in)
	if err != nil {
		return models.RespondWithError(c, statusForCode(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}
