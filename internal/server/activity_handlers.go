package server

import (
	"tonality/internal/models"
	"tonality/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateMyActivity handles PUT /api/v1/activity
func (s *Server) UpdateMyActivity(c *fiber.Ctx) error {
	var req service.UpdateActivityInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	activity, err := s.activityService.UpdateActivity(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"activity": activity})
}

// GetUserActivity handles GET /api/v1/users/:id/activity
func (s *Server) GetUserActivity(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	activity, err := s.activityService.GetUserActivity(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if activity == nil {
		return c.JSON(fiber.Map{"activity": nil})
	}
	return c.JSON(fiber.Map{"activity": activity})
}

// GetFriendsFeed handles GET /api/v1/activity/feed
func (s *Server) GetFriendsFeed(c *fiber.Ctx) error {
	feed, err := s.activityService.GetFriendsFeed(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"feed": feed})
}
