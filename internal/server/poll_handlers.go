package server

import (
	"tonality/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPoll handles GET /api/v1/polls/:id
func (s *Server) GetPoll(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	poll, err := s.pollService.GetPoll(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"poll": poll})
}

// VoteInPoll handles POST /api/v1/polls/:id/vote
func (s *Server) VoteInPoll(c *fiber.Ctx) error {
	pollID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		OptionID uint `json:"option_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.OptionID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A poll option is required"))
	}

	poll, err := s.pollService.Vote(c.Context(), pollID, currentUserID(c), req.OptionID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"poll": poll})
}

// GetMyVote handles GET /api/v1/polls/:id/my-vote
func (s *Server) GetMyVote(c *fiber.Ctx) error {
	pollID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	vote, err := s.pollService.GetMyVote(c.Context(), pollID, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if vote == nil {
		return c.JSON(fiber.Map{"vote": nil})
	}
	return c.JSON(fiber.Map{"vote": vote})
}
