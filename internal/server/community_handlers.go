package server

import (
	"time"

	"tonality/internal/models"
	"tonality/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCommunities handles GET /api/v1/communities
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	communities, err := s.communityService.ListCommunities(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"communities": communities})
}

// GetCommunity handles GET /api/v1/communities/:id
func (s *Server) GetCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	community, err := s.communityService.GetCommunity(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	isMember, err := s.communityService.IsMember(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"community": community,
		"is_member": isMember,
	})
}

// JoinCommunity handles POST /api/v1/communities/:id/join
func (s *Server) JoinCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	community, err := s.communityService.JoinCommunity(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"community": community})
}

// LeaveCommunity handles POST /api/v1/communities/:id/leave
func (s *Server) LeaveCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	community, err := s.communityService.LeaveCommunity(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"community": community})
}

// GetCommunityMembers handles GET /api/v1/communities/:id/members
func (s *Server) GetCommunityMembers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	members, err := s.communityService.GetMembers(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"members": members})
}

// GetCommunityTopSongs handles GET /api/v1/communities/:id/top-songs
func (s *Server) GetCommunityTopSongs(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 10)
	songs, err := s.communityService.GetTopSongs(c.Context(), id, p.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"top_songs": songs})
}

// CreatePoll handles POST /api/v1/communities/:id/polls
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string                    `json:"title"`
		Description string                    `json:"description"`
		EndsAt      time.Time                 `json:"ends_at"`
		Options     []service.PollOptionInput `json:"options"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poll, err := s.pollService.CreatePoll(c.Context(), currentUserID(c), service.CreatePollInput{
		CommunityID: communityID,
		Title:       req.Title,
		Description: req.Description,
		EndsAt:      req.EndsAt,
		Options:     req.Options,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"poll": poll})
}

// GetActivePoll handles GET /api/v1/communities/:id/polls/active
func (s *Server) GetActivePoll(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	poll, err := s.pollService.GetActivePoll(c.Context(), communityID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if poll == nil {
		return c.JSON(fiber.Map{"poll": nil})
	}
	return c.JSON(fiber.Map{"poll": poll})
}

// GetCommunityPolls handles GET /api/v1/communities/:id/polls
func (s *Server) GetCommunityPolls(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	polls, err := s.pollService.ListPolls(c.Context(), communityID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"polls": polls})
}
