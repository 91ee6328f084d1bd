package server

import (
	"errors"

	"tonality/internal/models"
	"tonality/internal/music"
	"tonality/internal/service"

	"github.com/gofiber/fiber/v2"
)

// providerUnavailable reports whether the error means the enrichment data
// cannot be served right now: no linked account, or the provider is down.
// Enrichment GETs degrade to {"connected": false} instead of failing.
func providerUnavailable(err error) bool {
	if errors.Is(err, music.ErrNotConnected) {
		return true
	}
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == "UPSTREAM_ERROR"
}

// ConnectProvider handles POST /api/v1/music/connect
func (s *Server) ConnectProvider(c *fiber.Ctx) error {
	var req service.ConnectInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.musicService.Connect(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":      user,
		"connected": true,
	})
}

// DisconnectProvider handles DELETE /api/v1/music/connect
func (s *Server) DisconnectProvider(c *fiber.Ctx) error {
	user, err := s.musicService.Disconnect(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":      user,
		"connected": false,
	})
}

// SearchTracks handles GET /api/v1/music/search
func (s *Server) SearchTracks(c *fiber.Ctx) error {
	query := c.Query("q")
	p := parsePagination(c, 20)

	tracks, err := s.musicService.Search(c.Context(), currentUserID(c), query, p.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"tracks": tracks})
}

// GetNowPlaying handles GET /api/v1/music/now-playing
func (s *Server) GetNowPlaying(c *fiber.Ctx) error {
	np, err := s.musicService.NowPlaying(c.Context(), currentUserID(c))
	if err != nil {
		if providerUnavailable(err) {
			return c.JSON(fiber.Map{"connected": false})
		}
		return models.RespondWithAppError(c, err)
	}
	if np == nil {
		return c.JSON(fiber.Map{
			"connected":  true,
			"is_playing": false,
		})
	}
	return c.JSON(fiber.Map{
		"connected":   true,
		"is_playing":  np.IsPlaying,
		"now_playing": np,
	})
}

// GetTopTracks handles GET /api/v1/music/top-tracks
func (s *Server) GetTopTracks(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	tracks, err := s.musicService.TopTracks(c.Context(), currentUserID(c), p.Limit)
	if err != nil {
		if providerUnavailable(err) {
			return c.JSON(fiber.Map{"connected": false})
		}
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"connected": true,
		"tracks":    tracks,
	})
}

// GetSongOfDay handles GET /api/v1/music/song-of-day
func (s *Server) GetSongOfDay(c *fiber.Ctx) error {
	song, err := s.musicService.SongOfDay(c.Context(), currentUserID(c))
	if err != nil {
		if providerUnavailable(err) {
			return c.JSON(fiber.Map{"connected": false})
		}
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"connected": true,
		"song":      song,
	})
}

// CompareTaste handles GET /api/v1/music/compare/:userId
func (s *Server) CompareTaste(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	comparison, err := s.musicService.Compare(c.Context(), currentUserID(c), otherID)
	if err != nil {
		if providerUnavailable(err) {
			return c.JSON(fiber.Map{"connected": false})
		}
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"connected":  true,
		"comparison": comparison,
	})
}
