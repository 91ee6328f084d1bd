package server

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"tonality/internal/config"
	"tonality/internal/models"
	"tonality/internal/music"
	"tonality/internal/repository"
	"tonality/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a full server onto an in-memory SQLite database.
// No Prometheus middleware is attached so multiple servers can coexist in
// one test binary.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Friendship{},
		&models.Community{}, &models.Membership{},
		&models.Poll{}, &models.PollOption{}, &models.PollVote{},
		&models.ListeningActivity{},
	))

	cfg := &config.Config{
		JWTSecret:            "test-secret-key-12345678901234567890123456789012",
		TokenLifetimeMinutes: 30,
		TokenRefreshMargin:   300,
		SongOfDayPath:        filepath.Join(t.TempDir(), "song_of_day.json"),
		Env:                  "test",
		Port:                 "0",
	}

	s := &Server{config: cfg, db: db}
	s.userRepo = repository.NewUserRepository(db)
	s.friendRepo = repository.NewFriendRepository(db)
	s.communityRepo = repository.NewCommunityRepository(db)
	s.pollRepo = repository.NewPollRepository(db)
	s.activityRepo = repository.NewActivityRepository(db)

	client := music.NewClient(cfg)
	s.broker = music.NewTokenBroker(client, s.userRepo, time.Duration(cfg.TokenRefreshMargin)*time.Second)
	songStore := music.NewSongOfDayStore(cfg.SongOfDayPath)

	s.authService = service.NewAuthService(s.userRepo, cfg)
	s.userService = service.NewUserService(s.userRepo)
	s.friendService = service.NewFriendService(s.friendRepo, s.userRepo)
	s.communityService = service.NewCommunityService(s.communityRepo, s.userRepo)
	s.pollService = service.NewPollService(s.pollRepo, s.communityRepo)
	s.activityService = service.NewActivityService(s.activityRepo, s.friendRepo, s.userRepo)
	s.musicService = service.NewMusicService(client, s.broker, songStore, s.userRepo, s.friendRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createServerUser inserts a user directly and returns it with a valid
// bearer token.
func createServerUser(t *testing.T, s *Server, username string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Username:            username,
		Email:               username + "@example.com",
		Password:            "hashed-password",
		AllowFriendRequests: true,
		ShareListening:      true,
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.authService.GenerateToken(username)
	require.NoError(t, err)
	return user, token
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c, 20)
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"Defaults", "", 20, 0},
		{"Explicit", "?limit=5&offset=10", 5, 10},
		{"Capped", "?limit=1000", 100, 0},
		{"NegativeIgnored", "?limit=-1&offset=-5", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/items"+tt.query, nil)
			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)

			var body map[string]float64
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, float64(tt.wantLimit), body["limit"])
			assert.Equal(t, float64(tt.wantOffset), body["offset"])
			_ = resp.Body.Close()
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("userId"))
	assert.Equal(t, "request ID", humanizeParam("requestId"))
}
