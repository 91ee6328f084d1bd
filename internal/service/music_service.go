package service

import (
	"context"
	"time"

	"tonality/internal/models"
	"tonality/internal/music"
	"tonality/internal/repository"

	"golang.org/x/sync/errgroup"
)

// providerCatalog is the slice of the provider client the service needs.
type providerCatalog interface {
	SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]music.Track, error)
	CurrentlyPlaying(ctx context.Context, accessToken string) (*music.NowPlaying, error)
	TopTracks(ctx context.Context, accessToken string, limit int) ([]music.Track, error)
	RecentlyPlayed(ctx context.Context, accessToken string, limit int) ([]music.PlayHistoryItem, error)
}

// accessTokenSource is the slice of the token broker the service needs.
type accessTokenSource interface {
	AccessToken(ctx context.Context, userID uint) (string, error)
	Disconnect(userID uint)
}

// songOfDayQueries rotate daily so the pick stays fresh without any state
// beyond the calendar date.
var songOfDayQueries = []string{
	"indie morning", "synthwave", "classic soul", "late night jazz",
	"shoegaze", "bossa nova", "garage rock", "ambient piano",
	"neo soul", "post punk", "dream pop", "motown", "trip hop",
	"folk revival",
}

// TasteComparison is the result of comparing two users' recent listening.
type TasteComparison struct {
	UserID        uint                    `json:"user_id"`
	OtherUserID   uint                    `json:"other_user_id"`
	SharedTracks  []music.Track           `json:"shared_tracks"`
	SharedArtists []string                `json:"shared_artists"`
	MyRecent      []music.PlayHistoryItem `json:"my_recent"`
	TheirRecent   []music.PlayHistoryItem `json:"their_recent"`
}

// MusicService fronts the streaming provider: search, playback lookups,
// the song of the day, and provider account linking.
type MusicService struct {
	catalog    providerCatalog
	broker     accessTokenSource
	songStore  *music.SongOfDayStore
	userRepo   repository.UserRepository
	friendRepo repository.FriendRepository
	now        func() time.Time
}

// NewMusicService returns a new MusicService.
func NewMusicService(catalog providerCatalog, broker accessTokenSource, songStore *music.SongOfDayStore,
	userRepo repository.UserRepository, friendRepo repository.FriendRepository) *MusicService {
	return &MusicService{
		catalog:    catalog,
		broker:     broker,
		songStore:  songStore,
		userRepo:   userRepo,
		friendRepo: friendRepo,
		now:        time.Now,
	}
}

// ConnectInput carries the provider link request fields.
type ConnectInput struct {
	RefreshToken string `json:"refresh_token"`
	DisplayName  string `json:"display_name"`
	AvatarURL    string `json:"avatar_url"`
}

// Connect links a provider account by storing its refresh token.
func (s *MusicService) Connect(ctx context.Context, userID uint, in ConnectInput) (*models.User, error) {
	if in.RefreshToken == "" {
		return nil, models.NewValidationError("A provider refresh token is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.ProviderRefreshToken = in.RefreshToken
	user.ProviderDisplayName = in.DisplayName
	user.ProviderAvatarURL = in.AvatarURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Any token cached for a previous link is no longer valid.
	s.broker.Disconnect(userID)
	return user, nil
}

// Disconnect unlinks the provider account: clears the stored refresh token
// and drops the cached access token.
func (s *MusicService) Disconnect(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.ProviderRefreshToken = ""
	user.ProviderDisplayName = ""
	user.ProviderAvatarURL = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.broker.Disconnect(userID)
	return user, nil
}

// Search queries the provider catalog on behalf of the user.
func (s *MusicService) Search(ctx context.Context, userID uint, query string, limit int) ([]music.Track, error) {
	if query == "" {
		return nil, models.NewValidationError("A search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	token, err := s.broker.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.catalog.SearchTracks(ctx, token, query, limit)
}

// NowPlaying returns the user's current playback state, nil when nothing
// is playing.
func (s *MusicService) NowPlaying(ctx context.Context, userID uint) (*music.NowPlaying, error) {
	token, err := s.broker.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.catalog.CurrentlyPlaying(ctx, token)
}

// TopTracks returns the user's provider top tracks.
func (s *MusicService) TopTracks(ctx context.Context, userID uint, limit int) ([]music.Track, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	token, err := s.broker.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.catalog.TopTracks(ctx, token, limit)
}

// SongOfDay returns today's pick, choosing a new one through the
// requesting user's provider access when the date has rolled over.
func (s *MusicService) SongOfDay(ctx context.Context, userID uint) (*music.SongOfDay, error) {
	return s.songStore.Current(ctx, func(ctx context.Context) (*music.SongOfDay, error) {
		token, err := s.broker.AccessToken(ctx, userID)
		if err != nil {
			return nil, err
		}

		query := songOfDayQueries[s.now().YearDay()%len(songOfDayQueries)]
		tracks, err := s.catalog.SearchTracks(ctx, token, query, 1)
		if err != nil {
			return nil, err
		}
		if len(tracks) == 0 {
			return nil, models.NewUpstreamError("Music provider returned no tracks", nil)
		}

		track := tracks[0]
		return &music.SongOfDay{
			TrackID:     track.ID,
			SongName:    track.Name,
			ArtistName:  track.ArtistName(),
			AlbumArtURL: track.AlbumArtURL(),
		}, nil
	})
}

// Compare fetches both users' recently played lists concurrently and
// reports the overlap. The other user must be an accepted friend.
func (s *MusicService) Compare(ctx context.Context, userID, otherUserID uint) (*TasteComparison, error) {
	if userID == otherUserID {
		return nil, models.NewValidationError("Cannot compare your taste with yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return nil, models.NewForbiddenError("You can only compare taste with friends")
	}

	const recentLimit = 50
	var mine, theirs []music.PlayHistoryItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		token, err := s.broker.AccessToken(gctx, userID)
		if err != nil {
			return err
		}
		mine, err = s.catalog.RecentlyPlayed(gctx, token, recentLimit)
		return err
	})
	g.Go(func() error {
		token, err := s.broker.AccessToken(gctx, otherUserID)
		if err != nil {
			return err
		}
		theirs, err = s.catalog.RecentlyPlayed(gctx, token, recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison := &TasteComparison{
		UserID:      userID,
		OtherUserID: otherUserID,
		MyRecent:    mine,
		TheirRecent: theirs,
	}

	theirTracks := make(map[string]bool, len(theirs))
	theirArtists := make(map[string]bool)
	for _, item := range theirs {
		theirTracks[item.Track.ID] = true
		for _, artist := range item.Track.Artists {
			theirArtists[artist.Name] = true
		}
	}

	seenTracks := make(map[string]bool)
	seenArtists := make(map[string]bool)
	for _, item := range mine {
		if theirTracks[item.Track.ID] && !seenTracks[item.Track.ID] {
			seenTracks[item.Track.ID] = true
			comparison.SharedTracks = append(comparison.SharedTracks, item.Track)
		}
		for _, artist := range item.Track.Artists {
			if theirArtists[artist.Name] && !seenArtists[artist.Name] {
				seenArtists[artist.Name] = true
				comparison.SharedArtists = append(comparison.SharedArtists, artist.Name)
			}
		}
	}

	return comparison, nil
}
