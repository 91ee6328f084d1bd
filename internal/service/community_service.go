package service

import (
	"context"
	"errors"
	"sort"

	"tonality/internal/cache"
	"tonality/internal/models"
	"tonality/internal/repository"
)

// TopSong is one entry of a community's aggregated listening chart.
type TopSong struct {
	TrackID       string `json:"track_id"`
	TrackName     string `json:"track_name"`
	ArtistName    string `json:"artist_name"`
	AlbumArtURL   string `json:"album_art_url"`
	ListenerCount int    `json:"listener_count"`
}

// CommunityService provides community membership and chart business logic.
type CommunityService struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
}

// NewCommunityService returns a new CommunityService.
func NewCommunityService(communityRepo repository.CommunityRepository, userRepo repository.UserRepository) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		userRepo:      userRepo,
	}
}

// ListCommunities returns communities ordered by member count.
func (s *CommunityService) ListCommunities(ctx context.Context, limit, offset int) ([]models.Community, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.communityRepo.List(ctx, limit, offset)
}

// GetCommunity returns a single community.
func (s *CommunityService) GetCommunity(ctx context.Context, id uint) (*models.Community, error) {
	return s.communityRepo.GetByID(ctx, id)
}

// JoinCommunity adds the user as a member.
func (s *CommunityService) JoinCommunity(ctx context.Context, communityID, userID uint) (*models.Community, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}

	if err := s.communityRepo.Join(ctx, communityID, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return nil, models.NewConflictError("You are already a member of this community")
		}
		return nil, err
	}

	return s.communityRepo.GetByID(ctx, communityID)
}

// LeaveCommunity removes the user's membership.
func (s *CommunityService) LeaveCommunity(ctx context.Context, communityID, userID uint) (*models.Community, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}

	if err := s.communityRepo.Leave(ctx, communityID, userID); err != nil {
		if errors.Is(err, repository.ErrNotMember) {
			return nil, models.NewNotFoundError("Membership", communityID)
		}
		return nil, err
	}

	return s.communityRepo.GetByID(ctx, communityID)
}

// GetMembers returns the community's member list.
func (s *CommunityService) GetMembers(ctx context.Context, communityID uint) ([]models.User, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}
	return s.communityRepo.GetMembers(ctx, communityID)
}

// IsMember reports whether the user belongs to the community.
func (s *CommunityService) IsMember(ctx context.Context, communityID, userID uint) (bool, error) {
	membership, err := s.communityRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return false, err
	}
	return membership != nil, nil
}

// GetTopSongs aggregates the members' current listening activity into a
// chart, most listeners first. The result is cached with a short TTL since
// it is recomputed from every member's activity row.
func (s *CommunityService) GetTopSongs(ctx context.Context, communityID uint, limit int) ([]TopSong, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var songs []TopSong
	key := cache.CommunityTopSongsKey(communityID)
	err := cache.CacheAside(ctx, key, &songs, cache.CommunityTopSongsTTL, func() error {
		activities, err := s.communityRepo.GetMemberActivities(ctx, communityID)
		if err != nil {
			return err
		}

		byTrack := make(map[string]*TopSong)
		for _, a := range activities {
			if a.TrackID == "" {
				continue
			}
			if entry, ok := byTrack[a.TrackID]; ok {
				entry.ListenerCount++
				continue
			}
			byTrack[a.TrackID] = &TopSong{
				TrackID:       a.TrackID,
				TrackName:     a.TrackName,
				ArtistName:    a.ArtistName,
				AlbumArtURL:   a.AlbumArtURL,
				ListenerCount: 1,
			}
		}

		songs = make([]TopSong, 0, len(byTrack))
		for _, entry := range byTrack {
			songs = append(songs, *entry)
		}
		sort.Slice(songs, func(i, j int) bool {
			if songs[i].ListenerCount != songs[j].ListenerCount {
				return songs[i].ListenerCount > songs[j].ListenerCount
			}
			return songs[i].TrackName < songs[j].TrackName
		})
		if len(songs) > limit {
			songs = songs[:limit]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return songs, nil
}
