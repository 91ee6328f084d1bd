package service

import (
	"context"
	"time"

	"tonality/internal/cache"
	"tonality/internal/models"
	"tonality/internal/repository"
)

// ActivityService provides listening-activity business logic: the per-user
// snapshot, friend visibility, and the friends feed.
type ActivityService struct {
	activityRepo repository.ActivityRepository
	friendRepo   repository.FriendRepository
	userRepo     repository.UserRepository
}

// NewActivityService returns a new ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository, friendRepo repository.FriendRepository, userRepo repository.UserRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		friendRepo:   friendRepo,
		userRepo:     userRepo,
	}
}

// UpdateActivityInput carries the fields of a listening snapshot update.
type UpdateActivityInput struct {
	TrackID     string    `json:"track_id"`
	TrackName   string    `json:"track_name"`
	ArtistName  string    `json:"artist_name"`
	AlbumArtURL string    `json:"album_art_url"`
	StartedAt   time.Time `json:"started_at"`
}

// UpdateActivity overwrites the user's listening snapshot.
func (s *ActivityService) UpdateActivity(ctx context.Context, userID uint, in UpdateActivityInput) (*models.ListeningActivity, error) {
	if in.TrackID == "" || in.TrackName == "" {
		return nil, models.NewValidationError("Track ID and name are required")
	}
	if in.StartedAt.IsZero() {
		in.StartedAt = time.Now()
	}

	activity := &models.ListeningActivity{
		UserID:      userID,
		TrackID:     in.TrackID,
		TrackName:   in.TrackName,
		ArtistName:  in.ArtistName,
		AlbumArtURL: in.AlbumArtURL,
		StartedAt:   in.StartedAt,
	}
	if err := s.activityRepo.Upsert(ctx, activity); err != nil {
		return nil, err
	}

	return s.activityRepo.GetByUserID(ctx, userID)
}

// GetUserActivity returns another user's listening snapshot. The viewer
// must be an accepted friend and the target must share listening activity.
func (s *ActivityService) GetUserActivity(ctx context.Context, viewerID, targetID uint) (*models.ListeningActivity, error) {
	if viewerID == targetID {
		return s.activityRepo.GetByUserID(ctx, targetID)
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return nil, models.NewForbiddenError("You can only see friends' listening activity")
	}
	if !target.ShareListening {
		return nil, models.NewForbiddenError("This user does not share listening activity")
	}

	return s.activityRepo.GetByUserID(ctx, targetID)
}

// GetFriendsFeed returns the listening snapshots of the user's friends who
// share their activity, newest first. Cached briefly since it fans out over
// the whole friend list.
func (s *ActivityService) GetFriendsFeed(ctx context.Context, userID uint) ([]models.ListeningActivity, error) {
	var feed []models.ListeningActivity
	key := cache.FriendsFeedKey(userID)
	err := cache.CacheAside(ctx, key, &feed, cache.FriendsFeedTTL, func() error {
		friendIDs, err := s.friendRepo.GetFriendIDs(ctx, userID)
		if err != nil {
			return err
		}

		activities, err := s.activityRepo.ListByUserIDs(ctx, friendIDs)
		if err != nil {
			return err
		}

		feed = make([]models.ListeningActivity, 0, len(activities))
		for _, a := range activities {
			if a.User != nil && !a.User.ShareListening {
				continue
			}
			feed = append(feed, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feed, nil
}
