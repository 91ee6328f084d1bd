package service

import (
	"context"
	"errors"
	"time"

	"tonality/internal/models"
	"tonality/internal/observability"
	"tonality/internal/repository"
)

// PollService provides community poll business logic.
type PollService struct {
	pollRepo      repository.PollRepository
	communityRepo repository.CommunityRepository
	now           func() time.Time
}

// NewPollService returns a new PollService.
func NewPollService(pollRepo repository.PollRepository, communityRepo repository.CommunityRepository) *PollService {
	return &PollService{
		pollRepo:      pollRepo,
		communityRepo: communityRepo,
		now:           time.Now,
	}
}

// CreatePollInput carries the poll creation fields.
type CreatePollInput struct {
	CommunityID uint
	Title       string
	Description string
	EndsAt      time.Time
	Options     []PollOptionInput
}

// PollOptionInput is one song choice submitted with a new poll.
type PollOptionInput struct {
	SongName   string `json:"song_name"`
	ArtistName string `json:"artist_name"`
	TrackID    string `json:"track_id"`
}

// CreatePoll creates an active poll in the community. Only members may
// create polls; any previously active poll is deactivated.
func (s *PollService) CreatePoll(ctx context.Context, userID uint, in CreatePollInput) (*models.Poll, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Poll title is required")
	}
	if len(in.Options) < 2 {
		return nil, models.NewValidationError("A poll needs at least two options")
	}
	if !in.EndsAt.IsZero() && in.EndsAt.Before(s.now()) {
		return nil, models.NewValidationError("Poll end time must be in the future")
	}

	if _, err := s.communityRepo.GetByID(ctx, in.CommunityID); err != nil {
		return nil, err
	}
	membership, err := s.communityRepo.GetMembership(ctx, in.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewForbiddenError("Only community members can create polls")
	}

	poll := &models.Poll{
		CommunityID: in.CommunityID,
		Title:       in.Title,
		Description: in.Description,
		EndsAt:      in.EndsAt,
		IsActive:    true,
	}
	for _, opt := range in.Options {
		if opt.SongName == "" || opt.ArtistName == "" {
			return nil, models.NewValidationError("Every option needs a song and artist name")
		}
		poll.Options = append(poll.Options, models.PollOption{
			SongName:   opt.SongName,
			ArtistName: opt.ArtistName,
			TrackID:    opt.TrackID,
		})
	}

	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, err
	}
	return s.pollRepo.GetByID(ctx, poll.ID)
}

// GetPoll returns the poll with its options and current tallies.
func (s *PollService) GetPoll(ctx context.Context, pollID uint) (*models.Poll, error) {
	return s.pollRepo.GetByID(ctx, pollID)
}

// GetActivePoll returns the community's active poll with options, or nil
// when none is running.
func (s *PollService) GetActivePoll(ctx context.Context, communityID uint) (*models.Poll, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}
	return s.pollRepo.GetActiveByCommunity(ctx, communityID)
}

// ListPolls returns the community's polls, newest first.
func (s *PollService) ListPolls(ctx context.Context, communityID uint, limit, offset int) ([]models.Poll, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}
	return s.pollRepo.ListByCommunity(ctx, communityID, limit, offset)
}

// Vote records or switches the user's vote. Members only; the poll must be
// active and not past its end time.
func (s *PollService) Vote(ctx context.Context, pollID, userID, optionID uint) (*models.Poll, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	membership, err := s.communityRepo.GetMembership(ctx, poll.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewForbiddenError("Only community members can vote")
	}

	if !poll.IsActive {
		return nil, models.NewValidationError("Poll is no longer active")
	}
	if !poll.EndsAt.IsZero() && s.now().After(poll.EndsAt) {
		return nil, models.NewValidationError("Poll has ended")
	}

	_, switched, err := s.pollRepo.CastVote(ctx, pollID, userID, optionID)
	if err != nil {
		if errors.Is(err, repository.ErrOptionNotInPoll) {
			return nil, models.NewValidationError("Option does not belong to this poll")
		}
		return nil, err
	}

	if switched {
		observability.PollVotes.WithLabelValues("switched").Inc()
	} else {
		observability.PollVotes.WithLabelValues("new").Inc()
	}

	return s.pollRepo.GetByID(ctx, pollID)
}

// GetMyVote returns the user's vote in the poll, or nil when they have not
// voted.
func (s *PollService) GetMyVote(ctx context.Context, pollID, userID uint) (*models.PollVote, error) {
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return s.pollRepo.GetVote(ctx, pollID, userID)
}
