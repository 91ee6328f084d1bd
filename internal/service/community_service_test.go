package service

import (
	"context"
	"errors"
	"testing"

	"tonality/internal/models"
	"tonality/internal/repository"
)

func TestCommunityServiceJoinDuplicate(t *testing.T) {
	repo := noopCommunityRepo()
	repo.joinFn = func(context.Context, uint, uint) error { return repository.ErrAlreadyMember }

	svc := NewCommunityService(repo, noopUserRepo())
	_, err := svc.JoinCommunity(context.Background(), 1, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
		t.Fatalf("expected conflict app error, got %#v", err)
	}
}

func TestCommunityServiceLeaveWithoutMembership(t *testing.T) {
	repo := noopCommunityRepo()
	repo.leaveFn = func(context.Context, uint, uint) error { return repository.ErrNotMember }

	svc := NewCommunityService(repo, noopUserRepo())
	_, err := svc.LeaveCommunity(context.Background(), 1, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected not-found app error, got %#v", err)
	}
}

func TestCommunityServiceJoinUnknownCommunity(t *testing.T) {
	repo := noopCommunityRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Community, error) {
		return nil, models.NewNotFoundError("Community", id)
	}

	svc := NewCommunityService(repo, noopUserRepo())
	_, err := svc.JoinCommunity(context.Background(), 99, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected not-found app error, got %#v", err)
	}
}

func TestCommunityServiceTopSongsAggregates(t *testing.T) {
	repo := noopCommunityRepo()
	repo.getMemberActivitiesFn = func(context.Context, uint) ([]models.ListeningActivity, error) {
		return []models.ListeningActivity{
			{UserID: 1, TrackID: "t1", TrackName: "Popular", ArtistName: "A"},
			{UserID: 2, TrackID: "t1", TrackName: "Popular", ArtistName: "A"},
			{UserID: 3, TrackID: "t1", TrackName: "Popular", ArtistName: "A"},
			{UserID: 4, TrackID: "t2", TrackName: "Niche", ArtistName: "B"},
			{UserID: 5, TrackID: "", TrackName: "No track"},
		}, nil
	}

	svc := NewCommunityService(repo, noopUserRepo())
	songs, err := svc.GetTopSongs(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 chart entries, got %d", len(songs))
	}
	if songs[0].TrackID != "t1" || songs[0].ListenerCount != 3 {
		t.Fatalf("expected t1 with 3 listeners first, got %+v", songs[0])
	}
	if songs[1].TrackID != "t2" || songs[1].ListenerCount != 1 {
		t.Fatalf("expected t2 with 1 listener second, got %+v", songs[1])
	}
}

func TestCommunityServiceTopSongsRespectsLimit(t *testing.T) {
	repo := noopCommunityRepo()
	repo.getMemberActivitiesFn = func(context.Context, uint) ([]models.ListeningActivity, error) {
		return []models.ListeningActivity{
			{UserID: 1, TrackID: "t1", TrackName: "One"},
			{UserID: 2, TrackID: "t2", TrackName: "Two"},
			{UserID: 3, TrackID: "t3", TrackName: "Three"},
		}, nil
	}

	svc := NewCommunityService(repo, noopUserRepo())
	songs, err := svc.GetTopSongs(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected the chart to be capped at 2, got %d", len(songs))
	}
}
