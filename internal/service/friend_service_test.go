package service

import (
	"context"
	"errors"
	"testing"

	"tonality/internal/models"
)

func TestFriendServiceSendFriendRequestSelf(t *testing.T) {
	svc := NewFriendService(noopFriendRepo(), noopUserRepo())
	_, err := svc.SendFriendRequest(context.Background(), 3, 3)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestFriendServiceSendFriendRequestPrivacyClosed(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 2, AllowFriendRequests: false}, nil
	}

	svc := NewFriendService(noopFriendRepo(), users)
	_, err := svc.SendFriendRequest(context.Background(), 1, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "FORBIDDEN" {
		t.Fatalf("expected forbidden app error, got %#v", err)
	}
}

func TestFriendServiceSendFriendRequestDuplicatePending(t *testing.T) {
	repo := noopFriendRepo()
	repo.getFriendshipBetweenUsersFn = func(context.Context, uint, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 7, RequesterID: 1, AddresseeID: 2, Status: models.FriendshipStatusPending}, nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	_, err := svc.SendFriendRequest(context.Background(), 1, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
		t.Fatalf("expected conflict app error, got %#v", err)
	}
}

func TestFriendServiceSendFriendRequestAlreadyFriends(t *testing.T) {
	repo := noopFriendRepo()
	repo.getFriendshipBetweenUsersFn = func(context.Context, uint, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 7, RequesterID: 2, AddresseeID: 1, Status: models.FriendshipStatusAccepted}, nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	_, err := svc.SendFriendRequest(context.Background(), 1, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
		t.Fatalf("expected conflict app error, got %#v", err)
	}
}

func TestFriendServiceSendFriendRequestReverseDirectionPending(t *testing.T) {
	// B already requested A; A requesting B collides with the same edge.
	repo := noopFriendRepo()
	repo.getFriendshipBetweenUsersFn = func(context.Context, uint, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 7, RequesterID: 2, AddresseeID: 1, Status: models.FriendshipStatusPending}, nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	_, err := svc.SendFriendRequest(context.Background(), 1, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
		t.Fatalf("expected conflict app error, got %#v", err)
	}
}

func TestFriendServiceAcceptOnlyAddressee(t *testing.T) {
	repo := noopFriendRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 5, RequesterID: 10, AddresseeID: 11, Status: models.FriendshipStatusPending}, nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	_, err := svc.AcceptFriendRequest(context.Background(), 10, 5)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "FORBIDDEN" {
		t.Fatalf("expected forbidden app error, got %#v", err)
	}
}

func TestFriendServiceAcceptUpdatesEdge(t *testing.T) {
	updated := models.FriendshipStatus("")
	repo := noopFriendRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 5, RequesterID: 10, AddresseeID: 11, Status: models.FriendshipStatusPending}, nil
	}
	repo.updateStatusFn = func(_ context.Context, _ uint, status models.FriendshipStatus) error {
		updated = status
		return nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	if _, err := svc.AcceptFriendRequest(context.Background(), 11, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != models.FriendshipStatusAccepted {
		t.Fatalf("expected the single edge to flip to accepted, got %q", updated)
	}
}

func TestFriendServiceRejectByRequesterCancels(t *testing.T) {
	deleted := uint(0)
	repo := noopFriendRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 5, RequesterID: 10, AddresseeID: 11, Status: models.FriendshipStatusPending}, nil
	}
	repo.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	if _, err := svc.RejectFriendRequest(context.Background(), 10, 5); err != nil {
		t.Fatalf("requester must be able to cancel their own request: %v", err)
	}
	if deleted != 5 {
		t.Fatalf("expected the edge to be deleted, got id %d", deleted)
	}
}

func TestFriendServiceRejectByThirdParty(t *testing.T) {
	repo := noopFriendRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 5, RequesterID: 10, AddresseeID: 11, Status: models.FriendshipStatusPending}, nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	_, err := svc.RejectFriendRequest(context.Background(), 12, 5)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "FORBIDDEN" {
		t.Fatalf("expected forbidden app error, got %#v", err)
	}
}

func TestFriendServiceRemoveFriendNotAccepted(t *testing.T) {
	repo := noopFriendRepo()
	repo.getFriendshipBetweenUsersFn = func(context.Context, uint, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 9, Status: models.FriendshipStatusPending}, nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	_, err := svc.RemoveFriend(context.Background(), 1, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected not-found app error, got %#v", err)
	}
}

func TestFriendServiceGetFriendshipStatus(t *testing.T) {
	repo := noopFriendRepo()
	repo.getFriendshipBetweenUsersFn = func(context.Context, uint, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 9, RequesterID: 2, AddresseeID: 1, Status: models.FriendshipStatusPending}, nil
	}

	svc := NewFriendService(repo, noopUserRepo())
	status, requestID, err := svc.GetFriendshipStatus(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "pending_received" || requestID != 9 {
		t.Fatalf("expected pending_received/9, got %s/%d", status, requestID)
	}
}
