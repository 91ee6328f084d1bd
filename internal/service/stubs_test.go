package service

import (
	"context"

	"tonality/internal/models"
	"tonality/internal/music"
)

type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	getByUsernameFn      func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User) error
	updateFn             func(context.Context, *models.User) error
	updateRefreshTokenFn func(context.Context, uint, string) error
	deleteFn             func(context.Context, uint) error
	listFn               func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateRefreshToken(ctx context.Context, userID uint, token string) error {
	return s.updateRefreshTokenFn(ctx, userID, token)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:            func(context.Context, uint) (*models.User, error) { return &models.User{AllowFriendRequests: true, ShareListening: true}, nil },
		getByEmailFn:         func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:      func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:             func(context.Context, *models.User) error { return nil },
		updateFn:             func(context.Context, *models.User) error { return nil },
		updateRefreshTokenFn: func(context.Context, uint, string) error { return nil },
		deleteFn:             func(context.Context, uint) error { return nil },
		listFn:               func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

type friendRepoStub struct {
	createFn                    func(context.Context, *models.Friendship) error
	getByIDFn                   func(context.Context, uint) (*models.Friendship, error)
	getFriendshipBetweenUsersFn func(context.Context, uint, uint) (*models.Friendship, error)
	getFriendsFn                func(context.Context, uint) ([]models.User, error)
	getFriendIDsFn              func(context.Context, uint) ([]uint, error)
	getPendingRequestsFn        func(context.Context, uint) ([]models.Friendship, error)
	getSentRequestsFn           func(context.Context, uint) ([]models.Friendship, error)
	updateStatusFn              func(context.Context, uint, models.FriendshipStatus) error
	deleteFn                    func(context.Context, uint) error
	removeFriendshipFn          func(context.Context, uint, uint) error
}

func (s *friendRepoStub) Create(ctx context.Context, friendship *models.Friendship) error {
	return s.createFn(ctx, friendship)
}
func (s *friendRepoStub) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendRepoStub) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	return s.getFriendshipBetweenUsersFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getFriendsFn(ctx, userID)
}
func (s *friendRepoStub) GetFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.getFriendIDsFn(ctx, userID)
}
func (s *friendRepoStub) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.getPendingRequestsFn(ctx, userID)
}
func (s *friendRepoStub) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.getSentRequestsFn(ctx, userID)
}
func (s *friendRepoStub) UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error {
	return s.updateStatusFn(ctx, friendshipID, status)
}
func (s *friendRepoStub) Delete(ctx context.Context, friendshipID uint) error {
	return s.deleteFn(ctx, friendshipID)
}
func (s *friendRepoStub) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	return s.removeFriendshipFn(ctx, userID1, userID2)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createFn:                    func(context.Context, *models.Friendship) error { return nil },
		getByIDFn:                   func(context.Context, uint) (*models.Friendship, error) { return &models.Friendship{}, nil },
		getFriendshipBetweenUsersFn: func(context.Context, uint, uint) (*models.Friendship, error) { return nil, nil },
		getFriendsFn:                func(context.Context, uint) ([]models.User, error) { return nil, nil },
		getFriendIDsFn:              func(context.Context, uint) ([]uint, error) { return nil, nil },
		getPendingRequestsFn:        func(context.Context, uint) ([]models.Friendship, error) { return nil, nil },
		getSentRequestsFn:           func(context.Context, uint) ([]models.Friendship, error) { return nil, nil },
		updateStatusFn:              func(context.Context, uint, models.FriendshipStatus) error { return nil },
		deleteFn:                    func(context.Context, uint) error { return nil },
		removeFriendshipFn:          func(context.Context, uint, uint) error { return nil },
	}
}

type communityRepoStub struct {
	createFn              func(context.Context, *models.Community) error
	getByIDFn             func(context.Context, uint) (*models.Community, error)
	listFn                func(context.Context, int, int) ([]models.Community, error)
	getMembershipFn       func(context.Context, uint, uint) (*models.Membership, error)
	joinFn                func(context.Context, uint, uint) error
	leaveFn               func(context.Context, uint, uint) error
	getMembersFn          func(context.Context, uint) ([]models.User, error)
	getMemberActivitiesFn func(context.Context, uint) ([]models.ListeningActivity, error)
}

func (s *communityRepoStub) Create(ctx context.Context, community *models.Community) error {
	return s.createFn(ctx, community)
}
func (s *communityRepoStub) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	return s.getByIDFn(ctx, id)
}
func (s *communityRepoStub) List(ctx context.Context, limit, offset int) ([]models.Community, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *communityRepoStub) GetMembership(ctx context.Context, communityID, userID uint) (*models.Membership, error) {
	return s.getMembershipFn(ctx, communityID, userID)
}
func (s *communityRepoStub) Join(ctx context.Context, communityID, userID uint) error {
	return s.joinFn(ctx, communityID, userID)
}
func (s *communityRepoStub) Leave(ctx context.Context, communityID, userID uint) error {
	return s.leaveFn(ctx, communityID, userID)
}
func (s *communityRepoStub) GetMembers(ctx context.Context, communityID uint) ([]models.User, error) {
	return s.getMembersFn(ctx, communityID)
}
func (s *communityRepoStub) GetMemberActivities(ctx context.Context, communityID uint) ([]models.ListeningActivity, error) {
	return s.getMemberActivitiesFn(ctx, communityID)
}

func noopCommunityRepo() *communityRepoStub {
	return &communityRepoStub{
		createFn:              func(context.Context, *models.Community) error { return nil },
		getByIDFn:             func(context.Context, uint) (*models.Community, error) { return &models.Community{}, nil },
		listFn:                func(context.Context, int, int) ([]models.Community, error) { return nil, nil },
		getMembershipFn:       func(context.Context, uint, uint) (*models.Membership, error) { return &models.Membership{}, nil },
		joinFn:                func(context.Context, uint, uint) error { return nil },
		leaveFn:               func(context.Context, uint, uint) error { return nil },
		getMembersFn:          func(context.Context, uint) ([]models.User, error) { return nil, nil },
		getMemberActivitiesFn: func(context.Context, uint) ([]models.ListeningActivity, error) { return nil, nil },
	}
}

type pollRepoStub struct {
	createFn               func(context.Context, *models.Poll) error
	getByIDFn              func(context.Context, uint) (*models.Poll, error)
	getActiveByCommunityFn func(context.Context, uint) (*models.Poll, error)
	listByCommunityFn      func(context.Context, uint, int, int) ([]models.Poll, error)
	getVoteFn              func(context.Context, uint, uint) (*models.PollVote, error)
	castVoteFn             func(context.Context, uint, uint, uint) (*models.PollVote, bool, error)
	deactivateFn           func(context.Context, uint) error
}

func (s *pollRepoStub) Create(ctx context.Context, poll *models.Poll) error {
	return s.createFn(ctx, poll)
}
func (s *pollRepoStub) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	return s.getByIDFn(ctx, id)
}
func (s *pollRepoStub) GetActiveByCommunity(ctx context.Context, communityID uint) (*models.Poll, error) {
	return s.getActiveByCommunityFn(ctx, communityID)
}
func (s *pollRepoStub) ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]models.Poll, error) {
	return s.listByCommunityFn(ctx, communityID, limit, offset)
}
func (s *pollRepoStub) GetVote(ctx context.Context, pollID, userID uint) (*models.PollVote, error) {
	return s.getVoteFn(ctx, pollID, userID)
}
func (s *pollRepoStub) CastVote(ctx context.Context, pollID, userID, optionID uint) (*models.PollVote, bool, error) {
	return s.castVoteFn(ctx, pollID, userID, optionID)
}
func (s *pollRepoStub) Deactivate(ctx context.Context, pollID uint) error {
	return s.deactivateFn(ctx, pollID)
}

func noopPollRepo() *pollRepoStub {
	return &pollRepoStub{
		createFn:               func(context.Context, *models.Poll) error { return nil },
		getByIDFn:              func(context.Context, uint) (*models.Poll, error) { return &models.Poll{IsActive: true}, nil },
		getActiveByCommunityFn: func(context.Context, uint) (*models.Poll, error) { return nil, nil },
		listByCommunityFn:      func(context.Context, uint, int, int) ([]models.Poll, error) { return nil, nil },
		getVoteFn:              func(context.Context, uint, uint) (*models.PollVote, error) { return nil, nil },
		castVoteFn: func(context.Context, uint, uint, uint) (*models.PollVote, bool, error) {
			return &models.PollVote{}, false, nil
		},
		deactivateFn: func(context.Context, uint) error { return nil },
	}
}

type activityRepoStub struct {
	upsertFn        func(context.Context, *models.ListeningActivity) error
	getByUserIDFn   func(context.Context, uint) (*models.ListeningActivity, error)
	listByUserIDsFn func(context.Context, []uint) ([]models.ListeningActivity, error)
}

func (s *activityRepoStub) Upsert(ctx context.Context, activity *models.ListeningActivity) error {
	return s.upsertFn(ctx, activity)
}
func (s *activityRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.ListeningActivity, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *activityRepoStub) ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.ListeningActivity, error) {
	return s.listByUserIDsFn(ctx, userIDs)
}

func noopActivityRepo() *activityRepoStub {
	return &activityRepoStub{
		upsertFn:        func(context.Context, *models.ListeningActivity) error { return nil },
		getByUserIDFn:   func(context.Context, uint) (*models.ListeningActivity, error) { return nil, nil },
		listByUserIDsFn: func(context.Context, []uint) ([]models.ListeningActivity, error) { return nil, nil },
	}
}

type catalogStub struct {
	searchTracksFn     func(context.Context, string, string, int) ([]music.Track, error)
	currentlyPlayingFn func(context.Context, string) (*music.NowPlaying, error)
	topTracksFn        func(context.Context, string, int) ([]music.Track, error)
	recentlyPlayedFn   func(context.Context, string, int) ([]music.PlayHistoryItem, error)
}

func (s *catalogStub) SearchTracks(ctx context.Context, token, query string, limit int) ([]music.Track, error) {
	return s.searchTracksFn(ctx, token, query, limit)
}
func (s *catalogStub) CurrentlyPlaying(ctx context.Context, token string) (*music.NowPlaying, error) {
	return s.currentlyPlayingFn(ctx, token)
}
func (s *catalogStub) TopTracks(ctx context.Context, token string, limit int) ([]music.Track, error) {
	return s.topTracksFn(ctx, token, limit)
}
func (s *catalogStub) RecentlyPlayed(ctx context.Context, token string, limit int) ([]music.PlayHistoryItem, error) {
	return s.recentlyPlayedFn(ctx, token, limit)
}

func noopCatalog() *catalogStub {
	return &catalogStub{
		searchTracksFn:     func(context.Context, string, string, int) ([]music.Track, error) { return nil, nil },
		currentlyPlayingFn: func(context.Context, string) (*music.NowPlaying, error) { return nil, nil },
		topTracksFn:        func(context.Context, string, int) ([]music.Track, error) { return nil, nil },
		recentlyPlayedFn:   func(context.Context, string, int) ([]music.PlayHistoryItem, error) { return nil, nil },
	}
}

type brokerStub struct {
	accessTokenFn func(context.Context, uint) (string, error)
	disconnected  []uint
}

func (s *brokerStub) AccessToken(ctx context.Context, userID uint) (string, error) {
	if s.accessTokenFn != nil {
		return s.accessTokenFn(ctx, userID)
	}
	return "access-token", nil
}
func (s *brokerStub) Disconnect(userID uint) {
	s.disconnected = append(s.disconnected, userID)
}
