// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"tonality/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:            gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:               gofakeit.Email(),
		AllowFriendRequests: true,
		ShareListening:      true,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFriendship persists a friendship edge between two users.
func (f *Factory) CreateFriendship(requester, addressee *models.User, status models.FriendshipStatus) error {
	friendship := &models.Friendship{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      status,
	}
	return f.db.Create(friendship).Error
}

// JoinCommunity adds the user to the community and bumps the member count
// in the same transaction, matching what the API does.
func (f *Factory) JoinCommunity(user *models.User, communityID uint) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		membership := &models.Membership{
			CommunityID: communityID,
			UserID:      user.ID,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}
		return tx.Model(&models.Community{}).
			Where("id = ?", communityID).
			Update("member_count", gorm.Expr("member_count + 1")).Error
	})
}

// CreateActivity constructs and persists a listening snapshot for the user.
func (f *Factory) CreateActivity(user *models.User, overrides ...func(*models.ListeningActivity)) (*models.ListeningActivity, error) {
	// realistic started_at spread over the last few hours
	minsBack := f.rng.Intn(240)
	activity := &models.ListeningActivity{
		UserID:      user.ID,
		TrackID:     gofakeit.UUID(),
		TrackName:   gofakeit.HipsterSentence(3),
		ArtistName:  gofakeit.Name(),
		AlbumArtURL: fmt.Sprintf("https://picsum.photos/seed/%s/300/300", gofakeit.UUID()),
		StartedAt:   time.Now().Add(-time.Duration(minsBack) * time.Minute),
	}

	for _, override := range overrides {
		override(activity)
	}

	if err := f.db.Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

// CastVote records a vote and bumps the option tally in the same
// transaction, matching what the API does.
func (f *Factory) CastVote(user *models.User, pollID, optionID uint) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		vote := &models.PollVote{
			PollID:   pollID,
			UserID:   user.ID,
			OptionID: optionID,
		}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		return tx.Model(&models.PollOption{}).
			Where("id = ?", optionID).
			Update("votes", gorm.Expr("votes + 1")).Error
	})
}
