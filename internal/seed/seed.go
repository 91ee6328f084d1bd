package seed

import (
	"errors"
	"fmt"
	"log"

	"tonality/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	ShouldClean bool
	SkipBcrypt  bool
}

// Seed populates the database with test data: the built-in communities,
// a mesh of users with friendships, community memberships, listening
// snapshots, and votes on the launch poll.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users...", opts.NumUsers)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := Communities(db); err != nil {
		return fmt.Errorf("failed to seed built-in communities: %w", err)
	}

	factory := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d test users created", len(users))

	if err := seedFriendMesh(factory, users); err != nil {
		return fmt.Errorf("failed to create friendships: %w", err)
	}

	var communities []models.Community
	if err := db.Find(&communities).Error; err != nil {
		return fmt.Errorf("failed to load communities: %w", err)
	}
	if err := seedMemberships(factory, users, communities); err != nil {
		return fmt.Errorf("failed to create memberships: %w", err)
	}

	for _, user := range users {
		if _, err := factory.CreateActivity(user); err != nil {
			return fmt.Errorf("failed to create listening activity: %w", err)
		}
	}
	log.Printf("%d listening snapshots created", len(users))

	if err := seedLaunchPollVotes(db, factory, users); err != nil {
		return fmt.Errorf("failed to seed poll votes: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// seedFriendMesh links each user to a handful of later users, alternating
// between accepted friendships and pending requests.
func seedFriendMesh(f *Factory, users []*models.User) error {
	edges := 0
	for i, user := range users {
		for j := i + 1; j < len(users) && j <= i+3; j++ {
			status := models.FriendshipStatusAccepted
			if (i+j)%4 == 0 {
				status = models.FriendshipStatusPending
			}
			if err := f.CreateFriendship(user, users[j], status); err != nil {
				return err
			}
			edges++
		}
	}
	log.Printf("%d friendship edges created", edges)
	return nil
}

// seedMemberships spreads users across the communities. Every user joins at
// least one; roughly half join a second.
func seedMemberships(f *Factory, users []*models.User, communities []models.Community) error {
	if len(communities) == 0 {
		return nil
	}
	joins := 0
	for i, user := range users {
		if err := f.JoinCommunity(user, communities[i%len(communities)].ID); err != nil {
			return err
		}
		joins++
		if i%2 == 0 && len(communities) > 1 {
			second := communities[(i+1)%len(communities)]
			if second.ID != communities[i%len(communities)].ID {
				if err := f.JoinCommunity(user, second.ID); err != nil {
					return err
				}
				joins++
			}
		}
	}
	log.Printf("%d community memberships created", joins)
	return nil
}

// seedLaunchPollVotes has the Indie Lovers members vote on the launch poll.
func seedLaunchPollVotes(db *gorm.DB, f *Factory, users []*models.User) error {
	var poll models.Poll
	err := db.Preload("Options").
		Where("title = ?", "Best Indie Album of the Year?").
		First(&poll).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if len(poll.Options) == 0 {
		return nil
	}

	votes := 0
	for i, user := range users {
		var membership models.Membership
		err := db.Where("community_id = ? AND user_id = ?", poll.CommunityID, user.ID).
			First(&membership).Error
		if err != nil {
			continue
		}
		option := poll.Options[i%len(poll.Options)]
		if err := f.CastVote(user, poll.ID, option.ID); err != nil {
			return err
		}
		votes++
	}
	log.Printf("%d launch poll votes cast", votes)
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE poll_votes, poll_options, polls, memberships, communities, friendships, listening_activities, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
