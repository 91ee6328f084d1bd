package seed

import (
	"fmt"
	"time"

	"tonality/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInCommunity is a permanent system community.
type BuiltInCommunity struct {
	Name        string
	Description string
	IconName    string
}

// BuiltInCommunities defines the permanent system communities.
var BuiltInCommunities = []BuiltInCommunity{
	{Name: "Indie Lovers", Description: "For fans of indie rock, indie pop, and alternative music", IconName: "musical-notes"},
	{Name: "Lo-Fi Chill", Description: "Relaxing lo-fi beats and chill vibes", IconName: "headset"},
	{Name: "Hip-Hop Heads", Description: "Classic and modern hip-hop discussion", IconName: "mic"},
	{Name: "Electronic Music", Description: "EDM, house, techno, and electronic beats", IconName: "radio"},
}

// launchPollOptions are the songs on the launch poll in Indie Lovers.
var launchPollOptions = []models.PollOption{
	{SongName: "The Modern Age", ArtistName: "The Strokes"},
	{SongName: "Mr. Brightside", ArtistName: "The Killers"},
	{SongName: "Float On", ArtistName: "Modest Mouse"},
	{SongName: "Take Me Out", ArtistName: "Franz Ferdinand"},
}

// Communities seeds the permanent built-in communities and the launch poll.
// It is idempotent: names are upserted and the poll is only created when the
// community has no poll yet. Member counts and vote tallies start at zero
// and are moved by real memberships and votes.
func Communities(db *gorm.DB) error {
	for _, item := range BuiltInCommunities {
		err := db.Transaction(func(tx *gorm.DB) error {
			community := models.Community{
				Name:        item.Name,
				Description: item.Description,
				IconName:    item.IconName,
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"description", "icon_name", "updated_at"}),
			}).Create(&community).Error; err != nil {
				return err
			}

			if community.ID == 0 {
				if err := tx.Where("name = ?", item.Name).First(&community).Error; err != nil {
					return err
				}
			}

			if item.Name != "Indie Lovers" {
				return nil
			}

			var pollCount int64
			if err := tx.Model(&models.Poll{}).
				Where("community_id = ?", community.ID).
				Count(&pollCount).Error; err != nil {
				return err
			}
			if pollCount > 0 {
				return nil
			}

			poll := models.Poll{
				CommunityID: community.ID,
				Title:       "Best Indie Album of the Year?",
				Description: "Vote for your favorite indie album released this year!",
				EndsAt:      time.Now().Add(3 * 24 * time.Hour),
				IsActive:    true,
			}
			if err := tx.Create(&poll).Error; err != nil {
				return err
			}

			for _, option := range launchPollOptions {
				option.PollID = poll.ID
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed built-in community %s: %w", item.Name, err)
		}
	}

	return nil
}
