package models

import "time"

// Poll is a community vote on a set of songs.
type Poll struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CommunityID uint       `gorm:"not null;index" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	EndsAt      time.Time  `json:"ends_at"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Options []PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
}

// TableName specifies the table name for GORM
func (Poll) TableName() string {
	return "polls"
}

// PollOption is one song choice in a poll. Votes is a denormalized tally
// moved between options inside the same transaction as the vote row write.
type PollOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PollID     uint   `gorm:"not null;index" json:"poll_id"`
	SongName   string `gorm:"size:200;not null" json:"song_name"`
	ArtistName string `gorm:"size:200;not null" json:"artist_name"`
	TrackID    string `gorm:"size:64" json:"track_id"`
	Votes      int    `gorm:"not null;default:0" json:"votes"`
}

// TableName specifies the table name for GORM
func (PollOption) TableName() string {
	return "poll_options"
}

// PollVote records a user's single vote in a poll. Re-voting updates the
// row in place.
type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_poll_voter" json:"poll_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_voter" json:"user_id"`
	OptionID  uint      `gorm:"not null" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PollVote) TableName() string {
	return "poll_votes"
}
