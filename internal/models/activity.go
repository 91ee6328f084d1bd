package models

import "time"

// ListeningActivity is a user's most recent listening snapshot. One row per
// user, overwritten in place on each update.
type ListeningActivity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TrackID     string    `gorm:"size:64;not null" json:"track_id"`
	TrackName   string    `gorm:"size:200;not null" json:"track_name"`
	ArtistName  string    `gorm:"size:200" json:"artist_name"`
	AlbumArtURL string    `json:"album_art_url"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ListeningActivity) TableName() string {
	return "listening_activities"
}
