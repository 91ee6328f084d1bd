// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered listener.
//
// The provider refresh token is the long-lived credential the token broker
// exchanges for short-lived access tokens. It is never serialized in API
// responses.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Online bool `gorm:"default:false" json:"online"`

	// Privacy flags
	AllowFriendRequests bool `gorm:"default:true" json:"allow_friend_requests"`
	ShareListening      bool `gorm:"default:true" json:"share_listening"`

	// Provider-linked profile data
	ProviderDisplayName  string `json:"provider_display_name"`
	ProviderAvatarURL    string `json:"provider_avatar_url"`
	ProviderRefreshToken string `gorm:"size:512" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasLinkedProvider reports whether the user connected a streaming account.
func (u *User) HasLinkedProvider() bool {
	return u.ProviderRefreshToken != ""
}
