package models

import "time"

// Community represents a music community users can join.
type Community struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:120;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IconName    string `gorm:"size:64" json:"icon_name"`

	// MemberCount is a denormalized counter maintained inside the same
	// transaction as the membership row write.
	MemberCount int `gorm:"not null;default:0" json:"member_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Community) TableName() string {
	return "communities"
}

// Membership maps users to communities.
type Membership struct {
	CommunityID uint       `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	UserID      uint       `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt    time.Time  `gorm:"autoCreateTime" json:"joined_at"`
}

// TableName specifies the table name for GORM
func (Membership) TableName() string {
	return "memberships"
}
