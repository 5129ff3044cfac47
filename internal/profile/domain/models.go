// Package domain contains the user profile types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Profile is the display identity attached to a user account.
type Profile struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID   `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Name      string         `gorm:"type:text" json:"name"`
	Username  *string        `gorm:"type:text;uniqueIndex" json:"username"`
	AvatarURL string         `gorm:"column:avatar_url;type:text" json:"avatar_url"`
	Email     string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }
