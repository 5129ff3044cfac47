// Package domain contains persistence models for the workspace service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Workspace represents a tenant.
type Workspace struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:text;not null" json:"name"`
	Slug        *string        `gorm:"type:text;uniqueIndex:ux_workspaces_slug" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedBy   snowflake.ID   `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the database table name.
func (Workspace) TableName() string { return "workspaces" }

// Member represents membership of a user in a workspace. Removal soft-deletes
// the row; rejoining creates a fresh one. At most one active row may exist per
// (workspace, user) pair, which the partial unique index in the schema
// enforces under concurrency.
type Member struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID   `gorm:"column:workspace_id;not null;index" json:"workspace_id"`
	UserID      snowflake.ID   `gorm:"column:user_id;not null;index" json:"user_id"`
	Role        Role           `gorm:"type:text;not null" json:"role"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "workspace_members" }

// Invitation tracks a pending invite to a workspace. Accepted and revoked
// invitations are hard-deleted, so every surviving row is pending and the
// (workspace, email) unique index doubles as the concurrency guard.
type Invitation struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID `gorm:"column:workspace_id;not null;index;uniqueIndex:ux_invitations_pending,priority:1" json:"workspace_id"`
	Email       string       `gorm:"type:text;not null;uniqueIndex:ux_invitations_pending,priority:2" json:"email"`
	Role        Role         `gorm:"type:text;not null" json:"role"`
	Status      string       `gorm:"type:text;not null;default:pending" json:"status"`
	InvitedBy   snowflake.ID `gorm:"column:invited_by;not null;index" json:"invited_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	ExpiresAt   time.Time    `gorm:"column:expires_at;not null" json:"expires_at"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "workspace_invitations" }

const (
	InvitationStatusPending = "pending"

	// InvitationTTL is how long an invitation stays valid once issued.
	InvitationTTL = 30 * 24 * time.Hour
)
