package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// WorkspaceListItem is a workspace joined with the caller's role.
type WorkspaceListItem struct {
	Workspace Workspace
	Role      Role
}

// MemberListItem is a membership row joined with the member's profile.
type MemberListItem struct {
	Member Member
	Name   string
	Email  string
}

// InvitationListItem is an invitation joined with its workspace name.
type InvitationListItem struct {
	Invitation    Invitation
	WorkspaceName string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateWorkspace(ctx context.Context, ws Workspace) error
	GetWorkspace(ctx context.Context, id snowflake.ID) (*Workspace, error)
	UpdateWorkspace(ctx context.Context, id snowflake.ID, fields map[string]any) error
	SoftDeleteWorkspace(ctx context.Context, id snowflake.ID) error
	ListWorkspacesByUser(ctx context.Context, userID snowflake.ID) ([]WorkspaceListItem, error)

	AddMember(ctx context.Context, member Member) error
	GetMember(ctx context.Context, workspaceID, userID snowflake.ID) (*Member, error)
	GetMemberByID(ctx context.Context, memberID snowflake.ID) (*Member, error)
	ListMembers(ctx context.Context, workspaceID snowflake.ID) ([]MemberListItem, error)
	UpdateMemberRole(ctx context.Context, memberID snowflake.ID, role Role, now time.Time) error
	RemoveMember(ctx context.Context, memberID snowflake.ID) error
	// CountOwners locks the surviving owner rows on engines that support
	// row locking so concurrent demotions recount serially.
	CountOwners(ctx context.Context, workspaceID snowflake.ID) (int64, error)
	IsActiveMemberEmail(ctx context.Context, workspaceID snowflake.ID, email string) (bool, error)

	CreateInvitation(ctx context.Context, invite Invitation) error
	GetInvitation(ctx context.Context, id snowflake.ID) (*Invitation, error)
	FindPendingInvitation(ctx context.Context, workspaceID snowflake.ID, email string) (*Invitation, error)
	ListInvitations(ctx context.Context, workspaceID snowflake.ID) ([]Invitation, error)
	ListInvitationsByEmail(ctx context.Context, email string) ([]InvitationListItem, error)
	DeleteInvitation(ctx context.Context, id snowflake.ID) error
}
