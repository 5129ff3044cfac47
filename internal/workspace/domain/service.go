package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateWorkspace(ctx context.Context, userID snowflake.ID, req CreateWorkspaceRequest) (*WorkspaceResponse, error)
	GetWorkspace(ctx context.Context, userID, workspaceID snowflake.ID) (*WorkspaceResponse, error)
	GetUserWorkspaces(ctx context.Context, userID snowflake.ID) ([]WorkspaceResponse, error)
	UpdateWorkspace(ctx context.Context, userID, workspaceID snowflake.ID, req UpdateWorkspaceRequest) (*WorkspaceResponse, error)
	DeleteWorkspace(ctx context.Context, userID, workspaceID snowflake.ID) error

	GetWorkspaceMembers(ctx context.Context, userID, workspaceID snowflake.ID) ([]MemberResponse, error)
	UpdateMemberRole(ctx context.Context, userID, workspaceID, memberID snowflake.ID, role Role) (*MemberResponse, error)
	RemoveMember(ctx context.Context, userID, workspaceID, memberID snowflake.ID) error

	CreateInvitation(ctx context.Context, userID, workspaceID snowflake.ID, req CreateInvitationRequest) (*Invitation, error)
	GetWorkspaceInvitations(ctx context.Context, userID, workspaceID snowflake.ID) ([]Invitation, error)
	RevokeInvitation(ctx context.Context, userID, workspaceID, invitationID snowflake.ID) (*Invitation, error)
	GetUserInvitations(ctx context.Context, userID snowflake.ID) ([]InvitationResponse, error)
	AcceptInvitation(ctx context.Context, userID snowflake.ID, invitationID snowflake.ID) (*WorkspaceResponse, error)
}

type CreateWorkspaceRequest struct {
	Name        string
	Slug        string
	Description string
}

type UpdateWorkspaceRequest struct {
	Name        *string
	Slug        *string
	Description *string
}

type CreateInvitationRequest struct {
	Email string
	Role  Role
}

// WorkspaceResponse carries the workspace together with the caller's role and
// derived permission set so clients never compute policy themselves.
type WorkspaceResponse struct {
	Workspace   Workspace    `json:"workspace"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
}

type MemberResponse struct {
	ID          snowflake.ID `json:"id"`
	WorkspaceID snowflake.ID `json:"workspace_id"`
	UserID      snowflake.ID `json:"user_id"`
	Role        Role         `json:"role"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	CreatedAt   time.Time    `json:"created_at"`
}

type InvitationResponse struct {
	Invitation    Invitation `json:"invitation"`
	WorkspaceName string     `json:"workspace_name"`
}

// Config carries deployment policy knobs for invitation acceptance.
type Config struct {
	// RequireEmailMatch rejects acceptance when the authenticated user's
	// profile email differs from the invitation email.
	RequireEmailMatch bool
	// EnforceExpiry rejects acceptance of invitations past their
	// expires_at instead of treating the deadline as advisory.
	EnforceExpiry bool
}
