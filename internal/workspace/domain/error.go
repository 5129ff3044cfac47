package domain

import "errors"

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidUser        = errors.New("invalid_user")
	ErrInvalidWorkspace   = errors.New("invalid_workspace")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrForbidden          = errors.New("forbidden")
	ErrLastOwner          = errors.New("cannot remove or demote the last owner")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrAlreadyMember      = errors.New("user is already a member")
	ErrInvitePending      = errors.New("invitation already pending for this email")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrEmailMismatch      = errors.New("invitation was issued to a different email")
	ErrEmailRequired      = errors.New("profile email required")
)
