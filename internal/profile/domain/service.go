package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// EnsureInitial creates the profile on first login. It fails with
	// ErrProfileExists when the user already has one.
	EnsureInitial(ctx context.Context, userID snowflake.ID, email string) (*Profile, error)
	GetByUserID(ctx context.Context, userID snowflake.ID) (*Profile, error)
	Update(ctx context.Context, userID snowflake.ID, req UpdateProfileRequest) (*Profile, error)
	Delete(ctx context.Context, userID snowflake.ID) error
}

type UpdateProfileRequest struct {
	Name      *string
	Username  *string
	AvatarURL *string
}
