package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByUserID(ctx context.Context, userID snowflake.ID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, userID snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, userID snowflake.ID) error
}
