package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, agent *Agent) error
	FindByID(ctx context.Context, agentID snowflake.ID) (*Agent, error)
	List(ctx context.Context) ([]Agent, error)
	UpdateFields(ctx context.Context, agentID snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, agentID snowflake.ID) error
}
