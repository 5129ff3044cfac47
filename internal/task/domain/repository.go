package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Filter narrows task listings. Zero values mean no constraint. AfterID and
// Limit are set by the service when the caller paginates; listings are
// ordered by descending id.
type Filter struct {
	Status  string
	AgentID *snowflake.ID
	AfterID *snowflake.ID
	Limit   int
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, taskID snowflake.ID) (*Task, error)
	List(ctx context.Context, filter Filter) ([]Task, error)
	UpdateFields(ctx context.Context, taskID snowflake.ID, fields map[string]any) error
	UnassignByAgent(ctx context.Context, agentID snowflake.ID) (int64, error)
	Delete(ctx context.Context, taskID snowflake.ID) error
}
