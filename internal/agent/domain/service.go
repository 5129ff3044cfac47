package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateAgentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateAgentRequest carries optional fields; nil means leave unchanged.
type UpdateAgentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type Service interface {
	CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error)
	GetAgent(ctx context.Context, agentID snowflake.ID) (*Agent, error)
	ListAgents(ctx context.Context) ([]Agent, error)
	UpdateAgent(ctx context.Context, agentID snowflake.ID, req UpdateAgentRequest) (*Agent, error)
	DeleteAgent(ctx context.Context, agentID snowflake.ID) error
}
