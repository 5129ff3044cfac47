package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/agent/domain"
	"github.com/lumonlabs/severatee/internal/clock"
	"github.com/lumonlabs/severatee/internal/providers/wallet"
	taskdomain "github.com/lumonlabs/severatee/internal/task/domain"
	"github.com/lumonlabs/severatee/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db      *gorm.DB
	repo    domain.Repository
	tasks   taskdomain.Repository
	wallets wallet.Provider
	genID   *snowflake.Node
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(conn *gorm.DB, repo domain.Repository, tasks taskdomain.Repository, wallets wallet.Provider, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:      conn,
		repo:    repo,
		tasks:   tasks,
		wallets: wallets,
		genID:   genID,
		clock:   clk,
		log:     log.Named("agent.service"),
	}
}

func (s *service) CreateAgent(ctx context.Context, req domain.CreateAgentRequest) (*domain.Agent, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	w, err := s.wallets.CreateWallet(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	agent := domain.Agent{
		ID:            s.genID.Generate(),
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		Status:        domain.StatusActive,
		WalletID:      w.ID,
		WalletAddress: w.Address,
		ChainType:     w.ChainType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, &agent); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrWalletTaken
		}
		return nil, err
	}

	s.log.Info("agent created",
		zap.Int64("agent_id", int64(agent.ID)),
		zap.String("wallet_address", agent.WalletAddress),
	)
	return &agent, nil
}

func (s *service) GetAgent(ctx context.Context, agentID snowflake.ID) (*domain.Agent, error) {
	return s.repo.FindByID(ctx, agentID)
}

func (s *service) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateAgent(ctx context.Context, agentID snowflake.ID, req domain.UpdateAgentRequest) (*domain.Agent, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		fields["status"] = *req.Status
	}
	if len(fields) == 0 {
		return s.repo.FindByID(ctx, agentID)
	}
	fields["updated_at"] = s.clock.Now()

	if err := s.repo.UpdateFields(ctx, agentID, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, agentID)
}

// DeleteAgent releases the agent's tasks back to the unassigned pool before
// removing the agent row. Both happen in one transaction.
func (s *service) DeleteAgent(ctx context.Context, agentID snowflake.ID) error {
	if _, err := s.repo.FindByID(ctx, agentID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unassigned, err := s.tasks.WithTx(tx).UnassignByAgent(ctx, agentID)
		if err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Delete(ctx, agentID); err != nil {
			return err
		}
		s.log.Info("agent deleted",
			zap.Int64("agent_id", int64(agentID)),
			zap.Int64("tasks_unassigned", unassigned),
		)
		return nil
	})
}
