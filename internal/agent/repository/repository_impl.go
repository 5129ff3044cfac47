package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/agent/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, agent *domain.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

func (r *repository) FindByID(ctx context.Context, agentID snowflake.ID) (*domain.Agent, error) {
	var agent domain.Agent
	err := r.db.WithContext(ctx).
		Where("id = ?", agentID).
		First(&agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, err
	}
	return &agent, nil
}

func (r *repository) List(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&agents).Error
	return agents, err
}

func (r *repository) UpdateFields(ctx context.Context, agentID snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Agent{}).
		Where("id = ?", agentID).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, agentID snowflake.ID) error {
	tx := r.db.WithContext(ctx).
		Where("id = ?", agentID).
		Delete(&domain.Agent{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}
