package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/task/domain"
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

func (r *repository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *repository) FindByID(ctx context.Context, taskID snowflake.ID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).
		Where("id = ?", taskID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *repository) List(ctx context.Context, filter domain.Filter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Model(&domain.Task{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AgentID != nil {
		q = q.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.AfterID != nil {
		q = q.Where("id < ?", *filter.AfterID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var tasks []domain.Task
	err := q.Order("id DESC").Find(&tasks).Error
	return tasks, err
}

func (r *repository) UpdateFields(ctx context.Context, taskID snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", taskID).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *repository) UnassignByAgent(ctx context.Context, agentID snowflake.ID) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("agent_id = ?", agentID).
		Updates(map[string]any{
			"agent_id": nil,
			"status":   domain.StatusUnassigned,
		})
	return tx.RowsAffected, tx.Error
}

func (r *repository) Delete(ctx context.Context, taskID snowflake.ID) error {
	tx := r.db.WithContext(ctx).
		Where("id = ?", taskID).
		Delete(&domain.Task{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
