package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	agentdomain "github.com/lumonlabs/severatee/internal/agent/domain"
	"github.com/lumonlabs/severatee/internal/clock"
	"github.com/lumonlabs/severatee/internal/providers/inference"
	"github.com/lumonlabs/severatee/internal/providers/vault"
	"github.com/lumonlabs/severatee/internal/task/domain"
	"github.com/lumonlabs/severatee/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// workPrompt frames the model when an agent performs a task from its
// instructions alone.
const workPrompt = "You are an autonomous agent performing mysterious and important work. " +
	"Complete the task described by the user and reply with the answer only."

const maxPageSize = 200

type service struct {
	db        *gorm.DB
	repo      domain.Repository
	agents    agentdomain.Repository
	vault     vault.Provider
	inference inference.Provider
	genID     *snowflake.Node
	clock     clock.Clock
	cfg       domain.Config
	log       *zap.Logger
}

func NewService(conn *gorm.DB, repo domain.Repository, agents agentdomain.Repository, vaultp vault.Provider, inf inference.Provider, genID *snowflake.Node, clk clock.Clock, cfg domain.Config, log *zap.Logger) domain.Service {
	return &service{
		db:        conn,
		repo:      repo,
		agents:    agents,
		vault:     vaultp,
		inference: inf,
		genID:     genID,
		clock:     clk,
		cfg:       cfg,
		log:       log.Named("task.service"),
	}
}

func (s *service) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	instructions := strings.TrimSpace(req.Instructions)
	if instructions == "" {
		return nil, domain.ErrInvalidInstructions
	}

	status := domain.StatusUnassigned
	var agentID *int64
	if req.AgentID != nil {
		if _, err := s.agents.FindByID(ctx, *req.AgentID); err != nil {
			return nil, err
		}
		id := int64(*req.AgentID)
		agentID = &id
		status = domain.StatusAssigned
	}

	now := s.clock.Now()
	task := domain.Task{
		ID:           s.genID.Generate(),
		Name:         name,
		Instructions: instructions,
		AgentID:      agentID,
		Status:       status,
		DueDate:      req.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *service) GetTask(ctx context.Context, taskID snowflake.ID) (*domain.Task, error) {
	return s.repo.FindByID(ctx, taskID)
}

func (s *service) ListTasks(ctx context.Context, query domain.ListTasksQuery) (*domain.TaskPage, error) {
	if query.Status != "" && !domain.ValidStatus(query.Status) {
		return nil, domain.ErrInvalidStatus
	}

	filter := domain.Filter{
		Status:  query.Status,
		AgentID: query.AgentID,
	}
	size := pagination.Clamp(query.Page.PageSize, maxPageSize)
	if query.Page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(query.Page.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		filter.AfterID = &id
	}
	if size > 0 {
		// Fetch one extra row to learn whether another page exists.
		filter.Limit = size + 1
	}

	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &domain.TaskPage{Tasks: tasks}
	if size > 0 && len(tasks) > size {
		page.Tasks = tasks[:size]
		page.PageInfo.HasMore = true
		page.PageInfo.NextPageToken = pagination.EncodeCursor(pagination.Cursor{
			ID: page.Tasks[size-1].ID.String(),
		})
	}
	return page, nil
}

func (s *service) UpdateStatus(ctx context.Context, taskID snowflake.ID, status string, progress *int) (*domain.Task, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	fields := map[string]any{
		"status":     status,
		"updated_at": s.clock.Now(),
	}
	if progress != nil {
		if *progress < 0 || *progress > 100 {
			return nil, domain.ErrInvalidProgress
		}
		fields["progress"] = *progress
	}
	if status == domain.StatusCompleted {
		fields["progress"] = 100
		fields["completed_at"] = s.clock.Now()
	}
	if err := s.repo.UpdateFields(ctx, taskID, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, taskID)
}

// SubmitAnswer stores the answer in the encrypted vault and marks the task
// completed. The task row keeps only the record id and the signature.
func (s *service) SubmitAnswer(ctx context.Context, taskID snowflake.ID, req domain.SubmitAnswerRequest) (*domain.Task, error) {
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, domain.ErrInvalidAnswer
	}
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return s.completeWithAnswer(ctx, task, answer, req.Signature)
}

func (s *service) GetSubmission(ctx context.Context, taskID snowflake.ID) (*domain.Submission, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.VaultRecordID == nil {
		return nil, domain.ErrNoSubmission
	}

	record, err := s.vault.Retrieve(ctx, s.cfg.VaultCollection, *task.VaultRecordID)
	if err != nil {
		return nil, err
	}
	return &domain.Submission{RecordID: *task.VaultRecordID, Record: record}, nil
}

// PerformWork has the assigned agent complete the task from its instructions
// and persists the signed answer the same way SubmitAnswer does.
func (s *service) PerformWork(ctx context.Context, taskID snowflake.ID) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AgentID == nil {
		return nil, domain.ErrTaskUnassigned
	}

	if err := s.repo.UpdateFields(ctx, taskID, map[string]any{"status": domain.StatusInProgress}); err != nil {
		return nil, err
	}

	result, err := s.inference.Complete(ctx, []inference.Message{
		{Role: "system", Content: workPrompt},
		{Role: "user", Content: task.Instructions},
	})
	if err != nil {
		if uerr := s.repo.UpdateFields(ctx, taskID, map[string]any{"status": domain.StatusAssigned}); uerr != nil {
			s.log.Warn("reset task status", zap.Int64("task_id", int64(taskID)), zap.Error(uerr))
		}
		return nil, err
	}

	return s.completeWithAnswer(ctx, task, result.Content, result.Signature)
}

func (s *service) DeleteTask(ctx context.Context, taskID snowflake.ID) error {
	return s.repo.Delete(ctx, taskID)
}

func (s *service) completeWithAnswer(ctx context.Context, task *domain.Task, answer, signature string) (*domain.Task, error) {
	now := s.clock.Now()
	recordID, err := s.vault.Store(ctx, s.cfg.VaultCollection, vault.Record{
		"task_id":      task.ID.String(),
		"answer":       answer,
		"signature":    signature,
		"submitted_at": now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"status":          domain.StatusCompleted,
		"progress":        100,
		"answer":          answer,
		"signature":       signature,
		"vault_record_id": recordID,
		"completed_at":    now,
		"updated_at":      now,
	}
	if err := s.repo.UpdateFields(ctx, task.ID, fields); err != nil {
		return nil, err
	}

	s.log.Info("task completed",
		zap.Int64("task_id", int64(task.ID)),
		zap.String("vault_record_id", recordID),
	)
	return s.repo.FindByID(ctx, task.ID)
}
