package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/providers/vault"
	"github.com/lumonlabs/severatee/pkg/db/pagination"
)

type CreateTaskRequest struct {
	Name         string        `json:"name"`
	Instructions string        `json:"instructions"`
	AgentID      *snowflake.ID `json:"agent_id,string"`
	DueDate      *time.Time    `json:"due_date"`
}

type SubmitAnswerRequest struct {
	Answer    string `json:"answer"`
	Signature string `json:"signature"`
}

// Submission is a vault record fetched back for display.
type Submission struct {
	RecordID string       `json:"record_id"`
	Record   vault.Record `json:"record"`
}

// Config carries the vault collection submissions are written to.
type Config struct {
	VaultCollection string
}

// ListTasksQuery is the caller-facing shape of a task listing. The service
// translates its page token into a Filter cursor.
type ListTasksQuery struct {
	Status  string
	AgentID *snowflake.ID
	Page    pagination.Pagination
}

type TaskPage struct {
	Tasks    []Task              `json:"tasks"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error)
	GetTask(ctx context.Context, taskID snowflake.ID) (*Task, error)
	ListTasks(ctx context.Context, query ListTasksQuery) (*TaskPage, error)
	UpdateStatus(ctx context.Context, taskID snowflake.ID, status string, progress *int) (*Task, error)
	SubmitAnswer(ctx context.Context, taskID snowflake.ID, req SubmitAnswerRequest) (*Task, error)
	GetSubmission(ctx context.Context, taskID snowflake.ID) (*Submission, error)
	PerformWork(ctx context.Context, taskID snowflake.ID) (*Task, error)
	DeleteTask(ctx context.Context, taskID snowflake.ID) error
}
