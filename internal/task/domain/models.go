package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusUnassigned = "unassigned"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusUnassigned, StatusAssigned, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// Task is a unit of mysterious and important work. Answers live in the
// encrypted vault; the row keeps only the record id and the signature.
type Task struct {
	ID            snowflake.ID `json:"id,string" gorm:"primaryKey"`
	Name          string       `json:"name" gorm:"not null"`
	Instructions  string       `json:"instructions" gorm:"not null"`
	AgentID       *int64       `json:"agent_id,string" gorm:"index"`
	Status        string       `json:"status" gorm:"not null;default:unassigned"`
	Progress      int          `json:"progress" gorm:"not null;default:0"`
	Answer        *string      `json:"answer"`
	Signature     *string      `json:"signature"`
	VaultRecordID *string      `json:"vault_record_id"`
	DueDate       *time.Time   `json:"due_date"`
	CompletedAt   *time.Time   `json:"completed_at"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}
