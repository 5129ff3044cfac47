package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusComplete  = "complete"
	StatusStreaming = "streaming"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ValidStatus reports whether s is a known chat status.
func ValidStatus(s string) bool {
	return s == StatusComplete || s == StatusStreaming
}

// ValidRole reports whether r is a known message role.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Chat is a private conversation owned by a single user.
type Chat struct {
	ID        snowflake.ID `json:"id,string" gorm:"primaryKey"`
	UserID    int64        `json:"user_id,string" gorm:"index;not null"`
	Title     string       `json:"title" gorm:"not null"`
	Status    string       `json:"status" gorm:"not null;default:complete"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Chat) TableName() string {
	return "chats"
}

// Message is one turn of a chat. IDs are ulids so a batch written in one
// request still sorts in insertion order.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ChatID    int64     `json:"chat_id,string" gorm:"index;not null"`
	Role      string    `json:"role" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}
