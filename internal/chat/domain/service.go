package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// MessageInput is a message as submitted by the client. ID may be empty, in
// which case the service assigns a ulid.
type MessageInput struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatDetail is a chat with its ordered messages.
type ChatDetail struct {
	Chat     Chat      `json:"chat"`
	Messages []Message `json:"messages"`
}

type Service interface {
	CreateChat(ctx context.Context, userID int64, title string) (*Chat, error)
	GetChatByID(ctx context.Context, userID int64, chatID snowflake.ID) (*ChatDetail, error)
	GetUserChats(ctx context.Context, userID int64) ([]Chat, error)
	SaveMessages(ctx context.Context, userID int64, chatID snowflake.ID, messages []MessageInput) ([]Message, error)
	UpdateChatStatus(ctx context.Context, userID int64, chatID snowflake.ID, status string) (*Chat, error)
	DeleteChat(ctx context.Context, userID int64, chatID snowflake.ID) error
	Complete(ctx context.Context, userID int64, chatID snowflake.ID, userMessage string) (*Message, error)
}
