package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateChat(ctx context.Context, chat *Chat) error
	FindChatByID(ctx context.Context, chatID snowflake.ID) (*Chat, error)
	FindChatsByUser(ctx context.Context, userID int64) ([]Chat, error)
	UpdateChatFields(ctx context.Context, chatID snowflake.ID, fields map[string]any) error
	DeleteChat(ctx context.Context, chatID snowflake.ID) error

	UpsertMessages(ctx context.Context, messages []Message) error
	FindMessagesByChat(ctx context.Context, chatID snowflake.ID) ([]Message, error)
}
