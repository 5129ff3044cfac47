package service

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/chat/domain"
	"github.com/lumonlabs/severatee/internal/clock"
	"github.com/lumonlabs/severatee/internal/providers/inference"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultTitle = "New Chat"

// Message ids come from a shared monotonic source so a batch written in one
// call sorts in insertion order.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newMessageID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// systemPrompt frames the assistant for the refinement floor.
const systemPrompt = "You are a helpful assistant for macrodata refinement. Answer briefly."

type service struct {
	db        *gorm.DB
	repo      domain.Repository
	inference inference.Provider
	genID     *snowflake.Node
	clock     clock.Clock
	log       *zap.Logger
}

func NewService(conn *gorm.DB, repo domain.Repository, inf inference.Provider, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:        conn,
		repo:      repo,
		inference: inf,
		genID:     genID,
		clock:     clk,
		log:       log.Named("chat.service"),
	}
}

func (s *service) CreateChat(ctx context.Context, userID int64, title string) (*domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}

	now := s.clock.Now()
	chat := domain.Chat{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Title:     title,
		Status:    domain.StatusComplete,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateChat(ctx, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *service) GetChatByID(ctx context.Context, userID int64, chatID snowflake.ID) (*domain.ChatDetail, error) {
	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.FindMessagesByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return &domain.ChatDetail{Chat: *chat, Messages: messages}, nil
}

func (s *service) GetUserChats(ctx context.Context, userID int64) ([]domain.Chat, error) {
	return s.repo.FindChatsByUser(ctx, userID)
}

func (s *service) SaveMessages(ctx context.Context, userID int64, chatID snowflake.ID, inputs []domain.MessageInput) ([]domain.Message, error) {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	messages := make([]domain.Message, 0, len(inputs))
	for _, in := range inputs {
		if !domain.ValidRole(in.Role) {
			return nil, domain.ErrInvalidRole
		}
		if strings.TrimSpace(in.Content) == "" {
			return nil, domain.ErrEmptyMessage
		}
		id := in.ID
		if id == "" {
			id = newMessageID(now)
		}
		messages = append(messages, domain.Message{
			ID:        id,
			ChatID:    int64(chatID),
			Role:      in.Role,
			Content:   in.Content,
			CreatedAt: now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpsertMessages(ctx, messages); err != nil {
			return err
		}
		return repo.UpdateChatFields(ctx, chatID, map[string]any{"updated_at": now})
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *service) UpdateChatStatus(ctx context.Context, userID int64, chatID snowflake.ID, status string) (*domain.Chat, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"status":     status,
		"updated_at": s.clock.Now(),
	}
	if err := s.repo.UpdateChatFields(ctx, chatID, fields); err != nil {
		return nil, err
	}
	return s.repo.FindChatByID(ctx, chatID)
}

func (s *service) DeleteChat(ctx context.Context, userID int64, chatID snowflake.ID) error {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return err
	}
	return s.repo.DeleteChat(ctx, chatID)
}

func (s *service) Complete(ctx context.Context, userID int64, chatID snowflake.ID, userMessage string) (*domain.Message, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return nil, domain.ErrEmptyMessage
	}
	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.FindMessagesByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	prompt := make([]inference.Message, 0, len(history)+2)
	prompt = append(prompt, inference.Message{Role: domain.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		prompt = append(prompt, inference.Message{Role: m.Role, Content: m.Content})
	}
	prompt = append(prompt, inference.Message{Role: domain.RoleUser, Content: userMessage})

	if err := s.repo.UpdateChatFields(ctx, chatID, map[string]any{"status": domain.StatusStreaming}); err != nil {
		return nil, err
	}

	result, err := s.inference.Complete(ctx, prompt)
	if err != nil {
		// Leave the chat readable even when the provider fails.
		if uerr := s.repo.UpdateChatFields(ctx, chatID, map[string]any{"status": domain.StatusComplete}); uerr != nil {
			s.log.Warn("reset chat status", zap.Int64("chat_id", int64(chatID)), zap.Error(uerr))
		}
		return nil, err
	}

	now := s.clock.Now()
	messages := []domain.Message{
		{
			ID:        newMessageID(now),
			ChatID:    int64(chatID),
			Role:      domain.RoleUser,
			Content:   userMessage,
			CreatedAt: now,
		},
		{
			ID:        newMessageID(now),
			ChatID:    int64(chatID),
			Role:      domain.RoleAssistant,
			Content:   result.Content,
			CreatedAt: now,
		},
	}
	reply := messages[1]

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpsertMessages(ctx, messages); err != nil {
			return err
		}
		return repo.UpdateChatFields(ctx, chatID, map[string]any{
			"status":     domain.StatusComplete,
			"updated_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("chat completed",
		zap.Int64("chat_id", int64(chat.ID)),
		zap.Int("prompt_messages", len(prompt)),
	)
	return &reply, nil
}

// ownedChat loads the chat and rejects callers who do not own it.
func (s *service) ownedChat(ctx context.Context, userID int64, chatID snowflake.ID) (*domain.Chat, error) {
	chat, err := s.repo.FindChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, domain.ErrChatForbidden
	}
	return chat, nil
}
