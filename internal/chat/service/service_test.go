package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/chat/domain"
	"github.com/lumonlabs/severatee/internal/chat/repository"
	"github.com/lumonlabs/severatee/internal/clock"
	"github.com/lumonlabs/severatee/internal/providers/inference"
	dbpkg "github.com/lumonlabs/severatee/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeInference struct {
	reply     string
	signature string
	err       error
	prompts   [][]inference.Message
}

func (f *fakeInference) Complete(ctx context.Context, messages []inference.Message) (*inference.Result, error) {
	f.prompts = append(f.prompts, messages)
	if f.err != nil {
		return nil, f.err
	}
	return &inference.Result{Content: f.reply, Signature: f.signature}, nil
}

type fixture struct {
	db    *gorm.DB
	svc   domain.Service
	repo  domain.Repository
	node  *snowflake.Node
	clock *clock.FakeClock
	inf   *fakeInference
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Chat{}, &domain.Message{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	inf := &fakeInference{reply: "Hello from the severed floor."}
	repo := repository.NewRepository(db)
	svc := NewService(db, repo, inf, node, fake, zaptest.NewLogger(t))

	return &fixture{db: db, svc: svc, repo: repo, node: node, clock: fake, inf: inf}
}

func TestCreateChatDefaultsTitle(t *testing.T) {
	f := newFixture(t)
	userID := int64(f.node.Generate())

	chat, err := f.svc.CreateChat(context.Background(), userID, "   ")
	require.NoError(t, err)
	assert.Equal(t, "New Chat", chat.Title)
	assert.Equal(t, domain.StatusComplete, chat.Status)
	assert.Equal(t, userID, chat.UserID)
}

func TestGetChatByIDRejectsForeignChat(t *testing.T) {
	f := newFixture(t)
	owner := int64(f.node.Generate())
	intruder := int64(f.node.Generate())

	chat, err := f.svc.CreateChat(context.Background(), owner, "quarterly numbers")
	require.NoError(t, err)

	_, err = f.svc.GetChatByID(context.Background(), intruder, chat.ID)
	assert.ErrorIs(t, err, domain.ErrChatForbidden)

	detail, err := f.svc.GetChatByID(context.Background(), owner, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, detail.Chat.ID)
	assert.Empty(t, detail.Messages)
}

func TestGetChatByIDNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetChatByID(context.Background(), int64(f.node.Generate()), f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrChatNotFound)
}

func TestGetUserChatsOrderedByRecency(t *testing.T) {
	f := newFixture(t)
	userID := int64(f.node.Generate())

	first, err := f.svc.CreateChat(context.Background(), userID, "first")
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.svc.CreateChat(context.Background(), userID, "second")
	require.NoError(t, err)

	// Touching the older chat moves it back to the top.
	f.clock.Advance(time.Minute)
	_, err = f.svc.SaveMessages(context.Background(), userID, first.ID, []domain.MessageInput{
		{Role: domain.RoleUser, Content: "are the numbers scary today"},
	})
	require.NoError(t, err)

	chats, err := f.svc.GetUserChats(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, first.ID, chats[0].ID)
	assert.Equal(t, second.ID, chats[1].ID)
}

func TestSaveMessagesValidatesInput(t *testing.T) {
	f := newFixture(t)
	userID := int64(f.node.Generate())
	chat, err := f.svc.CreateChat(context.Background(), userID, "numbers")
	require.NoError(t, err)

	_, err = f.svc.SaveMessages(context.Background(), userID, chat.ID, []domain.MessageInput{
		{Role: "narrator", Content: "hello"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = f.svc.SaveMessages(context.Background(), userID, chat.ID, []domain.MessageInput{
		{Role: domain.RoleUser, Content: "  "},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestSaveMessagesUpsertsByID(t *testing.T) {
	f := newFixture(t)
	userID := int64(f.node.Generate())
	chat, err := f.svc.CreateChat(context.Background(), userID, "numbers")
	require.NoError(t, err)

	saved, err := f.svc.SaveMessages(context.Background(), userID, chat.ID, []domain.MessageInput{
		{Role: domain.RoleUser, Content: "draft"},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	_, err = f.svc.SaveMessages(context.Background(), userID, chat.ID, []domain.MessageInput{
		{ID: saved[0].ID, Role: domain.RoleUser, Content: "final"},
	})
	require.NoError(t, err)

	detail, err := f.svc.GetChatByID(context.Background(), userID, chat.ID)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 1)
	assert.Equal(t, "final", detail.Messages[0].Content)
}

func TestUpdateChatStatus(t *testing.T) {
	f := newFixture(t)
	userID := int64(f.node.Generate())
	chat, err := f.svc.CreateChat(context.Background(), userID, "numbers")
	require.NoError(t, err)

	updated, err := f.svc.UpdateChatStatus(context.Background(), userID, chat.ID, domain.StatusStreaming)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStreaming, updated.Status)

	_, err = f.svc.UpdateChatStatus(context.Background(), userID, chat.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeleteChatRemovesMessages(t *testing.T) {
	f := newFixture(t)
	userID := int64(f.node.Generate())
	chat, err := f.svc.CreateChat(context.Background(), userID, "numbers")
	require.NoError(t, err)
	_, err = f.svc.SaveMessages(context.Background(), userID, chat.ID, []domain.MessageInput{
		{Role: domain.RoleUser, Content: "please remember this"},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteChat(context.Background(), userID, chat.ID))

	_, err = f.svc.GetChatByID(context.Background(), userID, chat.ID)
	assert.ErrorIs(t, err, domain.ErrChatNotFound)

	var count int64
	require.NoError(t, f.db.Model(&domain.Message{}).Where("chat_id = ?", chat.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCompleteAppendsBothMessages(t *testing.T) {
	f := newFixture(t)
	userID := int64(f.node.Generate())
	chat, err := f.svc.CreateChat(context.Background(), userID, "numbers")
	require.NoError(t, err)

	reply, err := f.svc.Complete(context.Background(), userID, chat.ID, "what are the numbers")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, reply.Role)
	assert.Equal(t, "Hello from the severed floor.", reply.Content)

	detail, err := f.svc.GetChatByID(context.Background(), userID, chat.ID)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, domain.RoleUser, detail.Messages[0].Role)
	assert.Equal(t, "what are the numbers", detail.Messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, detail.Messages[1].Role)
	assert.Equal(t, domain.StatusComplete, detail.Chat.Status)

	// The prompt carries the system frame plus the new user turn.
	require.Len(t, f.inf.prompts, 1)
	prompt := f.inf.prompts[0]
	require.NotEmpty(t, prompt)
	assert.Equal(t, domain.RoleSystem, prompt[0].Role)
	assert.Equal(t, "what are the numbers", prompt[len(prompt)-1].Content)
}

func TestCompleteSendsHistoryInOrder(t *testing.T) {
	f := newFixture(t)
	userID := int64(f.node.Generate())
	chat, err := f.svc.CreateChat(context.Background(), userID, "numbers")
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), userID, chat.ID, "first question")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.svc.Complete(context.Background(), userID, chat.ID, "second question")
	require.NoError(t, err)

	require.Len(t, f.inf.prompts, 2)
	second := f.inf.prompts[1]
	// system + first exchange + new user turn
	require.Len(t, second, 4)
	assert.Equal(t, "first question", second[1].Content)
	assert.Equal(t, domain.RoleAssistant, second[2].Role)
	assert.Equal(t, "second question", second[3].Content)
}

func TestCompleteResetsStatusOnProviderError(t *testing.T) {
	f := newFixture(t)
	f.inf.err = errors.New("endpoint unreachable")
	userID := int64(f.node.Generate())
	chat, err := f.svc.CreateChat(context.Background(), userID, "numbers")
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), userID, chat.ID, "hello?")
	require.Error(t, err)

	detail, derr := f.svc.GetChatByID(context.Background(), userID, chat.ID)
	require.NoError(t, derr)
	assert.Equal(t, domain.StatusComplete, detail.Chat.Status)
	assert.Empty(t, detail.Messages)
}

func TestCompleteRejectsForeignChat(t *testing.T) {
	f := newFixture(t)
	owner := int64(f.node.Generate())
	chat, err := f.svc.CreateChat(context.Background(), owner, "numbers")
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), int64(f.node.Generate()), chat.ID, "hello")
	assert.ErrorIs(t, err, domain.ErrChatForbidden)
	assert.Empty(t, f.inf.prompts)
}
