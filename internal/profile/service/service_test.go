package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/clock"
	"github.com/lumonlabs/severatee/internal/profile/domain"
	"github.com/lumonlabs/severatee/internal/profile/repository"
	"github.com/lumonlabs/severatee/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Profile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	return New(zaptest.NewLogger(t), repository.New(conn), node, clk), node
}

func TestEnsureInitialDerivesNameFromEmail(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate()

	profile, err := svc.EnsureInitial(context.Background(), userID, "Mark.S@lumon.example")
	require.NoError(t, err)
	require.Equal(t, "mark.s@lumon.example", profile.Email)
	require.Equal(t, "mark.s", profile.Name)
	require.Equal(t, userID, profile.UserID)
}

func TestEnsureInitialRejectsSecondProfile(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate()

	_, err := svc.EnsureInitial(context.Background(), userID, "mark.s@lumon.example")
	require.NoError(t, err)

	_, err = svc.EnsureInitial(context.Background(), userID, "mark.s@lumon.example")
	require.ErrorIs(t, err, domain.ErrProfileExists)
}

func TestUpdateProfileFields(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate()

	_, err := svc.EnsureInitial(context.Background(), userID, "mark.s@lumon.example")
	require.NoError(t, err)

	name := "Mark Scout"
	username := "marks"
	avatar := "https://cdn.lumon.example/marks.png"
	profile, err := svc.Update(context.Background(), userID, domain.UpdateProfileRequest{
		Name:      &name,
		Username:  &username,
		AvatarURL: &avatar,
	})
	require.NoError(t, err)
	require.Equal(t, "Mark Scout", profile.Name)
	require.NotNil(t, profile.Username)
	require.Equal(t, "marks", *profile.Username)
	require.Equal(t, avatar, profile.AvatarURL)
}

func TestUpdateUsernameTaken(t *testing.T) {
	svc, node := newTestService(t)
	first := node.Generate()
	second := node.Generate()

	_, err := svc.EnsureInitial(context.Background(), first, "mark.s@lumon.example")
	require.NoError(t, err)
	_, err = svc.EnsureInitial(context.Background(), second, "helly.r@lumon.example")
	require.NoError(t, err)

	username := "refined"
	_, err = svc.Update(context.Background(), first, domain.UpdateProfileRequest{Username: &username})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), second, domain.UpdateProfileRequest{Username: &username})
	require.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUpdateClearsUsername(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate()

	_, err := svc.EnsureInitial(context.Background(), userID, "mark.s@lumon.example")
	require.NoError(t, err)

	username := "marks"
	_, err = svc.Update(context.Background(), userID, domain.UpdateProfileRequest{Username: &username})
	require.NoError(t, err)

	empty := ""
	profile, err := svc.Update(context.Background(), userID, domain.UpdateProfileRequest{Username: &empty})
	require.NoError(t, err)
	require.Nil(t, profile.Username)
}

func TestGetByUserIDNotFound(t *testing.T) {
	svc, node := newTestService(t)

	_, err := svc.GetByUserID(context.Background(), node.Generate())
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestDeleteProfile(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate()

	_, err := svc.EnsureInitial(context.Background(), userID, "mark.s@lumon.example")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID))

	_, err = svc.GetByUserID(context.Background(), userID)
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}
