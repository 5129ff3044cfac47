package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	agentdomain "github.com/lumonlabs/severatee/internal/agent/domain"
	authdomain "github.com/lumonlabs/severatee/internal/auth/domain"
	"github.com/lumonlabs/severatee/internal/auth/password"
	chatdomain "github.com/lumonlabs/severatee/internal/chat/domain"
	profiledomain "github.com/lumonlabs/severatee/internal/profile/domain"
	taskdomain "github.com/lumonlabs/severatee/internal/task/domain"
	workspacedomain "github.com/lumonlabs/severatee/internal/workspace/domain"
	"gorm.io/gorm"
)

const (
	defaultWorkspaceName = "Lumon"
	defaultWorkspaceSlug = "lumon"
	defaultAdminEmail    = "admin@severatee.local"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "SeveraTEE Admin"
)

// AutoMigrate creates the schema from the domain models. SQL migrations are
// authoritative on postgres; this covers local sqlite development and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&profiledomain.Profile{},
		&workspacedomain.Workspace{},
		&workspacedomain.Member{},
		&workspacedomain.Invitation{},
		&chatdomain.Chat{},
		&chatdomain.Message{},
		&agentdomain.Agent{},
		&taskdomain.Task{},
	)
}

// EnsureDefaultWorkspaceAndAdmin seeds the default workspace and admin user
// for self-hosted bootstrap.
func EnsureDefaultWorkspaceAndAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.WithContext(ctx).
			Where("email = ?", defaultAdminEmail).
			First(&user).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hashed, err := password.Hash(defaultAdminPassword)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			user = authdomain.User{
				ID:           node.Generate(),
				Email:        strings.ToLower(defaultAdminEmail),
				DisplayName:  defaultAdminDisplay,
				PasswordHash: &hashed,
				IsDefault:    true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
				return err
			}
		}

		ws, err := ensureDefaultWorkspaceTx(ctx, tx, node, user.ID)
		if err != nil {
			return err
		}

		var profile profiledomain.Profile
		err = tx.WithContext(ctx).
			Where("user_id = ?", user.ID).
			First(&profile).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			now := time.Now().UTC()
			profile = profiledomain.Profile{
				ID:        node.Generate(),
				UserID:    user.ID,
				Name:      defaultAdminDisplay,
				Email:     user.Email,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.WithContext(ctx).Create(&profile).Error; err != nil {
				return err
			}
		}

		var member workspacedomain.Member
		err = tx.WithContext(ctx).
			Where("workspace_id = ? AND user_id = ? AND deleted_at IS NULL", ws.ID, user.ID).
			First(&member).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			now := time.Now().UTC()
			member = workspacedomain.Member{
				ID:          node.Generate(),
				WorkspaceID: ws.ID,
				UserID:      user.ID,
				Role:        workspacedomain.RoleOwner,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.WithContext(ctx).Create(&member).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func ensureDefaultWorkspaceTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, createdBy snowflake.ID) (*workspacedomain.Workspace, error) {
	var ws workspacedomain.Workspace
	err := tx.WithContext(ctx).
		Where("slug = ?", defaultWorkspaceSlug).
		First(&ws).Error
	if err == nil {
		return &ws, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	slug := defaultWorkspaceSlug
	ws = workspacedomain.Workspace{
		ID:        node.Generate(),
		Name:      defaultWorkspaceName,
		Slug:      &slug,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}
