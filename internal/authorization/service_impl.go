package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	workspacedomain "github.com/lumonlabs/severatee/internal/workspace/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(db *gorm.DB, log *zap.Logger, enforcer *casbin.SyncedEnforcer) Service {
	return &ServiceImpl{
		db:       db,
		log:      log.Named("authorization.service"),
		enforcer: enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, workspaceID string, permission string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return ErrInvalidWorkspace
	}
	permission = strings.TrimSpace(permission)
	if permission == "" {
		return ErrInvalidAction
	}

	subject, roleName, err := s.resolveActor(ctx, actor, workspaceID)
	if err != nil {
		return err
	}

	domain := fmt.Sprintf("workspace:%s", workspaceID)
	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, ObjectWorkspace, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string, workspaceID string) (string, string, error) {
	if actor == "system" {
		return actor, "role:system", nil
	}
	if raw, ok := strings.CutPrefix(actor, "user:"); ok {
		userID, err := snowflake.ParseString(raw)
		if err != nil || userID == 0 {
			return "", "", ErrInvalidActor
		}
		wsID, err := snowflake.ParseString(workspaceID)
		if err != nil || wsID == 0 {
			return "", "", ErrInvalidWorkspace
		}
		role, err := s.roleForUser(ctx, wsID, userID)
		if err != nil {
			return "", "", err
		}
		return actor, fmt.Sprintf("role:%s", strings.ToLower(role)), nil
	}
	return "", "", ErrInvalidActor
}

func (s *ServiceImpl) roleForUser(ctx context.Context, workspaceID snowflake.ID, userID snowflake.ID) (string, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT role
		 FROM workspace_members
		 WHERE workspace_id = ? AND user_id = ? AND deleted_at IS NULL
		 LIMIT 1`,
		workspaceID,
		userID,
	).Scan(&row).Error; err != nil {
		return "", err
	}

	role := strings.TrimSpace(row.Role)
	if role == "" {
		return "", ErrForbidden
	}
	return role, nil
}

// ensureGrouping keeps the casbin role binding in sync with the membership
// row, replacing a stale binding when the role changed.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

// seedPolicies materializes the workspace role-permission table as casbin
// policies. Roles are domain-wildcarded; bindings scope users per workspace.
func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	for role, perms := range workspacedomain.RolePermissions {
		subject := fmt.Sprintf("role:%s", role)
		for _, perm := range perms {
			if _, err := enforcer.AddPolicy(subject, "*", ObjectWorkspace, string(perm)); err != nil {
				return err
			}
		}
	}
	for _, perm := range workspacedomain.AllPermissions {
		if _, err := enforcer.AddPolicy("role:system", "*", ObjectWorkspace, string(perm)); err != nil {
			return err
		}
	}
	return nil
}
