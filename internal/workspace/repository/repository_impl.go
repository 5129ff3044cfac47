package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/workspace/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateWorkspace(ctx context.Context, ws domain.Workspace) error {
	return r.db.WithContext(ctx).Create(&ws).Error
}

func (r *repository) GetWorkspace(ctx context.Context, id snowflake.ID) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := r.db.WithContext(ctx).First(&ws, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *repository) UpdateWorkspace(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Workspace{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

func (r *repository) SoftDeleteWorkspace(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Workspace{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

func (r *repository) ListWorkspacesByUser(ctx context.Context, userID snowflake.ID) ([]domain.WorkspaceListItem, error) {
	type row struct {
		domain.Workspace
		Role domain.Role
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("workspaces w").
		Select("w.*, m.role").
		Joins("JOIN workspace_members m ON m.workspace_id = w.id").
		Where("m.user_id = ? AND m.deleted_at IS NULL AND w.deleted_at IS NULL", userID).
		Order("w.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.WorkspaceListItem, 0, len(rows))
	for _, item := range rows {
		items = append(items, domain.WorkspaceListItem{Workspace: item.Workspace, Role: item.Role})
	}
	return items, nil
}

func (r *repository) AddMember(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *repository) GetMember(ctx context.Context, workspaceID, userID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) GetMemberByID(ctx context.Context, memberID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListMembers(ctx context.Context, workspaceID snowflake.ID) ([]domain.MemberListItem, error) {
	type row struct {
		domain.Member
		Name  string
		Email string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("workspace_members m").
		Select("m.*, p.name, p.email").
		Joins("LEFT JOIN profiles p ON p.user_id = m.user_id AND p.deleted_at IS NULL").
		Where("m.workspace_id = ? AND m.deleted_at IS NULL", workspaceID).
		Order("m.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.MemberListItem, 0, len(rows))
	for _, item := range rows {
		items = append(items, domain.MemberListItem{Member: item.Member, Name: item.Name, Email: item.Email})
	}
	return items, nil
}

func (r *repository) UpdateMemberRole(ctx context.Context, memberID snowflake.ID, role domain.Role, now time.Time) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]any{"role": role, "updated_at": now})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *repository) RemoveMember(ctx context.Context, memberID snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", memberID).Delete(&domain.Member{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// CountOwners counts the active owner rows. Postgres rejects a locking
// clause on aggregate queries, so the rows are selected by id under the lock
// and counted here.
func (r *repository) CountOwners(ctx context.Context, workspaceID snowflake.ID) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("workspace_id = ? AND role = ?", workspaceID, domain.RoleOwner)
	if supportsRowLocking(r.db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ids []snowflake.ID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (r *repository) IsActiveMemberEmail(ctx context.Context, workspaceID snowflake.ID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("workspace_members m").
		Joins("JOIN profiles p ON p.user_id = m.user_id AND p.deleted_at IS NULL").
		Where("m.workspace_id = ? AND m.deleted_at IS NULL AND lower(p.email) = ?", workspaceID, strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateInvitation(ctx context.Context, invite domain.Invitation) error {
	return r.db.WithContext(ctx).Create(&invite).Error
}

func (r *repository) GetInvitation(ctx context.Context, id snowflake.ID) (*domain.Invitation, error) {
	var invite domain.Invitation
	err := r.db.WithContext(ctx).First(&invite, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) FindPendingInvitation(ctx context.Context, workspaceID snowflake.ID, email string) (*domain.Invitation, error) {
	var invite domain.Invitation
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND lower(email) = ?", workspaceID, strings.ToLower(email)).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) ListInvitations(ctx context.Context, workspaceID snowflake.ID) ([]domain.Invitation, error) {
	var invites []domain.Invitation
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&invites).Error
	return invites, err
}

func (r *repository) ListInvitationsByEmail(ctx context.Context, email string) ([]domain.InvitationListItem, error) {
	type row struct {
		domain.Invitation
		WorkspaceName string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("workspace_invitations i").
		Select("i.*, w.name AS workspace_name").
		Joins("JOIN workspaces w ON w.id = i.workspace_id AND w.deleted_at IS NULL").
		Where("lower(i.email) = ?", strings.ToLower(email)).
		Order("i.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.InvitationListItem, 0, len(rows))
	for _, item := range rows {
		items = append(items, domain.InvitationListItem{Invitation: item.Invitation, WorkspaceName: item.WorkspaceName})
	}
	return items, nil
}

func (r *repository) DeleteInvitation(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Invitation{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// SELECT ... FOR UPDATE is a no-op on sqlite, which serializes writers anyway.
func supportsRowLocking(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return true
	default:
		return false
	}
}
