package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/lumonlabs/severatee/internal/clock"
	profiledomain "github.com/lumonlabs/severatee/internal/profile/domain"
	"github.com/lumonlabs/severatee/internal/workspace/domain"
	"github.com/lumonlabs/severatee/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	profiles profiledomain.Repository
	genID    *snowflake.Node
	clock    clock.Clock
	cfg      domain.Config
	log      *zap.Logger
}

func NewService(conn *gorm.DB, repo domain.Repository, profiles profiledomain.Repository, genID *snowflake.Node, clk clock.Clock, cfg domain.Config, log *zap.Logger) domain.Service {
	return &service{
		db:       conn,
		repo:     repo,
		profiles: profiles,
		genID:    genID,
		clock:    clk,
		cfg:      cfg,
		log:      log.Named("workspace.service"),
	}
}

func (s *service) CreateWorkspace(ctx context.Context, userID snowflake.ID, req domain.CreateWorkspaceRequest) (*domain.WorkspaceResponse, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	ws := domain.Workspace{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        normalizeSlug(req.Slug),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateWorkspace(ctx, ws); err != nil {
			return err
		}
		return repo.AddMember(ctx, domain.Member{
			ID:          s.genID.Generate(),
			WorkspaceID: ws.ID,
			UserID:      userID,
			Role:        domain.RoleOwner,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	return &domain.WorkspaceResponse{
		Workspace:   ws,
		Role:        domain.RoleOwner,
		Permissions: domain.PermissionsFor(domain.RoleOwner),
	}, nil
}

func (s *service) GetWorkspace(ctx context.Context, userID, workspaceID snowflake.ID) (*domain.WorkspaceResponse, error) {
	ws, err := s.repo.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	member, err := s.memberOf(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	return &domain.WorkspaceResponse{
		Workspace:   *ws,
		Role:        member.Role,
		Permissions: domain.PermissionsFor(member.Role),
	}, nil
}

func (s *service) GetUserWorkspaces(ctx context.Context, userID snowflake.ID) ([]domain.WorkspaceResponse, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	items, err := s.repo.ListWorkspacesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.WorkspaceResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.WorkspaceResponse{
			Workspace:   item.Workspace,
			Role:        item.Role,
			Permissions: domain.PermissionsFor(item.Role),
		})
	}
	return resp, nil
}

func (s *service) UpdateWorkspace(ctx context.Context, userID, workspaceID snowflake.ID, req domain.UpdateWorkspaceRequest) (*domain.WorkspaceResponse, error) {
	member, err := s.requirePermission(ctx, workspaceID, userID, domain.PermEditWorkspace)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Slug != nil {
		fields["slug"] = normalizeSlug(*req.Slug)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.UpdateWorkspace(ctx, workspaceID, fields); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	ws, err := s.repo.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return &domain.WorkspaceResponse{
		Workspace:   *ws,
		Role:        member.Role,
		Permissions: domain.PermissionsFor(member.Role),
	}, nil
}

func (s *service) DeleteWorkspace(ctx context.Context, userID, workspaceID snowflake.ID) error {
	if _, err := s.requirePermission(ctx, workspaceID, userID, domain.PermDeleteWorkspace); err != nil {
		return err
	}
	return s.repo.SoftDeleteWorkspace(ctx, workspaceID)
}

func (s *service) GetWorkspaceMembers(ctx context.Context, userID, workspaceID snowflake.ID) ([]domain.MemberResponse, error) {
	if _, err := s.requirePermission(ctx, workspaceID, userID, domain.PermViewWorkspace); err != nil {
		return nil, err
	}

	items, err := s.repo.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.MemberResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, memberResponse(item))
	}
	return resp, nil
}

// UpdateMemberRole changes a member's role. Demoting the only remaining owner
// is rejected and the transaction leaves every row untouched.
func (s *service) UpdateMemberRole(ctx context.Context, userID, workspaceID, memberID snowflake.ID, role domain.Role) (*domain.MemberResponse, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if _, err := s.requirePermission(ctx, workspaceID, userID, domain.PermManageMembers); err != nil {
		return nil, err
	}

	var updated *domain.Member
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		target, err := repo.GetMemberByID(ctx, memberID)
		if err != nil {
			return err
		}
		if target.WorkspaceID != workspaceID {
			return domain.ErrMemberNotFound
		}

		if target.Role == domain.RoleOwner && role != domain.RoleOwner {
			owners, err := repo.CountOwners(ctx, workspaceID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return domain.ErrLastOwner
			}
		}

		if err := repo.UpdateMemberRole(ctx, memberID, role, s.clock.Now()); err != nil {
			return err
		}

		updated, err = repo.GetMemberByID(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := memberResponse(domain.MemberListItem{Member: *updated})
	if profile, err := s.profiles.FindByUserID(ctx, updated.UserID); err == nil {
		resp.Name = profile.Name
		resp.Email = profile.Email
	}
	return &resp, nil
}

// RemoveMember soft-deletes a membership. Members may remove themselves;
// removing anyone else requires MANAGE_MEMBERS. The last owner can never be
// removed, not even by themselves.
func (s *service) RemoveMember(ctx context.Context, userID, workspaceID, memberID snowflake.ID) error {
	caller, err := s.memberOf(ctx, workspaceID, userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		target, err := repo.GetMemberByID(ctx, memberID)
		if err != nil {
			return err
		}
		if target.WorkspaceID != workspaceID {
			return domain.ErrMemberNotFound
		}

		if target.UserID != userID && !domain.CanPerform(domain.PermissionsFor(caller.Role), domain.PermManageMembers) {
			return domain.ErrForbidden
		}

		if target.Role == domain.RoleOwner {
			owners, err := repo.CountOwners(ctx, workspaceID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return domain.ErrLastOwner
			}
		}

		return repo.RemoveMember(ctx, memberID)
	})
}

func (s *service) CreateInvitation(ctx context.Context, userID, workspaceID snowflake.ID, req domain.CreateInvitationRequest) (*domain.Invitation, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	// Ownership is never granted by invitation.
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleMember {
		return nil, domain.ErrInvalidRole
	}
	if _, err := s.requirePermission(ctx, workspaceID, userID, domain.PermInviteMembers); err != nil {
		return nil, err
	}

	alreadyMember, err := s.repo.IsActiveMemberEmail(ctx, workspaceID, email)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, domain.ErrAlreadyMember
	}

	if _, err := s.repo.FindPendingInvitation(ctx, workspaceID, email); err == nil {
		return nil, domain.ErrInvitePending
	} else if !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	invite := domain.Invitation{
		ID:          s.genID.Generate(),
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        req.Role,
		Status:      domain.InvitationStatusPending,
		InvitedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(domain.InvitationTTL),
	}
	if err := s.repo.CreateInvitation(ctx, invite); err != nil {
		// The unique index is the authority under concurrent creates.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrInvitePending
		}
		return nil, err
	}
	return &invite, nil
}

func (s *service) GetWorkspaceInvitations(ctx context.Context, userID, workspaceID snowflake.ID) ([]domain.Invitation, error) {
	if _, err := s.requirePermission(ctx, workspaceID, userID, domain.PermInviteMembers); err != nil {
		return nil, err
	}
	return s.repo.ListInvitations(ctx, workspaceID)
}

func (s *service) RevokeInvitation(ctx context.Context, userID, workspaceID, invitationID snowflake.ID) (*domain.Invitation, error) {
	if _, err := s.requirePermission(ctx, workspaceID, userID, domain.PermManageMembers); err != nil {
		return nil, err
	}

	invite, err := s.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if invite.WorkspaceID != workspaceID {
		return nil, domain.ErrInvitationNotFound
	}
	if err := s.repo.DeleteInvitation(ctx, invitationID); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *service) GetUserInvitations(ctx context.Context, userID snowflake.ID) ([]domain.InvitationResponse, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profiledomain.ErrProfileNotFound) {
			return nil, domain.ErrEmailRequired
		}
		return nil, err
	}
	if strings.TrimSpace(profile.Email) == "" {
		return nil, domain.ErrEmailRequired
	}

	items, err := s.repo.ListInvitationsByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.InvitationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.InvitationResponse{
			Invitation:    item.Invitation,
			WorkspaceName: item.WorkspaceName,
		})
	}
	return resp, nil
}

// AcceptInvitation atomically converts an invitation into a membership. On
// any failure the invitation survives untouched.
func (s *service) AcceptInvitation(ctx context.Context, userID snowflake.ID, invitationID snowflake.ID) (*domain.WorkspaceResponse, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	invite, err := s.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if s.cfg.RequireEmailMatch {
		profile, err := s.profiles.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, profiledomain.ErrProfileNotFound) {
				return nil, domain.ErrEmailMismatch
			}
			return nil, err
		}
		if !strings.EqualFold(strings.TrimSpace(profile.Email), invite.Email) {
			return nil, domain.ErrEmailMismatch
		}
	}
	if s.cfg.EnforceExpiry && s.clock.Now().After(invite.ExpiresAt) {
		return nil, domain.ErrInvitationExpired
	}

	now := s.clock.Now()
	var ws *domain.Workspace
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// The workspace may have been deleted since the invite was issued;
		// check before touching any row so a failure leaves the store as is.
		var err error
		ws, err = repo.GetWorkspace(ctx, invite.WorkspaceID)
		if err != nil {
			return err
		}

		if _, err := repo.GetMember(ctx, invite.WorkspaceID, userID); err == nil {
			return domain.ErrAlreadyMember
		} else if !errors.Is(err, domain.ErrMemberNotFound) {
			return err
		}

		if err := repo.AddMember(ctx, domain.Member{
			ID:          s.genID.Generate(),
			WorkspaceID: invite.WorkspaceID,
			UserID:      userID,
			Role:        invite.Role,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyMember
			}
			return err
		}

		return repo.DeleteInvitation(ctx, invite.ID)
	})
	if err != nil {
		return nil, err
	}

	return &domain.WorkspaceResponse{
		Workspace:   *ws,
		Role:        invite.Role,
		Permissions: domain.PermissionsFor(invite.Role),
	}, nil
}

func (s *service) memberOf(ctx context.Context, workspaceID, userID snowflake.ID) (*domain.Member, error) {
	member, err := s.repo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return member, nil
}

func (s *service) requirePermission(ctx context.Context, workspaceID, userID snowflake.ID, perm domain.Permission) (*domain.Member, error) {
	member, err := s.memberOf(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !domain.CanPerform(domain.PermissionsFor(member.Role), perm) {
		return nil, domain.ErrForbidden
	}
	return member, nil
}

func memberResponse(item domain.MemberListItem) domain.MemberResponse {
	return domain.MemberResponse{
		ID:          item.Member.ID,
		WorkspaceID: item.Member.WorkspaceID,
		UserID:      item.Member.UserID,
		Role:        item.Member.Role,
		Name:        item.Name,
		Email:       item.Email,
		CreatedAt:   item.Member.CreatedAt,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errors.New("email required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}

func normalizeSlug(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value := slug.Make(raw)
	return &value
}
