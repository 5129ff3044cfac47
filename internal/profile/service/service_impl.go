package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/clock"
	"github.com/lumonlabs/severatee/internal/profile/domain"
	"github.com/lumonlabs/severatee/pkg/db"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("profile.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *Service) EnsureInitial(ctx context.Context, userID snowflake.ID, email string) (*domain.Profile, error) {
	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, domain.ErrProfileExists
	} else if err != domain.ErrProfileNotFound {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	now := s.clock.Now()
	profile := &domain.Profile{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Name:      nameFromEmail(email),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, err
	}
	return profile, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID snowflake.ID, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			fields["username"] = nil
		} else {
			fields["username"] = username
		}
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*req.AvatarURL)
	}

	if err := s.repo.Update(ctx, userID, fields); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	return s.repo.FindByUserID(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID) error {
	return s.repo.Delete(ctx, userID)
}

func nameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	return local
}
