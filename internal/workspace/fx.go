package workspace

import (
	"github.com/lumonlabs/severatee/internal/config"
	"github.com/lumonlabs/severatee/internal/workspace/domain"
	"github.com/lumonlabs/severatee/internal/workspace/repository"
	"github.com/lumonlabs/severatee/internal/workspace/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workspace.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(provideConfig),
	fx.Provide(service.NewService),
)

func provideConfig(cfg config.Config) domain.Config {
	return domain.Config{
		RequireEmailMatch: cfg.RequireInviteEmailMatch,
		EnforceExpiry:     cfg.EnforceInviteExpiry,
	}
}
