package task

import (
	"github.com/lumonlabs/severatee/internal/config"
	"github.com/lumonlabs/severatee/internal/task/domain"
	"github.com/lumonlabs/severatee/internal/task/repository"
	"github.com/lumonlabs/severatee/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(provideConfig),
	fx.Provide(service.NewService),
)

func provideConfig(holder *config.ProvidersConfigHolder) domain.Config {
	return domain.Config{
		VaultCollection: holder.Get().Vault.Collection,
	}
}
