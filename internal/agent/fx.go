package agent

import (
	"github.com/lumonlabs/severatee/internal/agent/repository"
	"github.com/lumonlabs/severatee/internal/agent/service"
	"go.uber.org/fx"
)

var Module = fx.Module("agent.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
