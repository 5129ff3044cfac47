package auth

import (
	"github.com/lumonlabs/severatee/internal/auth/repository"
	"github.com/lumonlabs/severatee/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
