package profile

import (
	"github.com/lumonlabs/severatee/internal/profile/repository"
	"github.com/lumonlabs/severatee/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
