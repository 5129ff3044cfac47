package chat

import (
	"github.com/lumonlabs/severatee/internal/chat/repository"
	"github.com/lumonlabs/severatee/internal/chat/service"
	"go.uber.org/fx"
)

var Module = fx.Module("chat.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
