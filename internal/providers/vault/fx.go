package vault

import (
	"github.com/lumonlabs/severatee/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.vault",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(holder *config.ProvidersConfigHolder) Provider {
	cfg := holder.Get().Vault
	if cfg.BaseURL == "" {
		return NewMemory()
	}
	return NewHTTP(Config{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey})
}
