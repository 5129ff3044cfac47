package wallet

import (
	"github.com/lumonlabs/severatee/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.wallet",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(holder *config.ProvidersConfigHolder) Provider {
	cfg := holder.Get().Wallet
	if cfg.BaseURL == "" {
		return &LocalProvider{ChainType: cfg.ChainType}
	}
	return NewHTTP(Config{
		BaseURL:   cfg.BaseURL,
		AppID:     cfg.AppID,
		AppSecret: cfg.AppSecret,
		ChainType: cfg.ChainType,
	})
}
