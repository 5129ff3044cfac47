package inference

import (
	"github.com/lumonlabs/severatee/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.inference",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(holder *config.ProvidersConfigHolder) Provider {
	cfg := holder.Get().Inference
	if cfg.BaseURL == "" {
		return &NoOpProvider{}
	}
	return NewHTTP(Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
}
