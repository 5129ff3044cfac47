package providers

import (
	"github.com/lumonlabs/severatee/internal/config"
	"github.com/lumonlabs/severatee/internal/providers/inference"
	"github.com/lumonlabs/severatee/internal/providers/vault"
	"github.com/lumonlabs/severatee/internal/providers/wallet"
	"go.uber.org/fx"
)

// Module wires every external collaborator behind its interface. Each
// sub-module falls back to a local implementation when no endpoint is
// configured.
var Module = fx.Module("providers",
	fx.Provide(config.NewProvidersConfigHolder),
	inference.Module,
	vault.Module,
	wallet.Module,
)
