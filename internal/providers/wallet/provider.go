package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// Wallet is a custodial wallet held by the provider on behalf of an agent.
type Wallet struct {
	ID        string
	Address   string
	ChainType string
}

// Provider creates custodial wallets.
type Provider interface {
	CreateWallet(ctx context.Context) (*Wallet, error)
}

// LocalProvider mints throwaway wallets with random addresses. It keeps
// local development and tests working without a wallet service configured.
type LocalProvider struct {
	ChainType string
}

func (p *LocalProvider) CreateWallet(ctx context.Context) (*Wallet, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	chain := p.ChainType
	if chain == "" {
		chain = "ethereum"
	}
	return &Wallet{
		ID:        uuid.NewString(),
		Address:   "0x" + hex.EncodeToString(buf),
		ChainType: chain,
	}, nil
}
