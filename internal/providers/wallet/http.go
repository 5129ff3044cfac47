package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	BaseURL   string
	AppID     string
	AppSecret string
	ChainType string
}

// HTTPProvider talks to a custodial wallet service authenticated by
// application id and secret.
type HTTPProvider struct {
	cfg    Config
	client *http.Client
}

func NewHTTP(cfg Config) *HTTPProvider {
	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type createWalletRequest struct {
	ChainType string `json:"chain_type"`
}

type createWalletResponse struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	ChainType string `json:"chain_type"`
}

func (p *HTTPProvider) CreateWallet(ctx context.Context) (*Wallet, error) {
	payload, err := json.Marshal(createWalletRequest{ChainType: p.cfg.ChainType})
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(p.cfg.BaseURL, "/") + "/v1/wallets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("privy-app-id", p.cfg.AppID)
	req.SetBasicAuth(p.cfg.AppID, p.cfg.AppSecret)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wallet create: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("wallet service returned %d: %s", resp.StatusCode, body)
	}

	var out createWalletResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode wallet response: %w", err)
	}
	return &Wallet{ID: out.ID, Address: out.Address, ChainType: out.ChainType}, nil
}
