package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	BaseURL string
	APIKey  string
}

// HTTPProvider talks to a secret-vault service. Records are written with a
// client-generated uuid so the caller can keep the id before the write lands.
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

type createRequest struct {
	Collection string   `json:"collection"`
	Data       []Record `json:"data"`
}

type readResponse struct {
	Data []Record `json:"data"`
}

func (p *HTTPProvider) Store(ctx context.Context, collection string, record Record) (string, error) {
	id := uuid.NewString()
	doc := Record{"_id": id}
	for k, v := range record {
		doc[k] = v
	}

	payload, err := json.Marshal(createRequest{Collection: collection, Data: []Record{doc}})
	if err != nil {
		return "", fmt.Errorf("encode vault record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url("/api/v1/data/create"), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vault create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("vault returned %d: %s", resp.StatusCode, body)
	}
	return id, nil
}

func (p *HTTPProvider) Retrieve(ctx context.Context, collection, recordID string) (Record, error) {
	payload, err := json.Marshal(map[string]any{
		"collection": collection,
		"filter":     map[string]string{"_id": recordID},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url("/api/v1/data/read"), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault read: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vault returned %d: %s", resp.StatusCode, body)
	}

	var out readResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode vault response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, ErrRecordNotFound
	}
	return out.Data[0], nil
}

func (p *HTTPProvider) url(path string) string {
	return strings.TrimSuffix(p.cfg.BaseURL, "/") + path
}

func (p *HTTPProvider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
}
