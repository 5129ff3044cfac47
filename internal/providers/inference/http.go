package inference

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
	BaseURL string
	APIKey  string
	Model   string
}

// HTTPProvider talks to an OpenAI-compatible chat-completions endpoint.
type HTTPProvider struct {
	cfg    Config
	client *http.Client
}

func NewHTTP(cfg Config) *HTTPProvider {
	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Signature string `json:"signature"`
}

func (p *HTTPProvider) Complete(ctx context.Context, messages []Message) (*Result, error) {
	payload, err := json.Marshal(completionRequest{
		Model:    p.cfg.Model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("encode completion request: %w", err)
	}

	url := strings.TrimSuffix(p.cfg.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, body)
	}

	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("inference endpoint returned no choices")
	}

	return &Result{
		Content:   out.Choices[0].Message.Content,
		Signature: out.Signature,
	}, nil
}
