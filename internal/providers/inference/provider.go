package inference

import "context"

// Message is a single turn in a chat-completion exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the assistant reply plus the attestation signature returned by
// TEE-backed endpoints. Signature is empty when the endpoint does not sign.
type Result struct {
	Content   string
	Signature string
}

// Provider produces a completion for a conversation.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (*Result, error)
}

// NoOpProvider echoes a canned reply. It keeps local development working
// without an inference endpoint configured.
type NoOpProvider struct{}

func (p *NoOpProvider) Complete(ctx context.Context, messages []Message) (*Result, error) {
	return &Result{Content: "Inference is not configured."}, nil
}
