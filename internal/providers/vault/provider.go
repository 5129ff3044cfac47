package vault

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned when no record exists for the given id.
var ErrRecordNotFound = errors.New("vault: record not found")

// Record is an opaque document stored in the encrypted vault.
type Record map[string]any

// Provider stores and retrieves encrypted records by collection and id.
type Provider interface {
	Store(ctx context.Context, collection string, record Record) (string, error)
	Retrieve(ctx context.Context, collection, recordID string) (Record, error)
}

// MemoryProvider keeps records in process memory. It backs local development
// and tests where no vault endpoint is configured.
type MemoryProvider struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemory() *MemoryProvider {
	return &MemoryProvider{records: make(map[string]Record)}
}

func (p *MemoryProvider) Store(ctx context.Context, collection string, record Record) (string, error) {
	id := uuid.NewString()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records[collection+"/"+id] = record
	return id, nil
}

func (p *MemoryProvider) Retrieve(ctx context.Context, collection, recordID string) (Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.records[collection+"/"+recordID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}
