package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// MemoryBackend implements a keyslot store held entirely in memory.
// Suitable for tests and local development; contents are lost on restart.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[interfaces.KeyslotID][]byte
	log   *slog.Logger
}

// NewMemoryBackend creates an empty in-memory keyslot store.
func NewMemoryBackend(log *slog.Logger) *MemoryBackend {
	return &MemoryBackend{
		slots: make(map[interfaces.KeyslotID][]byte),
		log:   log,
	}
}

// Fetch returns a copy of the slot's bytes.
func (b *MemoryBackend) Fetch(ctx context.Context, slot interfaces.KeyslotID) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.slots[slot]
	if !ok {
		return nil, interfaces.ErrKeyslotNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Store writes the slot's bytes, replacing any previous content.
func (b *MemoryBackend) Store(ctx context.Context, slot interfaces.KeyslotID, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.slots[slot] = stored
	return nil
}

// LocationURI returns the backend's identifying URI.
func (b *MemoryBackend) LocationURI() string {
	return "mem://"
}
