package storage

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
	"golang.org/x/crypto/hkdf"
)

// derivedKeyLength is the material produced per slot: enough for a 256-bit
// symmetric key or an EC scalar seed.
const derivedKeyLength = 32

// DerivedBackend is a read-only keyslot store that deterministically derives
// every slot's material from a master seed via HKDF-SHA256, with the slot
// name as the derivation info. The same seed always yields the same slots,
// which makes it suitable for development and testing the way a
// deterministic KMS is; production deployments use a persisted store.
type DerivedBackend struct {
	masterSeed []byte
	log        *slog.Logger
}

// NewDerivedBackend creates a derived keyslot store. The master seed must be
// at least 32 bytes long.
func NewDerivedBackend(masterSeed []byte, log *slog.Logger) (*DerivedBackend, error) {
	if len(masterSeed) < 32 {
		return nil, errors.New("master seed must be at least 32 bytes")
	}

	seed := make([]byte, len(masterSeed))
	copy(seed, masterSeed)
	return &DerivedBackend{masterSeed: seed, log: log}, nil
}

// Fetch derives the slot's material from the master seed.
func (b *DerivedBackend) Fetch(ctx context.Context, slot interfaces.KeyslotID) ([]byte, error) {
	reader := hkdf.New(sha256.New, b.masterSeed, nil, []byte(slot.String()))

	material := make([]byte, derivedKeyLength)
	if _, err := io.ReadFull(reader, material); err != nil {
		return nil, fmt.Errorf("keyslot derivation failed: %w", err)
	}
	return material, nil
}

// Store always fails: derived slots have no persistent state to write.
func (b *DerivedBackend) Store(ctx context.Context, slot interfaces.KeyslotID, material []byte) error {
	return errors.New("derived keyslot store is read-only")
}

// LocationURI returns the backend's identifying URI without the seed.
func (b *DerivedBackend) LocationURI() string {
	return "derived://"
}
