package hwkey

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// Resolver fetches bounded-size keys from a keystore for use in signature
// verification and content decryption.
type Resolver struct {
	keystore interfaces.Keystore
	log      *slog.Logger
}

// NewResolver creates a resolver using the given keystore.
func NewResolver(keystore interfaces.Keystore, log *slog.Logger) *Resolver {
	return &Resolver{keystore: keystore, log: log}
}

// GetKey resolves the key for an (operation, key id) pair. It opens one
// session, fetches the derived slot with interfaces.MaxKeySize as the in/out
// size bound, and closes the session whether or not the fetch succeeded. The
// returned material is exclusively owned by the caller; a slot larger than
// the bound fails by construction, the keystore is never allowed to write
// past it.
func (r *Resolver) GetKey(ctx context.Context, op interfaces.Operation, keyID interfaces.KeyID) (interfaces.KeyMaterial, error) {
	slot := interfaces.NewKeyslotID(op, keyID)
	dest := make([]byte, interfaces.MaxKeySize)

	session, err := r.keystore.Open(ctx)
	if err != nil {
		r.log.Error("Failed to open keystore session", "err", err, "slot", slot.String())
		return nil, fmt.Errorf("%w: %v", interfaces.ErrKeystoreUnavailable, err)
	}
	defer session.Close()

	n, err := session.GetKeyslotData(slot, dest)
	if err != nil {
		r.log.Error("Failed to fetch keyslot", "err", err, "slot", slot.String(), "keyID", uint8(keyID))
		return nil, fmt.Errorf("could not fetch keyslot %s: %w", slot, err)
	}
	if n > len(dest) {
		return nil, fmt.Errorf("keystore reported %d bytes for %d-byte bound", n, len(dest))
	}

	return interfaces.KeyMaterial(dest[:n]), nil
}
