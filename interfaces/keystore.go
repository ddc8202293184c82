package interfaces

import (
	"context"
	"errors"
)

// MaxKeySize is the largest key the resolver will accept from the keystore.
// 128 bytes covers P-256 ECDSA public keys with room to spare; raise it if
// larger curves or RSA keys are ever supported.
const MaxKeySize = 128

var (
	// ErrKeystoreUnavailable means the keystore session could not be opened.
	ErrKeystoreUnavailable = errors.New("keystore service unavailable")

	// ErrKeyslotNotFound means the requested slot does not exist or its
	// content exceeded the caller's size bound.
	ErrKeyslotNotFound = errors.New("keyslot not found")

	// ErrKeyslotTooLarge means the slot exists but exceeds the caller's
	// size bound. The slot's bytes are never partially returned.
	ErrKeyslotTooLarge = errors.New("keyslot exceeds size bound")

	// ErrSessionClosed means the session was used after Close.
	ErrSessionClosed = errors.New("keystore session closed")
)

// Keystore opens sessions to a keystore service. Implementations include the
// HTTP client in api/hwkeyhandler and the in-process service in hwkey.
type Keystore interface {
	// Open establishes a session. Every opened session must be closed by
	// the caller; sessions are single-goroutine.
	Open(ctx context.Context) (KeystoreSession, error)
}

// KeystoreSession is an open session to the keystore service.
type KeystoreSession interface {
	// GetKeyslotData fetches a slot's bytes into dest and returns the
	// number of bytes written. len(dest) is the in/out size bound: the
	// service is never allowed to write more, and a slot larger than
	// len(dest) fails with ErrKeyslotNotFound rather than truncating.
	GetKeyslotData(slot KeyslotID, dest []byte) (int, error)

	// Close releases the session. Close is idempotent.
	Close() error
}

// KeyslotStore is the persistence contract of the server-side keystore
// service. Backends live in the storage package.
type KeyslotStore interface {
	// Fetch returns the slot's bytes, or ErrKeyslotNotFound.
	Fetch(ctx context.Context, slot KeyslotID) ([]byte, error)

	// Store writes the slot's bytes, replacing any previous content.
	Store(ctx context.Context, slot KeyslotID, data []byte) error

	// LocationURI returns the backend's identifying URI for logs.
	LocationURI() string
}

// KeyslotStoreLocation is a URI describing where keyslots are persisted,
// e.g. file:///var/lib/hwkey or vault://vault.example.com:8200/secret/hwkey.
type KeyslotStoreLocation string

// ErrInvalidLocationURI means a keyslot store location could not be parsed.
var ErrInvalidLocationURI = errors.New("invalid keyslot store location URI")

// ErrBackendUnavailable means a keyslot store backend could not be reached.
var ErrBackendUnavailable = errors.New("keyslot store backend unavailable")
