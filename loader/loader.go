package loader

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pth-demo-orga/trusty-lib/apppackage"
	"github.com/pth-demo-orga/trusty-lib/hwkey"
	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

var (
	// ErrBadKey means the keyslot's material is not a usable public key.
	ErrBadKey = errors.New("keyslot does not hold a valid public key")

	// ErrSignatureMismatch means the detached signature does not verify
	// against the package bytes.
	ErrSignatureMismatch = errors.New("package signature verification failed")
)

// Loader admits application packages into the trusted environment.
type Loader struct {
	resolver *hwkey.Resolver
	log      *slog.Logger
}

// New creates a loader using the given key resolver.
func New(resolver *hwkey.Resolver, log *slog.Logger) *Loader {
	return &Loader{resolver: resolver, log: log}
}

// Admit validates pkg, resolves the signing key identified by keyID, and
// verifies the detached signature over the package bytes. Only a package
// passing all three steps yields metadata; the first failure rejects it.
//
// The returned metadata borrows from pkg and is valid only while pkg is
// alive.
func (l *Loader) Admit(ctx context.Context, pkg, sig []byte, keyID interfaces.KeyID) (*apppackage.Metadata, error) {
	metadata, err := apppackage.ParseMetadata(pkg)
	if err != nil {
		l.log.Info("Package rejected", "err", err)
		return nil, fmt.Errorf("package rejected: %w", err)
	}

	key, err := l.resolver.GetKey(ctx, interfaces.OperationSign, keyID)
	if err != nil {
		return nil, fmt.Errorf("could not resolve verification key %d: %w", keyID, err)
	}

	if err := VerifyDetached(key, pkg, sig); err != nil {
		l.log.Info("Package signature rejected", "err", err, "keyID", uint8(keyID))
		return nil, err
	}

	l.log.Info("Package admitted",
		"contentsSize", metadata.Contents.Length,
		"manifestSize", metadata.Manifest.Length,
		"keyID", uint8(keyID))
	return metadata, nil
}

// VerifyDetached checks an ECDSA P-256 ASN.1 signature over the SHA-256
// digest of the package bytes. The key material is a PKIX DER public key as
// stored in a sign keyslot.
func VerifyDetached(key interfaces.KeyMaterial, pkg, sig []byte) error {
	parsed, err := x509.ParsePKIXPublicKey(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: unexpected key type %T", ErrBadKey, parsed)
	}

	digest := sha256.Sum256(pkg)
	if !ecdsa.VerifyASN1(pub, digest[:], sig) {
		return ErrSignatureMismatch
	}
	return nil
}
