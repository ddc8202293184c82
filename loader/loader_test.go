package loader

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"io"
	"log/slog"
	"testing"

	"github.com/pth-demo-orga/trusty-lib/apppackage"
	"github.com/pth-demo-orga/trusty-lib/hwkey"
	"github.com/pth-demo-orga/trusty-lib/interfaces"
	"github.com/pth-demo-orga/trusty-lib/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type loaderFixture struct {
	loader *Loader
	store  *storage.MemoryBackend
	priv   *ecdsa.PrivateKey
}

// newFixture provisions a fresh P-256 signing key under the given key ID and
// wires a loader against an in-memory keystore.
func newFixture(t *testing.T, keyID interfaces.KeyID) *loaderFixture {
	t.Helper()
	logger := testLogger()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	require.LessOrEqual(t, len(pubDER), interfaces.MaxKeySize,
		"a PKIX P-256 public key must fit a keyslot")

	store := storage.NewMemoryBackend(logger)
	slot := interfaces.NewKeyslotID(interfaces.OperationSign, keyID)
	require.NoError(t, store.Store(context.Background(), slot, pubDER))

	resolver := hwkey.NewResolver(hwkey.NewService(store, logger), logger)
	return &loaderFixture{
		loader: New(resolver, logger),
		store:  store,
		priv:   priv,
	}
}

func (f *loaderFixture) sign(t *testing.T, pkg []byte) []byte {
	t.Helper()
	digest := sha256.Sum256(pkg)
	sig, err := ecdsa.SignASN1(rand.Reader, f.priv, digest[:])
	require.NoError(t, err)
	return sig
}

func TestLoader_AdmitsSignedPackage(t *testing.T) {
	f := newFixture(t, 1)

	contents := []byte("elf image bytes")
	manifest := []byte("manifest bytes")
	pkg, err := apppackage.Encode(contents, manifest, nil)
	require.NoError(t, err)

	metadata, err := f.loader.Admit(context.Background(), pkg, f.sign(t, pkg), 1)
	require.NoError(t, err)
	assert.Equal(t, contents, metadata.Contents.Slice(pkg))
	assert.Equal(t, manifest, metadata.Manifest.Slice(pkg))
}

func TestLoader_RejectsTamperedPackage(t *testing.T) {
	f := newFixture(t, 1)

	pkg, err := apppackage.Encode([]byte("elf"), []byte("manifest"), nil)
	require.NoError(t, err)
	sig := f.sign(t, pkg)

	pkg[len(pkg)-1] ^= 0x01
	_, err = f.loader.Admit(context.Background(), pkg, sig, 1)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestLoader_RejectsForeignSignature(t *testing.T) {
	f := newFixture(t, 1)
	other := newFixture(t, 1)

	pkg, err := apppackage.Encode([]byte("elf"), []byte("manifest"), nil)
	require.NoError(t, err)

	_, err = f.loader.Admit(context.Background(), pkg, other.sign(t, pkg), 1)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestLoader_RejectsMalformedPackageBeforeKeyLookup(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.loader.Admit(context.Background(), []byte{0xff, 0xff}, nil, 1)
	assert.ErrorIs(t, err, apppackage.ErrDecode,
		"validation must reject before any key is resolved")
}

func TestLoader_UnprovisionedKeyID(t *testing.T) {
	f := newFixture(t, 1)

	pkg, err := apppackage.Encode([]byte("elf"), []byte("manifest"), nil)
	require.NoError(t, err)

	_, err = f.loader.Admit(context.Background(), pkg, f.sign(t, pkg), 2)
	assert.ErrorIs(t, err, interfaces.ErrKeyslotNotFound)
}

func TestVerifyDetached_GarbageKeyMaterial(t *testing.T) {
	err := VerifyDetached(interfaces.KeyMaterial("not a DER key"), []byte("pkg"), []byte("sig"))
	assert.ErrorIs(t, err, ErrBadKey)
}

func TestVerifyDetached_WrongKeyType(t *testing.T) {
	// An Ed25519 key parses as PKIX but is not an ECDSA key.
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	err = VerifyDetached(pubDER, []byte("pkg"), []byte("sig"))
	assert.ErrorIs(t, err, ErrBadKey)
}
