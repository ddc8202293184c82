package storage

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_MemoryBackend(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	backend, err := factory.StorageBackendFor("mem://")
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, backend)
	assert.Equal(t, "mem://", backend.LocationURI())
}

func TestFactory_FileBackend(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	dir := t.TempDir()

	backend, err := factory.StorageBackendFor(interfaces.KeyslotStoreLocation("file://" + dir))
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, backend)

	ctx := context.Background()
	require.NoError(t, backend.Store(ctx, testSlot, []byte("material")))
	data, err := backend.Fetch(ctx, testSlot)
	require.NoError(t, err)
	assert.Equal(t, []byte("material"), data)
}

func TestFactory_FileBackendNoPath(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	_, err := factory.StorageBackendFor("file://")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestFactory_DerivedBackend(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	seed := hex.EncodeToString(make([]byte, 32))

	backend, err := factory.StorageBackendFor(interfaces.KeyslotStoreLocation("derived://" + seed))
	require.NoError(t, err)
	assert.IsType(t, &DerivedBackend{}, backend)

	material, err := backend.Fetch(context.Background(), testSlot)
	require.NoError(t, err)
	assert.Len(t, material, derivedKeyLength)
}

func TestFactory_DerivedBackendBadSeed(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	_, err := factory.StorageBackendFor("derived://nothex")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	shortSeed := hex.EncodeToString(make([]byte, 16))
	_, err = factory.StorageBackendFor(interfaces.KeyslotStoreLocation("derived://" + shortSeed))
	assert.Error(t, err)
}

func TestFactory_VaultBackendNeedsMountAndPath(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	_, err := factory.StorageBackendFor("vault://token@vault.example.com:8200/onlymount")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestFactory_S3BackendNeedsBucket(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	_, err := factory.StorageBackendFor("s3:///prefix")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestFactory_UnsupportedScheme(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	_, err := factory.StorageBackendFor("gopher://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend scheme")
}

func TestFactory_CreateMultiBackend(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	backend, err := factory.CreateMultiBackend([]interfaces.KeyslotStoreLocation{
		"mem://",
		interfaces.KeyslotStoreLocation("file://" + t.TempDir()),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(backend.LocationURI(), "multi://["))

	ctx := context.Background()
	require.NoError(t, backend.Store(ctx, testSlot, []byte("material")))
	data, err := backend.Fetch(ctx, testSlot)
	require.NoError(t, err)
	assert.Equal(t, []byte("material"), data)
}

func TestFactory_CreateMultiBackendSkipsBadLocations(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	backend, err := factory.CreateMultiBackend([]interfaces.KeyslotStoreLocation{
		"gopher://bad",
		"mem://",
	})
	require.NoError(t, err, "a bad location is skipped as long as one backend initializes")
	require.NoError(t, backend.Store(context.Background(), testSlot, []byte("x")))
}

func TestFactory_CreateMultiBackendAllBad(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	_, err := factory.CreateMultiBackend([]interfaces.KeyslotStoreLocation{"gopher://bad"})
	assert.Error(t, err)
}
