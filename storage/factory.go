package storage

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// StorageBackendFactory creates keyslot store backends from URI strings and
// manages multi-backend configurations for redundant storage.
type StorageBackendFactory struct {
	log *slog.Logger
}

// NewStorageBackendFactory creates a new factory instance.
func NewStorageBackendFactory(logger *slog.Logger) *StorageBackendFactory {
	return &StorageBackendFactory{log: logger}
}

// StorageBackendFor creates a keyslot store from a location URI.
//
// Supported schemes:
//   - mem:// - in-memory store
//   - file:// - local filesystem store
//   - vault:// - HashiCorp Vault KV v2 (token from userinfo or VAULT_TOKEN)
//   - s3:// - Amazon S3 or compatible object storage
//   - derived:// - read-only HKDF derivation from a hex master seed
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (sf *StorageBackendFactory) StorageBackendFor(location interfaces.KeyslotStoreLocation) (interfaces.KeyslotStore, error) {
	u, err := url.Parse(string(location))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mem":
		return NewMemoryBackend(sf.log), nil
	case "file":
		return sf.createFileBackend(u)
	case "vault":
		return sf.createVaultBackend(u)
	case "s3":
		return sf.createS3Backend(u)
	case "derived":
		return sf.createDerivedBackend(u)
	default:
		return nil, fmt.Errorf("unsupported backend scheme: %s", u.Scheme)
	}
}

// CreateMultiBackend creates a replicated keyslot store from a list of
// location URIs. Backends that fail to initialize are skipped with a
// warning; at least one must succeed.
func (sf *StorageBackendFactory) CreateMultiBackend(locations []interfaces.KeyslotStoreLocation) (interfaces.KeyslotStore, error) {
	backends := make([]interfaces.KeyslotStore, 0, len(locations))

	for _, location := range locations {
		backend, err := sf.StorageBackendFor(location)
		if err != nil {
			sf.log.Warn("Failed to create keyslot store backend",
				"err", err,
				slog.String("location", string(location)))
			continue
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no valid keyslot store backends created")
	}

	return NewMultiBackend(backends, sf.log), nil
}

// createFileBackend creates a filesystem store.
// URI format: file:///var/lib/hwkeyd
func (sf *StorageBackendFactory) createFileBackend(u *url.URL) (interfaces.KeyslotStore, error) {
	dir := u.Path
	if u.Host != "" {
		dir = u.Host + u.Path
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: file URI has no path", interfaces.ErrInvalidLocationURI)
	}
	return NewFileBackend(dir, sf.log)
}

// createVaultBackend creates a Vault KV v2 store.
// URI format: vault://[token@]host:port/mount/dataPath[?scheme=http]
func (sf *StorageBackendFactory) createVaultBackend(u *url.URL) (interfaces.KeyslotStore, error) {
	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: vault URI needs /mount/dataPath", interfaces.ErrInvalidLocationURI)
	}

	scheme := "https"
	if u.Query().Get("scheme") == "http" {
		scheme = "http"
	}
	address := fmt.Sprintf("%s://%s", scheme, u.Host)

	token := os.Getenv("VAULT_TOKEN")
	if u.User != nil && u.User.Username() != "" {
		token = u.User.Username()
	}

	return NewVaultBackend(address, parts[0], parts[1], token, sf.log)
}

// createS3Backend creates an S3 store.
// URI format: s3://[accessKey:secretKey@]bucket/prefix?region=r[&endpoint=e]
func (sf *StorageBackendFactory) createS3Backend(u *url.URL) (interfaces.KeyslotStore, error) {
	bucket := u.Host
	if bucket == "" {
		return nil, fmt.Errorf("%w: s3 URI has no bucket", interfaces.ErrInvalidLocationURI)
	}

	region := u.Query().Get("region")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := u.Query().Get("endpoint")

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
	}

	return NewS3Backend(bucket, strings.Trim(u.Path, "/"), region, endpoint, accessKey, secretKey, sf.log)
}

// createDerivedBackend creates a derived store from a hex master seed.
// URI format: derived://<hex seed>
func (sf *StorageBackendFactory) createDerivedBackend(u *url.URL) (interfaces.KeyslotStore, error) {
	seed, err := hex.DecodeString(u.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: derived URI seed is not hex: %v", interfaces.ErrInvalidLocationURI, err)
	}
	return NewDerivedBackend(seed, sf.log)
}
