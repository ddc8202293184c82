package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// VaultBackend implements a keyslot store using HashiCorp Vault's KV v2
// secrets engine. Key material is stored base64-encoded under a fixed field
// so Vault's audit log never sees raw bytes in an ambiguous encoding.
type VaultBackend struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// vaultKeyField is the KV field holding the base64 key material.
const vaultKeyField = "key_material"

// NewVaultBackend creates a Vault keyslot store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: path within the mount (e.g. "hwkey")
//   - token: Vault token; when empty, the client falls back to VAULT_TOKEN
//   - log: structured logger for operational insights
func NewVaultBackend(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultBackend, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.TrimSuffix(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultBackend{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", address, mountPath, dataPath),
	}, nil
}

// Fetch retrieves a slot's key material from Vault.
func (b *VaultBackend) Fetch(ctx context.Context, slot interfaces.KeyslotID) ([]byte, error) {
	start := time.Now()
	path := b.secretPath(slot)

	secret, err := b.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		b.log.Error("Failed to read from Vault",
			slog.String("path", path),
			slog.String("slot", slot.String()),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		b.log.Debug("Keyslot not found in Vault",
			slog.String("path", path),
			slog.String("slot", slot.String()))
		return nil, interfaces.ErrKeyslotNotFound
	}

	// KV v2 wraps the payload in a "data" map.
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}
	encoded, ok := data[vaultKeyField].(string)
	if !ok {
		return nil, fmt.Errorf("key material field missing in Vault data")
	}

	material, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid key material encoding in Vault data: %w", err)
	}

	b.log.Info("Successfully fetched keyslot from Vault",
		slog.String("slot", slot.String()),
		slog.Duration("duration", time.Since(start)))
	return material, nil
}

// Store writes a slot's key material to Vault.
func (b *VaultBackend) Store(ctx context.Context, slot interfaces.KeyslotID, material []byte) error {
	path := b.secretPath(slot)

	_, err := b.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"data": map[string]interface{}{
			vaultKeyField: base64.StdEncoding.EncodeToString(material),
		},
	})
	if err != nil {
		b.log.Error("Failed to write to Vault",
			slog.String("path", path),
			slog.String("slot", slot.String()),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Info("Successfully stored keyslot in Vault", slog.String("slot", slot.String()))
	return nil
}

// LocationURI returns the backend's identifying URI.
func (b *VaultBackend) LocationURI() string {
	return b.locationURI
}

// secretPath builds the KV v2 data path for a slot.
func (b *VaultBackend) secretPath(slot interfaces.KeyslotID) string {
	return fmt.Sprintf("%s/data/%s/%s", b.mountPath, b.dataPath, slot.String())
}
