package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// FileBackend implements a keyslot store on the local filesystem. Each slot
// is one file under the base directory, named by its keyslot ID.
type FileBackend struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileBackend creates a file keyslot store rooted at baseDir, creating
// the directory if needed. Slot files are created with mode 0600 since they
// hold key material.
func NewFileBackend(baseDir string, log *slog.Logger) (*FileBackend, error) {
	slotDir := filepath.Join(baseDir, "keyslots")
	if err := os.MkdirAll(slotDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keyslot directory: %w", err)
	}

	return &FileBackend{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Fetch reads the slot's file. Returns ErrKeyslotNotFound if it does not exist.
func (b *FileBackend) Fetch(ctx context.Context, slot interfaces.KeyslotID) ([]byte, error) {
	path, err := b.slotPath(slot)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, interfaces.ErrKeyslotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyslot file: %w", err)
	}
	return data, nil
}

// Store writes the slot's file, replacing any previous content.
func (b *FileBackend) Store(ctx context.Context, slot interfaces.KeyslotID, data []byte) error {
	path, err := b.slotPath(slot)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write keyslot file: %w", err)
	}
	b.log.Debug("Stored keyslot", slog.String("slot", slot.String()), slog.String("path", path))
	return nil
}

// LocationURI returns the backend's identifying URI.
func (b *FileBackend) LocationURI() string {
	return b.locationURI
}

// slotPath maps a slot name to its file path. Slot names with path
// separators or parent references are rejected so a crafted name cannot
// escape the keyslot directory.
func (b *FileBackend) slotPath(slot interfaces.KeyslotID) (string, error) {
	name := slot.String()
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid keyslot name %q", name)
	}
	return filepath.Join(b.baseDir, "keyslots", name), nil
}
