package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// MultiBackend implements interfaces.KeyslotStore over multiple backends
// with fallback. Fetches return the first backend's hit; stores go to every
// backend and succeed if at least one write succeeds.
type MultiBackend struct {
	backends []interfaces.KeyslotStore
	log      *slog.Logger
}

// NewMultiBackend creates a replicated keyslot store over the given backends.
func NewMultiBackend(backends []interfaces.KeyslotStore, logger *slog.Logger) *MultiBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &MultiBackend{
		backends: backends,
		log:      logger,
	}
}

// Fetch returns the slot from the first backend that has it.
func (m *MultiBackend) Fetch(ctx context.Context, slot interfaces.KeyslotID) ([]byte, error) {
	start := time.Now()
	var errs []error

	for _, backend := range m.backends {
		data, err := backend.Fetch(ctx, slot)
		if err == nil {
			m.log.Debug("Successfully fetched keyslot",
				slog.String("backend", backend.LocationURI()),
				slog.String("slot", slot.String()),
				slog.Duration("duration", time.Since(start)))
			return data, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", backend.LocationURI(), err))
		m.log.Debug("Failed to fetch keyslot from backend",
			slog.String("backend", backend.LocationURI()),
			slog.String("slot", slot.String()),
			"err", err)
	}

	for _, err := range errs {
		if !errors.Is(err, interfaces.ErrKeyslotNotFound) {
			return nil, fmt.Errorf("all backends failed: %s", joinErrors(errs))
		}
	}
	return nil, interfaces.ErrKeyslotNotFound
}

// Store writes the slot to all backends. Partial failures are logged; the
// write fails only when no backend accepted it.
func (m *MultiBackend) Store(ctx context.Context, slot interfaces.KeyslotID, material []byte) error {
	var errs []error
	stored := 0

	for _, backend := range m.backends {
		if err := backend.Store(ctx, slot, material); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.LocationURI(), err))
			m.log.Warn("Failed to store keyslot to backend",
				slog.String("backend", backend.LocationURI()),
				slog.String("slot", slot.String()),
				"err", err)
			continue
		}
		stored++
	}

	if stored == 0 {
		return fmt.Errorf("no backend accepted keyslot %s: %s", slot, joinErrors(errs))
	}
	return nil
}

// LocationURI returns the aggregated URI list.
func (m *MultiBackend) LocationURI() string {
	uris := make([]string, 0, len(m.backends))
	for _, backend := range m.backends {
		uris = append(uris, backend.LocationURI())
	}
	return "multi://[" + strings.Join(uris, ",") + "]"
}

func joinErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
