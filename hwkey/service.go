package hwkey

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// Service is a session-oriented keystore backed by a KeyslotStore. It
// implements interfaces.Keystore and is the core of the hwkeyd daemon.
type Service struct {
	store interfaces.KeyslotStore
	log   *slog.Logger
}

// NewService creates a keystore service over the given slot store.
func NewService(store interfaces.KeyslotStore, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Open establishes a new session. Sessions are independent; the service
// itself is safe for concurrent use.
func (s *Service) Open(ctx context.Context) (interfaces.KeystoreSession, error) {
	session := &serviceSession{
		svc: s,
		ctx: ctx,
		id:  uuid.Must(uuid.NewRandom()).String(),
	}
	s.log.Debug("Keystore session opened", "session", session.id)
	return session, nil
}

type serviceSession struct {
	svc *Service
	ctx context.Context
	id  string

	mu     sync.Mutex
	closed bool
}

// GetKeyslotData fetches a slot into dest. len(dest) is the size bound: a
// slot larger than it is rejected, never truncated.
func (s *serviceSession) GetKeyslotData(slot interfaces.KeyslotID, dest []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, interfaces.ErrSessionClosed
	}

	data, err := s.svc.store.Fetch(s.ctx, slot)
	if err != nil {
		return 0, err
	}
	if len(data) > len(dest) {
		s.svc.log.Warn("Keyslot exceeds caller's size bound",
			"session", s.id,
			"slot", slot.String(),
			"size", len(data),
			"bound", len(dest))
		return 0, fmt.Errorf("%w: %d bytes over %d-byte bound", interfaces.ErrKeyslotTooLarge, len(data), len(dest))
	}

	return copy(dest, data), nil
}

// Close releases the session. Close is idempotent.
func (s *serviceSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.svc.log.Debug("Keystore session closed", "session", s.id)
	return nil
}
