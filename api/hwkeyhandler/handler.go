package hwkeyhandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// SessionHeader carries the session ID on keyslot fetches.
const SessionHeader = "X-Hwkey-Session"

// maxOpenSessions bounds the session table so a misbehaving client cannot
// grow it without limit.
const maxOpenSessions = 1024

// Handler processes HTTP requests for the keystore service. Each HTTP
// session maps to one session on the underlying keystore, so the service's
// open/close accounting is preserved across the wire.
type Handler struct {
	keystore interfaces.Keystore
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[string]interfaces.KeystoreSession
}

// NewHandler creates a new HTTP request handler over the given keystore.
func NewHandler(keystore interfaces.Keystore, log *slog.Logger) *Handler {
	return &Handler{
		keystore: keystore,
		log:      log,
		sessions: make(map[string]interfaces.KeystoreSession),
	}
}

// RegisterRoutes mounts the keystore API on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/hwkey/session", h.HandleOpenSession)
	r.Delete("/api/hwkey/session/{session_id}", h.HandleCloseSession)
	r.Get("/api/hwkey/keyslot/{slot_id}", h.HandleKeyslotData)
}

// HandleOpenSession opens a keystore session and returns its ID.
//
// Response: the session ID as text/plain.
func (h *Handler) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.keystore.Open(r.Context())
	if err != nil {
		h.log.Error("Failed to open keystore session", "err", err)
		http.Error(w, fmt.Errorf("could not open session: %w", err).Error(), http.StatusServiceUnavailable)
		return
	}

	// The bound is checked and the session inserted under one lock so
	// concurrent opens cannot exceed the cap.
	id := uuid.Must(uuid.NewRandom()).String()
	h.mu.Lock()
	if len(h.sessions) >= maxOpenSessions {
		h.mu.Unlock()
		if err := session.Close(); err != nil {
			h.log.Error("Failed to close keystore session", "err", err)
		}
		http.Error(w, "too many open sessions", http.StatusServiceUnavailable)
		return
	}
	h.sessions[id] = session
	h.mu.Unlock()

	h.log.Debug("Opened keystore session", "session", id)
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(id))
}

// HandleCloseSession closes a previously opened session. Closing an unknown
// session is a 404 so clients notice leaked or double-closed handles.
func (h *Handler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")

	h.mu.Lock()
	session, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	if err := session.Close(); err != nil {
		h.log.Error("Failed to close keystore session", "err", err, "session", id)
		http.Error(w, fmt.Errorf("could not close session: %w", err).Error(), http.StatusInternalServerError)
		return
	}

	h.log.Debug("Closed keystore session", "session", id)
	w.WriteHeader(http.StatusOK)
}

// HandleKeyslotData fetches a keyslot within an open session.
//
// URL format: GET /api/hwkey/keyslot/{slot_id}?max_size=N
// The X-Hwkey-Session header must name an open session. max_size is the
// caller's size bound; it is capped at interfaces.MaxKeySize. A slot larger
// than the bound is 413, a missing slot is 404.
//
// Response: the raw key material as application/octet-stream.
func (h *Handler) HandleKeyslotData(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		http.Error(w, "missing "+SessionHeader+" header", http.StatusUnauthorized)
		return
	}

	h.mu.Lock()
	session, ok := h.sessions[sessionID]
	h.mu.Unlock()
	if !ok {
		http.Error(w, "unknown session", http.StatusUnauthorized)
		return
	}

	slot, err := interfaces.ParseKeyslotID(chi.URLParam(r, "slot_id"))
	if err != nil {
		http.Error(w, fmt.Errorf("invalid keyslot: %w", err).Error(), http.StatusBadRequest)
		return
	}

	maxSize := interfaces.MaxKeySize
	if raw := r.URL.Query().Get("max_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid max_size", http.StatusBadRequest)
			return
		}
		if parsed < maxSize {
			maxSize = parsed
		}
	}

	dest := make([]byte, maxSize)
	n, err := session.GetKeyslotData(slot, dest)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, interfaces.ErrKeyslotNotFound):
			status = http.StatusNotFound
		case errors.Is(err, interfaces.ErrKeyslotTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, interfaces.ErrSessionClosed):
			status = http.StatusUnauthorized
		}
		h.log.Info("Keyslot fetch failed", "err", err, "slot", slot.String(), "session", sessionID)
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(dest[:n])
}
