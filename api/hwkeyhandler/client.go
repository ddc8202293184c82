package hwkeyhandler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// Client implements interfaces.Keystore against a remote hwkeyd instance.
type Client struct {
	// BaseURL is the hwkeyd address, e.g. http://127.0.0.1:8080.
	BaseURL string

	// Client is the HTTP client used for all requests. Defaults to
	// http.DefaultClient.
	Client *http.Client
}

// Open establishes a session with the remote keystore. A failed open wraps
// interfaces.ErrKeystoreUnavailable with the server's status.
func (c *Client) Open(ctx context.Context) (interfaces.KeystoreSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/hwkey/session", nil)
	if err != nil {
		return nil, fmt.Errorf("could not initialize request: %w", err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrKeystoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read hwkey response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: hwkey returned %d: %s", interfaces.ErrKeystoreUnavailable, resp.StatusCode, string(body))
	}

	id := strings.TrimSpace(string(body))
	if id == "" {
		return nil, fmt.Errorf("%w: hwkey returned empty session ID", interfaces.ErrKeystoreUnavailable)
	}

	return &clientSession{client: c, ctx: ctx, id: id}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.Client == nil {
		return http.DefaultClient
	}
	return c.Client
}

type clientSession struct {
	client *Client
	ctx    context.Context
	id     string

	mu     sync.Mutex
	closed bool
}

// GetKeyslotData fetches a slot into dest, sending len(dest) as the server's
// size bound so an oversized slot fails remotely instead of arriving
// truncated.
func (s *clientSession) GetKeyslotData(slot interfaces.KeyslotID, dest []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, interfaces.ErrSessionClosed
	}

	url := fmt.Sprintf("%s/api/hwkey/keyslot/%s?max_size=%d", s.client.BaseURL, slot.String(), len(dest))
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("could not initialize request: %w", err)
	}
	req.Header.Set(SessionHeader, s.id)

	resp, err := s.client.httpClient().Do(req)
	if err != nil {
		return 0, fmt.Errorf("could not request hwkey: %w", err)
	}
	defer resp.Body.Close()

	// Never read more than the caller's bound plus one sentinel byte; a
	// compliant server cannot exceed the bound, so the extra byte only
	// detects a misbehaving one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(len(dest))+1))
	if err != nil {
		return 0, fmt.Errorf("could not read hwkey response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", interfaces.ErrKeyslotNotFound, slot)
	case http.StatusRequestEntityTooLarge:
		return 0, fmt.Errorf("%w: %s", interfaces.ErrKeyslotTooLarge, slot)
	case http.StatusUnauthorized:
		return 0, interfaces.ErrSessionClosed
	default:
		return 0, fmt.Errorf("hwkey returned %d: %s", resp.StatusCode, string(body))
	}

	if len(body) > len(dest) {
		return 0, fmt.Errorf("%w: server exceeded %d-byte bound", interfaces.ErrKeyslotTooLarge, len(dest))
	}
	return copy(dest, body), nil
}

// Close releases the remote session. Close is idempotent.
func (s *clientSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	url := fmt.Sprintf("%s/api/hwkey/session/%s", s.client.BaseURL, s.id)
	req, err := http.NewRequestWithContext(s.ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("could not initialize request: %w", err)
	}

	resp, err := s.client.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("could not close hwkey session: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hwkey session close returned %d", resp.StatusCode)
	}
	return nil
}
