// Package session owns the client-side authentication state: an opaque API
// token plus the display name of the signed-in user, persisted across runs
// in ~/.facesense/session.json. Presence of a token is treated as proof of
// authentication; the token is never validated locally, the API rejects
// stale ones on the next request.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is the persisted authentication state
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
}

// IsAuthenticated reports whether the session carries a token
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// Store is the single owner of the session. All mutations go through
// Login/Logout; everything else reads through Current/Token/Username.
type Store struct {
	path string

	mu  sync.RWMutex
	cur Session
}

// DefaultPath returns the session file location (~/.facesense/session.json)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".facesense", "session.json"), nil
}

// NewStore creates a store backed by the given file and restores any
// persisted session. A missing or unreadable file is not an error, it just
// means nobody is logged in.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

// NewDefaultStore creates a store at the default path
func NewDefaultStore() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return
	}
	s.cur = sess
}

func (s *Store) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s.cur, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Login records a new session. Token and username are written together so a
// reader never sees a token paired with a previous user's name. Re-logging
// in simply replaces the old session. If the file write fails the in-memory
// session is kept anyway and the error is returned for the caller to log;
// the user stays logged in until the process exits.
func (s *Store) Login(token, username string) error {
	if token == "" {
		return errors.New("token required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{Token: token, Username: username}
	return s.persist()
}

// Logout clears the session in memory and on disk. Calling it while already
// logged out is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = Session{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Current returns a copy of the session
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// IsAuthenticated reports whether a token is present
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.IsAuthenticated()
}

// Token returns the current token, or "" when logged out. This satisfies
// api.TokenSource so the HTTP client always sees the live session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// Username returns the display name of the signed-in user
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Username
}
