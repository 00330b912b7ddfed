// Package auth persists the API session token between command
// invocations, playing the role browser local storage has for the web
// client of the same backend.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session errors.
var (
	ErrNoSession      = errors.New("no active session; run 'quill login'")
	ErrSessionExpired = errors.New("session expired; run 'quill login'")
)

// Session is a logged-in user's token and identity.
type Session struct {
	// Token is the bearer token sent on authenticated requests.
	Token string `json:"token"`

	// Email identifies the logged-in account.
	Email string `json:"email"`

	// ExpiresAt is the server-reported token expiry. Zero means the
	// token does not expire client-side.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the session's token has expired.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a session store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists the session with owner-only permissions.
func (s *Store) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load returns the persisted session. Returns ErrNoSession when none
// exists and ErrSessionExpired when the stored token has lapsed (the
// stale file is removed).
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if unmarshalErr := json.Unmarshal(data, &session); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", unmarshalErr)
	}

	if session.Token == "" {
		return nil, ErrNoSession
	}
	if session.Expired() {
		_ = s.Clear()
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Clear removes the persisted session. Idempotent.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
