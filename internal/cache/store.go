package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// entryExtension is the file extension used for stored entries.
const entryExtension = ".json"

// TTL bounds. Values outside this range fall back to DefaultTTL.
const (
	// DefaultTTL is the default entry lifetime.
	DefaultTTL = 5 * time.Minute

	// MinTTL is the smallest accepted lifetime.
	MinTTL = time.Second

	// MaxTTL is the largest accepted lifetime.
	MaxTTL = 24 * time.Hour
)

// Common store errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// Store is a file-backed cache with TTL expiration. Entries live as
// JSON files in a single directory. Safe for concurrent use.
type Store struct {
	// dir is the cache directory path.
	dir string

	// enabled controls whether caching is active. A disabled store
	// rejects every operation with ErrDisabled so callers fall through
	// to the network unconditionally.
	enabled bool

	// ttl is the lifetime applied to new entries.
	ttl time.Duration

	// mu protects concurrent file operations.
	mu sync.RWMutex
}

// NewStore creates a file-backed cache store rooted at dir, creating
// the directory if needed. A disabled store performs no I/O.
func NewStore(dir string, enabled bool, ttl time.Duration) (*Store, error) {
	if !enabled {
		return &Store{enabled: false}, nil
	}

	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if ttl < MinTTL || ttl > MaxTTL {
		ttl = DefaultTTL
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Store{dir: dir, enabled: true, ttl: ttl}, nil
}

// Get retrieves an entry by key. Returns ErrNotFound when absent and
// ErrExpired when the TTL has elapsed (the stale file is removed).
func (s *Store) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.entryPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}

	if entry.Expired() {
		go func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			_ = os.Remove(path)
		}()
		return nil, ErrExpired
	}

	return &entry, nil
}

// Set stores data under key, overwriting any existing entry.
func (s *Store) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := NewEntry(key, data, s.ttl)
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	return writeFileAtomic(s.entryPath(key), payload)
}

// writeFileAtomic writes payload to a temporary file and renames it
// into place, so readers never observe a partially written entry.
func writeFileAtomic(path string, payload []byte) error {
	tmp := path + ".tmp"
	if writeErr := os.WriteFile(tmp, payload, 0600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tmp, path); renameErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}
	return nil
}

// Delete removes an entry by key. Idempotent: a missing entry is not
// an error.
func (s *Store) Delete(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every entry from the store.
func (s *Store) Clear() error {
	if !s.enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != entryExtension {
			continue
		}
		path := filepath.Join(s.dir, dirEntry.Name())
		if removeErr := os.Remove(path); removeErr != nil {
			return fmt.Errorf("failed to remove cache file %s: %w", dirEntry.Name(), removeErr)
		}
	}

	return nil
}

// CleanupExpired removes every expired entry. Unreadable or corrupt
// files are skipped.
func (s *Store) CleanupExpired() error {
	if !s.enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != entryExtension {
			continue
		}

		path := filepath.Join(s.dir, dirEntry.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}

		var entry Entry
		if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
			continue
		}

		if entry.Expired() {
			_ = os.Remove(path)
		}
	}

	return nil
}

// Count returns the number of stored entries, expired ones included.
func (s *Store) Count() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	count := 0
	for _, dirEntry := range entries {
		if !dirEntry.IsDir() && filepath.Ext(dirEntry.Name()) == entryExtension {
			count++
		}
	}
	return count, nil
}

// Enabled reports whether the store performs caching.
func (s *Store) Enabled() bool {
	return s.enabled
}

// TTL returns the lifetime applied to new entries.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// entryPath maps a key to its file path. Keys are hex digests, so no
// further sanitizing is needed.
func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, key+entryExtension)
}
