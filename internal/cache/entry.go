package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Entry is a single cached response body with its expiry metadata.
type Entry struct {
	// Key is the cache key (a SHA-256 digest of the request URL).
	Key string `json:"key"`

	// Data is the cached response body.
	Data json.RawMessage `json:"data"`

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the entry stops being served.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewEntry creates an entry expiring ttl from now.
func NewEntry(key string, data json.RawMessage, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the entry's TTL has elapsed.
func (e *Entry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns the duration since the entry was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// Key derives a cache key from a request URL. The digest keeps keys
// filesystem-safe regardless of what query parameters the URL carries.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
