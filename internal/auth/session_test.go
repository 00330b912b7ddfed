package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	session := &Session{
		Token: "tok-abc123",
		Email: "writer@example.com",
	}
	require.NoError(t, store.Save(session))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc123", loaded.Token)
	assert.Equal(t, "writer@example.com", loaded.Email)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_LoadExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)

	session := &Session{
		Token:     "tok-old",
		Email:     "writer@example.com",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Save(session))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The stale file is cleaned up on the failed load.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	require.NoError(t, store.Save(&Session{Token: "tok"}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// Clearing an already-missing session is a no-op.
	assert.NoError(t, store.Clear())
}

func TestStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)
	require.NoError(t, store.Save(&Session{Token: "tok"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
