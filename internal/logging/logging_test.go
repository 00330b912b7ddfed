package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Config{Level: "shouting"})
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNew_LevelApplied(t *testing.T) {
	logger, err := New(Config{Level: "debug"})
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quill.log")

	logger, err := New(Config{Format: FormatJSON, File: path})
	require.NoError(t, err)

	logger.Info().Str("action", "startup").Msg("ready")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "ready", line["message"])
	assert.Equal(t, "startup", line["action"])
}

func TestNew_UnopenableFileIsAnError(t *testing.T) {
	dir := t.TempDir()

	// A directory at the log file path makes OpenFile fail.
	logger, err := New(Config{File: dir})
	require.Error(t, err)
	assert.Nil(t, logger)
	assert.Contains(t, err.Error(), "failed to open log file")
}

func TestClose_NoFile(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	componentLogger := Component(base, "api")
	componentLogger.Info().Msg("request sent")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "api", line["component"])
}
