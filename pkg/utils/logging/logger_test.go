package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_WritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, path, err := NewLogger(dir, "test", false)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "test_"))

	logger.Debug("Allocation finished", zap.Int("events", 42))
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry))
	assert.Equal(t, "Allocation finished", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 42, entry["events"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLogger_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, _, err := NewLogger(filepath.Join(file, "logs"), "test", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create logs directory")
}
