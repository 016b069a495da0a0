package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyzone/internal/config"
)

func TestNew_Production(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studyzone.log")
	log, err := New(&config.Config{Env: "production", LogFile: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("quiz started")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug is off in production")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "quiz started", entry["msg"])
	assert.Equal(t, "studyzone", entry["app"])
}

func TestNew_Development(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")
	log, err := New(&config.Config{Env: "local", LogFile: path})
	require.NoError(t, err)

	log.Debug("loaded bank")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG")
	assert.Contains(t, string(data), "loaded bank")
}
