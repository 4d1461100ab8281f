package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabled(t *testing.T) {
	require.NoError(t, Init("", "debug"))
	// with no file configured these must be harmless no-ops
	Debug("dropped %d", 1)
	Info("dropped")
	Warn("dropped")
	Error("dropped")
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pixelterm.log")
	require.NoError(t, Init(path, "debug"))

	Info("opened %s", "/pics/cat.jpg")
	Debug("preload %s", "/pics/dog.jpg")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "opened /pics/cat.jpg")
	assert.Contains(t, s, `"level":"info"`)
	assert.Contains(t, s, "preload /pics/dog.jpg")
	assert.Contains(t, s, `"time":`)
}

func TestInitLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelterm.log")
	require.NoError(t, Init(path, "warn"))

	Info("below the threshold")
	Warn("surfaced")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "below the threshold")
	assert.Contains(t, string(data), "surfaced")
}

func TestInitUnknownLevelDefaultsToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelterm.log")
	require.NoError(t, Init(path, "shouting"))

	Debug("filtered at info")
	Info("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered at info")
	assert.Contains(t, string(data), "kept")
}
