package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"database_path":  "/tmp/reports.db",
		"maps_api_key":   "abc",
		"locate_timeout": "15s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := &Config{SupportNumber: "kept"}
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "/tmp/reports.db", cfg.DatabasePath)
		assert.Equal(t, "abc", cfg.MapsAPIKey)
		assert.Equal(t, 15*time.Second, cfg.LocateTimeout)
		assert.Equal(t, "kept", cfg.SupportNumber)
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		cfg := &Config{DatabasePath: "defaults.db", LocateTimeout: 42 * time.Second}
		require.NoError(t, parseJson(cfg, nil))

		assert.Equal(t, "defaults.db", cfg.DatabasePath)
		assert.Equal(t, 42*time.Second, cfg.LocateTimeout)
	})

	t.Run("empty string overrides", func(t *testing.T) {
		path := writeTempJSON(t, dir, "empty.json", map[string]any{"maps_api_key": ""})
		cfg := &Config{MapsAPIKey: "old"}
		require.NoError(t, parseJson(cfg, []string{"-c", path}))
		assert.Empty(t, cfg.MapsAPIKey)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		assert.Error(t, parseJson(&Config{}, []string{"-config", bad}))
	})

	t.Run("missing file → error", func(t *testing.T) {
		assert.Error(t, parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}))
	})
}
