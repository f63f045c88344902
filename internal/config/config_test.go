package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 40, cfg.Collector.WindowLines)
	assert.Equal(t, 3, cfg.Collector.CommentLimit)
	assert.Equal(t, filepath.Join("/xdg", "quickfix", "agent.json"), cfg.Agents.File)
	assert.Equal(t, filepath.Join("/xdg", "quickfix", "agents"), cfg.Agents.PersonaDir)
	assert.InDelta(t, 0.3, cfg.Fix.SnippetRatio, 1e-9)
	assert.True(t, cfg.Fix.Confirm)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join("/xdg", "quickfix", "history.db"), cfg.History.Path)
	assert.Equal(t, 20, cfg.History.Limit)
	assert.Equal(t, filepath.Join("/xdg", "quickfix", "config.toml"), DefaultPath())
}

func TestLoadFromFile(t *testing.T) {
	tomlContent := `
[log]
level = "debug"

[collector]
window_lines = 10

[agents]
file = "/tmp/agents.json"

[fix]
snippet_ratio = 0.5
confirm = false

[history]
enabled = false
limit = 5
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(tomlContent), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Collector.WindowLines)
	assert.Equal(t, "/tmp/agents.json", cfg.Agents.File)
	assert.InDelta(t, 0.5, cfg.Fix.SnippetRatio, 1e-9)
	assert.False(t, cfg.Fix.Confirm)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 5, cfg.History.Limit)

	// Defaults should still be set for fields not specified in TOML
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Collector.CommentLimit)
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("[history]\npath = \"~/runs.db\"\n"), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "runs.db"), cfg.History.Path)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Collector.WindowLines)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("[invalid toml..."), 0644))

	_, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Log.Level = "info"
	cfg.Collector.WindowLines = 12

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", loaded.Log.Level)
	assert.Equal(t, 12, loaded.Collector.WindowLines)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "x"), ExpandPath("~/x"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/abs/x", ExpandPath("/abs/x"))
	assert.Equal(t, "~other/x", ExpandPath("~other/x"))
}
