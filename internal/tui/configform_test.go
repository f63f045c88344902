package tui

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/quickfix/internal/config"
)

func TestConfigFormCreation(t *testing.T) {
	cfg := config.DefaultConfig()
	form := NewConfigForm(cfg, "/tmp/test-config.toml")
	assert.NotNil(t, form)
	assert.NotNil(t, form.form)
}

func TestConfigFormSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cfg := config.DefaultConfig()
	cfg.Log.Level = "debug"

	form := NewConfigForm(cfg, path)
	form.windowStr = "12"
	form.ratioStr = "0.5"
	form.historyLimit = "not a number"
	require.NoError(t, form.Save())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Log.Level)
	assert.Equal(t, 12, loaded.Collector.WindowLines)
	assert.InDelta(t, 0.5, loaded.Fix.SnippetRatio, 1e-9)
	assert.Equal(t, 20, loaded.History.Limit)
}

func TestPositiveInt(t *testing.T) {
	assert.NoError(t, positiveInt("3"))
	assert.Error(t, positiveInt("0"))
	assert.Error(t, positiveInt("x"))
}
