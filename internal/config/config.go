package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the top-level application configuration.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Collector CollectorConfig `toml:"collector"`
	Agents    AgentsConfig    `toml:"agents"`
	Fix       FixConfig       `toml:"fix"`
	History   HistoryConfig   `toml:"history"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// CollectorConfig tunes how much code is gathered around the caret.
type CollectorConfig struct {
	WindowLines  int `toml:"window_lines"`
	CommentLimit int `toml:"comment_limit"`
}

// AgentsConfig locates the agent store and persona files.
type AgentsConfig struct {
	File       string `toml:"file"`
	PersonaDir string `toml:"persona_dir"`
}

// FixConfig holds settings for applying model replies.
type FixConfig struct {
	SnippetRatio float64 `toml:"snippet_ratio"`
	Confirm      bool    `toml:"confirm"`
}

// HistoryConfig holds settings for the run history database.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Limit   int    `toml:"limit"`
}

// Dir returns the directory holding quickfix's configuration and data,
// honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quickfix")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quickfix"
	}
	return filepath.Join(home, ".config", "quickfix")
}

// DefaultPath is the config file location used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Collector: CollectorConfig{
			WindowLines:  40,
			CommentLimit: 3,
		},
		Agents: AgentsConfig{
			File:       filepath.Join(dir, "agent.json"),
			PersonaDir: filepath.Join(dir, "agents"),
		},
		Fix: FixConfig{
			SnippetRatio: 0.3,
			Confirm:      true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "history.db"),
			Limit:   20,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file
// yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Agents.File = ExpandPath(cfg.Agents.File)
	cfg.Agents.PersonaDir = ExpandPath(cfg.Agents.PersonaDir)
	cfg.History.Path = ExpandPath(cfg.History.Path)
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
