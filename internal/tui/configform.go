package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianshen/quickfix/internal/config"
)

// ConfigForm wraps a Huh form for editing quickfix configuration.
type ConfigForm struct {
	form         *huh.Form
	cfg          *config.Config
	savePath     string
	windowStr    string
	ratioStr     string
	historyLimit string
}

// NewConfigForm creates a config editor form populated from the given config.
func NewConfigForm(cfg *config.Config, savePath string) *ConfigForm {
	cf := &ConfigForm{
		cfg:          cfg,
		savePath:     savePath,
		windowStr:    strconv.Itoa(cfg.Collector.WindowLines),
		ratioStr:     strconv.FormatFloat(cfg.Fix.SnippetRatio, 'f', -1, 64),
		historyLimit: strconv.Itoa(cfg.History.Limit),
	}

	logGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Log Level").
			Options(
				huh.NewOption("Debug", "debug"),
				huh.NewOption("Info", "info"),
				huh.NewOption("Warn", "warn"),
				huh.NewOption("Error", "error"),
			).
			Value(&cfg.Log.Level),
		huh.NewSelect[string]().
			Title("Log Format").
			Options(
				huh.NewOption("Console", "console"),
				huh.NewOption("JSON", "json"),
			).
			Value(&cfg.Log.Format),
	).Title("Logging")

	collectGroup := huh.NewGroup(
		huh.NewInput().
			Title("Code Window Lines").
			Placeholder("40").
			Value(&cf.windowStr).
			Validate(positiveInt),
		huh.NewInput().
			Title("Agent File").
			Value(&cfg.Agents.File),
		huh.NewInput().
			Title("Persona Directory").
			Value(&cfg.Agents.PersonaDir),
	).Title("Context")

	fixGroup := huh.NewGroup(
		huh.NewInput().
			Title("Snippet Warning Ratio").
			Placeholder("0.3").
			Value(&cf.ratioStr).
			Validate(func(s string) error {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil || v < 0 || v > 1 {
					return fmt.Errorf("enter a number between 0 and 1")
				}
				return nil
			}),
		huh.NewConfirm().
			Title("Confirm Before Applying").
			Value(&cfg.Fix.Confirm),
		huh.NewConfirm().
			Title("Record Run History").
			Value(&cfg.History.Enabled),
		huh.NewInput().
			Title("History Rows Shown").
			Placeholder("20").
			Value(&cf.historyLimit).
			Validate(positiveInt),
	).Title("Quick Fix")

	cf.form = huh.NewForm(logGroup, collectGroup, fixGroup).WithKeyMap(escKeyMap())

	return cf
}

func positiveInt(s string) error {
	if v, err := strconv.Atoi(s); err != nil || v <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

// Save persists the config to disk. It parses the string fields back to
// numbers before saving; unparsable values keep their previous setting.
func (c *ConfigForm) Save() error {
	if v, err := strconv.Atoi(c.windowStr); err == nil && v > 0 {
		c.cfg.Collector.WindowLines = v
	}
	if v, err := strconv.ParseFloat(c.ratioStr, 64); err == nil && v >= 0 && v <= 1 {
		c.cfg.Fix.SnippetRatio = v
	}
	if v, err := strconv.Atoi(c.historyLimit); err == nil && v > 0 {
		c.cfg.History.Limit = v
	}
	return config.Save(c.savePath, c.cfg)
}

// Run shows the form and saves the result. A dismissed form saves nothing
// and returns ErrCancelled.
func (c *ConfigForm) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := runForm(ctx, c.form, in, out); err != nil {
		return err
	}
	return c.Save()
}
