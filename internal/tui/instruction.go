package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user dismisses a form.
var ErrCancelled = errors.New("cancelled")

// InstructionTitle is the question shown above the instruction input.
const InstructionTitle = "Ask Claude to fix or improve this code:"

// InstructionForm wraps a Huh form asking what the Quick Fix should do.
type InstructionForm struct {
	form  *huh.Form
	value string
}

// NewInstructionForm creates the instruction form. file, when non-empty,
// is shown as the description so the user knows what is being fixed.
func NewInstructionForm(file string) *InstructionForm {
	f := &InstructionForm{}

	text := huh.NewText().
		Title(InstructionTitle).
		Placeholder("e.g. handle the null case in total()").
		CharLimit(0).
		Value(&f.value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("instruction cannot be empty")
			}
			return nil
		})
	if file != "" {
		text = text.Description(file)
	}

	f.form = huh.NewForm(huh.NewGroup(text)).
		WithKeyMap(escKeyMap()).
		WithShowHelp(true)
	return f
}

// Run shows the form on the given terminal streams and returns the
// instruction. Esc or ctrl+c yields ErrCancelled.
func (f *InstructionForm) Run(ctx context.Context, in io.Reader, out io.Writer) (string, error) {
	if err := runForm(ctx, f.form, in, out); err != nil {
		return "", err
	}
	return strings.TrimSpace(f.value), nil
}

// escKeyMap extends the default key map so Esc dismisses the form, the
// way an editor dialog closes.
func escKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	)
	return km
}

func runForm(ctx context.Context, form *huh.Form, in io.Reader, out io.Writer) error {
	form = form.WithProgramOptions(tea.WithInput(in), tea.WithOutput(out))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("running form: %w", err)
	}
	return nil
}
