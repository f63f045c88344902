package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/huh"
)

// ConfirmForm wraps a yes/no Huh confirmation.
type ConfirmForm struct {
	form  *huh.Form
	value bool
}

func newConfirmForm(title, description, yes, no string) *ConfirmForm {
	c := &ConfirmForm{}
	c.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative(yes).
			Negative(no).
			Value(&c.value),
	)).WithKeyMap(escKeyMap())
	return c
}

// NewSnippetWarning asks whether to replace a whole file with what looks
// like a partial snippet.
func NewSnippetWarning() *ConfirmForm {
	return newConfirmForm(
		"Warning: Possible Partial Response",
		"The suggestion seems to be a snippet rather than the full file.\n"+
			"Applying this will replace your entire file with just this snippet.\n\n"+
			"Do you want to continue?",
		"Yes", "No",
	)
}

// NewApplyConfirm asks whether to apply the proposed change. label is
// "to <file>" or "to the selection".
func NewApplyConfirm(label string) *ConfirmForm {
	return newConfirmForm(
		"Apply Quick Fix",
		"Would you like to apply the proposed changes "+label+"?",
		"Apply", "Cancel",
	)
}

// Run shows the confirmation and reports the answer. Dismissing the form
// counts as "no".
func (c *ConfirmForm) Run(ctx context.Context, in io.Reader, out io.Writer) (bool, error) {
	err := runForm(ctx, c.form, in, out)
	if err == ErrCancelled {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.value, nil
}
