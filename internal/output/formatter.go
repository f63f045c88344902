// internal/output/formatter.go
package output

import "fmt"

// Result holds a generated prompt and what it was built from.
type Result struct {
	Mode        string `json:"mode"` // "quickfix" or "context"
	Prompt      string `json:"prompt"`
	File        string `json:"file,omitempty"`
	Instruction string `json:"instruction,omitempty"`
	Agent       string `json:"agent,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	Bytes       int    `json:"bytes"`
	Error       string `json:"error,omitempty"`
}

// Formatter formats a Result into output bytes.
type Formatter interface {
	Format(result *Result) ([]byte, error)
}

// New returns the formatter registered under name: "text", "json" or
// "markdown".
func New(name string) (Formatter, error) {
	switch name {
	case "", "text":
		return NewTextFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "markdown", "md":
		return NewMarkdownFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or markdown)", name)
	}
}

// TextFormatter outputs the bare prompt.
type TextFormatter struct{}

// NewTextFormatter creates a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format returns the prompt unchanged, or the error text.
func (f *TextFormatter) Format(result *Result) ([]byte, error) {
	if result.Error != "" {
		return []byte("error: " + result.Error + "\n"), nil
	}
	return []byte(result.Prompt), nil
}
