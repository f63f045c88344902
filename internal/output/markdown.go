// internal/output/markdown.go
package output

import (
	"fmt"
	"strings"
)

// MarkdownFormatter outputs Result as human-readable Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the Result as Markdown. The prompt is wrapped in a tilde
// fence since it carries backtick fences of its own.
func (f *MarkdownFormatter) Format(result *Result) ([]byte, error) {
	var b strings.Builder

	if result.Error != "" {
		b.WriteString("## Error\n\n")
		b.WriteString(result.Error)
		b.WriteString("\n")
		return []byte(b.String()), nil
	}

	title := "Quick Fix prompt"
	if result.Mode == "context" {
		title = "Context section"
	}
	b.WriteString(fmt.Sprintf("## %s\n\n", title))

	if result.File != "" {
		b.WriteString(fmt.Sprintf("- **File**: `%s`\n", result.File))
	}
	if result.Instruction != "" {
		b.WriteString(fmt.Sprintf("- **Instruction**: %s\n", result.Instruction))
	}
	if result.Agent != "" {
		b.WriteString(fmt.Sprintf("- **Agent**: %s\n", result.Agent))
	}

	b.WriteString("\n~~~~text\n")
	b.WriteString(result.Prompt)
	if !strings.HasSuffix(result.Prompt, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("~~~~\n")

	byteLabel := "bytes"
	if result.Bytes == 1 {
		byteLabel = "byte"
	}
	b.WriteString(fmt.Sprintf("\n---\n*%d %s", result.Bytes, byteLabel))
	if result.RunID != "" {
		b.WriteString(fmt.Sprintf(", run %s", result.RunID))
	}
	b.WriteString("*\n")

	return []byte(b.String()), nil
}
