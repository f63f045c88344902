// Package prompt assembles the Quick Fix prompt handed to the model. The
// builders are pure: they only read their inputs and return a fresh string,
// so they are safe to call from any goroutine.
package prompt

import (
	"fmt"
	"strings"

	"github.com/julianshen/quickfix/internal/idecontext"
)

// section writes one independently gated part of the context block. A
// section that has nothing to say writes nothing.
type section func(b *strings.Builder, c *idecontext.Context)

// contextSections run in order once a context is present.
var contextSections = []section{
	writePreamble,
	writePackage,
	writeActiveFile,
	writeInspections,
	writeHighlights,
}

// BuildContextSection renders the IDE context block. A nil context yields
// only the agent role (when agentPrompt is not blank) and the path-format
// advisory.
func BuildContextSection(c *idecontext.Context, agentPrompt string) string {
	var b strings.Builder

	if role := strings.TrimSpace(agentPrompt); role != "" {
		b.WriteString(agentRoleHeading)
		b.WriteString(role)
		b.WriteString(agentRoleFooter)
	}

	b.WriteString(pathFormatAdvisory)

	if c == nil {
		return b.String()
	}

	for _, write := range contextSections {
		write(&b, c)
	}
	return b.String()
}

// BuildQuickFixPrompt renders the context block without an agent role,
// followed by the Quick Fix instructions. userInstruction is embedded
// verbatim; quotes and fences are not escaped.
func BuildQuickFixPrompt(c *idecontext.Context, userInstruction string) string {
	var b strings.Builder
	b.WriteString(BuildContextSection(c, ""))
	b.WriteString(quickFixHeading)
	fmt.Fprintf(&b, "User's Request: \"%s\"\n\n", userInstruction)
	b.WriteString(quickFixTask)
	return b.String()
}

func writePreamble(b *strings.Builder, _ *idecontext.Context) {
	b.WriteString(contextPreamble)
}

func writePackage(b *strings.Builder, c *idecontext.Context) {
	if c.Package == "" {
		return
	}
	fmt.Fprintf(b, "**Package**: `%s`\n\n", c.Package)
}

func writeActiveFile(b *strings.Builder, c *idecontext.Context) {
	if !c.HasActive() {
		return
	}

	b.WriteString(activeFileHeading)
	fmt.Fprintf(b, "**File**: `%s`\n\n", c.Active)

	if s := c.Scope; s != nil {
		if s.Method != "" {
			fmt.Fprintf(b, "- **Method**: `%s`\n", s.Method)
			if s.MethodSignature != "" {
				fmt.Fprintf(b, "  - Signature: `%s`\n", s.MethodSignature)
			}
		}
		if s.Class != "" {
			fmt.Fprintf(b, "- **Class**: `%s`\n", s.Class)
		}
		b.WriteString("\n")
	}

	writeFocusedCode(b, c)

	if c.UsesLombok() {
		b.WriteString(lombokAdvisory)
	}

	if c.HasSelection() {
		sel := c.Selection
		fmt.Fprintf(b, "**User has selected lines %d-%d**. This is the focus:\n\n", sel.StartLine, sel.EndLine)
		b.WriteString(codeFenceOpenPlain)
		b.WriteString(sel.SelectedText)
		b.WriteString(codeFenceCloseBlock)
	}
}

// writeFocusedCode prefers the enclosing functions and falls back to the
// code window around the caret.
func writeFocusedCode(b *strings.Builder, c *idecontext.Context) {
	if len(c.SelectedFunctions) > 0 {
		b.WriteString(focusedCodeHeading)
		for _, fn := range c.SelectedFunctions {
			fmt.Fprintf(b, "#### Method: `%s`\n", fn.Name)
			fmt.Fprintf(b, "- **Location**: Lines %d-%d\n", fn.StartLine, fn.EndLine)
			b.WriteString(codeFenceOpenJava)
			b.WriteString(fn.Content)
			b.WriteString(codeFenceCloseBlock)
		}
		return
	}

	if w := c.CurrentWindow; w != nil && w.Content != "" {
		fmt.Fprintf(b, "#### Code View (Lines %d-%d)\n", w.StartLine, w.EndLine)
		b.WriteString(codeFenceOpenJava)
		b.WriteString(w.Content)
		b.WriteString(codeFenceCloseBlock)
	}
}

func writeInspections(b *strings.Builder, c *idecontext.Context) {
	if len(c.Inspections) == 0 {
		return
	}
	b.WriteString(inspectionsHeading)
	for _, in := range c.Inspections {
		fmt.Fprintf(b, "- %s (%s): %s\n", in.Inspection, in.Severity, in.Description)
	}
	b.WriteString("\n")
}

func writeHighlights(b *strings.Builder, c *idecontext.Context) {
	if len(c.Highlights) == 0 {
		return
	}
	b.WriteString(highlightsHeading)
	for _, hl := range c.Highlights {
		fmt.Fprintf(b, "- Line %d (%s): %s\n", hl.Line, hl.Severity, hl.Description)
	}
	b.WriteString("\n")
}
