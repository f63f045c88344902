// Package fix turns a model reply into an edit: it pulls the code block out
// of the reply, decides what part of the document the code replaces, and
// produces a line diff preview before the change is written.
package fix

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aryann/difflib"
)

// DefaultSnippetRatio is the size ratio below which a whole-file
// replacement is treated as a probable partial snippet.
const DefaultSnippetRatio = 0.3

// ErrNoCodeBlock is returned when a reply carries no usable fenced block.
var ErrNoCodeBlock = errors.New("no code block found in response")

// Longer tags come first so "javascript" is not read as "java" + "script".
var codeBlockRe = regexp.MustCompile("(?s)```(?:javascript|java|typescript|ts|js|html|css|python|py)?\\s*(.*?)```")

// ExtractCode returns the trimmed body of the first fenced code block in
// response.
func ExtractCode(response string) (string, bool) {
	m := codeBlockRe.FindStringSubmatch(response)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Span is a half-open byte range [Start, End) in a document.
type Span struct {
	Start int
	End   int
}

// LineSpan returns the span covering the 1-based, inclusive lines
// startLine..endLine of doc, without the final line's newline.
func LineSpan(doc string, startLine, endLine int) (Span, error) {
	lines := strings.SplitAfter(doc, "\n")
	if startLine < 1 || endLine < startLine || endLine > len(lines) {
		return Span{}, fmt.Errorf("line range %d-%d outside document of %d lines", startLine, endLine, len(lines))
	}
	var sp Span
	offset := 0
	for i, line := range lines {
		n := i + 1
		if n == startLine {
			sp.Start = offset
		}
		if n == endLine {
			sp.End = offset + len(strings.TrimSuffix(line, "\n"))
			break
		}
		offset += len(line)
	}
	return sp, nil
}

// Target is the region of a document a fix replaces.
type Target struct {
	Span
	// Old is the text currently in the span.
	Old string
	// Whole is true when the span covers the entire document.
	Whole bool
	// Ratio overrides DefaultSnippetRatio when positive.
	Ratio float64
}

// PlanTarget picks the selection when sel is non-nil and the whole document
// otherwise. Out-of-range selections are clamped to the document.
func PlanTarget(doc string, sel *Span) Target {
	if sel == nil {
		return Target{Span: Span{0, len(doc)}, Old: doc, Whole: true}
	}
	sp := *sel
	sp.Start = min(max(sp.Start, 0), len(doc))
	sp.End = min(max(sp.End, sp.Start), len(doc))
	return Target{
		Span:  sp,
		Old:   doc[sp.Start:sp.End],
		Whole: sp.Start == 0 && sp.End == len(doc),
	}
}

// SuspiciousSnippet reports whether replacing the whole document with
// newCode would likely discard most of the file.
func (t Target) SuspiciousSnippet(newCode string) bool {
	if !t.Whole {
		return false
	}
	ratio := t.Ratio
	if ratio <= 0 {
		ratio = DefaultSnippetRatio
	}
	return float64(len(newCode)) < float64(len(t.Old))*ratio
}

// Label describes the target for a confirmation prompt.
func (t Target) Label(fileName string) string {
	if t.Whole {
		return "to " + fileName
	}
	return "to the selection"
}

// Apply returns doc with the target span replaced by newCode.
func Apply(doc string, t Target, newCode string) string {
	start := min(max(t.Start, 0), len(doc))
	end := min(max(t.End, start), len(doc))
	return doc[:start] + newCode + doc[end:]
}

// Preview renders a line diff of before against after. Removed lines start
// with "-", added lines with "+", unchanged lines with a space.
func Preview(before, after string) string {
	var b strings.Builder
	for _, rec := range difflib.Diff(splitLines(before), splitLines(after)) {
		switch rec.Delta {
		case difflib.LeftOnly:
			b.WriteString("-")
		case difflib.RightOnly:
			b.WriteString("+")
		default:
			b.WriteString(" ")
		}
		b.WriteString(rec.Payload)
		b.WriteString("\n")
	}
	return b.String()
}

// Changed counts the added and removed lines between before and after.
func Changed(before, after string) (added, removed int) {
	for _, rec := range difflib.Diff(splitLines(before), splitLines(after)) {
		switch rec.Delta {
		case difflib.LeftOnly:
			removed++
		case difflib.RightOnly:
			added++
		}
	}
	return added, removed
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
