// Package collector derives an IDE context from a source file and a caret or
// selection, the way an editor plugin would before asking for a Quick Fix.
// Each facet is collected independently: a facet that panics on an odd
// syntax tree is logged and skipped while the rest still land.
package collector

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"

	"github.com/julianshen/quickfix/internal/idecontext"
	"github.com/julianshen/quickfix/internal/parser"
)

// Defaults used when Options fields are zero.
const (
	DefaultWindowLines  = 40
	DefaultCommentLimit = 3
)

// Options tunes how much surrounding code is collected.
type Options struct {
	// WindowLines is how many lines above and below the caret make up the
	// code window when no enclosing function is found.
	WindowLines int
	// CommentLimit caps the comments kept on each side of the caret.
	CommentLimit int
}

// Range is an inclusive, 1-based line range.
type Range struct {
	StartLine int
	EndLine   int
}

// Request identifies the file and the user's position in it.
type Request struct {
	Path      string
	Source    []byte
	Caret     parser.Position
	Selection *Range
}

// Collector builds idecontext.Context values from source files.
type Collector struct {
	opts Options
}

// New returns a Collector, filling zero options with defaults.
func New(opts Options) *Collector {
	if opts.WindowLines <= 0 {
		opts.WindowLines = DefaultWindowLines
	}
	if opts.CommentLimit <= 0 {
		opts.CommentLimit = DefaultCommentLimit
	}
	return &Collector{opts: opts}
}

// Collect returns the context for req. It never fails: facets that cannot
// be computed are left empty.
func (c *Collector) Collect(ctx context.Context, req Request) *idecontext.Context {
	out := &idecontext.Context{Active: absPath(req.Path)}
	lines := strings.Split(string(req.Source), "\n")

	caret := req.Caret
	if req.Selection != nil {
		sel := clampRange(*req.Selection, len(lines))
		req.Selection = &sel
		if caret.Line <= 0 {
			caret = parser.Position{Line: sel.StartLine, Column: 1}
		}
	}
	if caret.Line <= 0 {
		caret.Line = 1
	}
	if caret.Column <= 0 {
		caret.Column = 1
	}

	c.facet("selection", func() {
		if req.Selection != nil {
			out.Selection = selectionOf(lines, *req.Selection)
		}
	})

	if !parser.Supported(req.Path) {
		c.facet("window", func() { out.CurrentWindow = c.window(lines, caret.Line) })
		return out
	}

	tree, err := parser.NewParser().Parse(ctx, req.Path, req.Source)
	if err != nil {
		log.Debug().Err(err).Str("path", req.Path).Msg("parse failed, collecting plain window")
		c.facet("window", func() { out.CurrentWindow = c.window(lines, caret.Line) })
		return out
	}
	defer tree.Close()

	fnNode := tree.EnclosingFunction(caret)
	clsNode := tree.EnclosingClass(caret)

	// The selection start picks the focused function; scope follows the caret.
	focusNode := fnNode
	if req.Selection != nil {
		focusNode = tree.EnclosingFunction(firstCodeColumn(lines, req.Selection.StartLine))
	}

	c.facet("scope", func() { out.Scope = scopeOf(tree, fnNode, clsNode) })
	c.facet("imports", func() { out.Imports = tree.Imports() })
	c.facet("package", func() { out.Package = tree.Package() })
	c.facet("class", func() {
		if tree.Language() == "java" && clsNode != nil {
			collectJavaClass(tree, clsNode, out)
		}
	})
	c.facet("methodCalls", func() {
		if fnNode == nil {
			return
		}
		for _, call := range tree.Calls(fnNode) {
			out.MethodCalls = append(out.MethodCalls, idecontext.MethodCall{
				Name:     call.Name,
				Receiver: call.Receiver,
				Line:     call.Line,
			})
		}
	})
	c.facet("comments", func() { out.Comments = c.nearbyComments(tree.Comments(), caret.Line) })
	c.facet("errors", func() {
		for _, e := range tree.SyntaxErrors() {
			out.Errors = append(out.Errors, idecontext.SyntaxError{Line: e.Line, Message: e.Message})
		}
	})
	c.facet("focus", func() {
		if fn, ok := tree.FunctionAt(focusNode); ok {
			out.SelectedFunctions = []idecontext.Function{{
				Name:      fn.Name,
				Signature: fn.Signature,
				IsPrimary: true,
				StartLine: fn.StartLine,
				EndLine:   fn.EndLine,
				Content:   fn.Content,
			}}
			return
		}
		out.CurrentWindow = c.window(lines, caret.Line)
	})

	return out
}

// facet runs fn, logging and swallowing any panic.
func (c *Collector) facet(name string, fn func()) {
	var pc panics.Catcher
	pc.Try(fn)
	if r := pc.Recovered(); r != nil {
		log.Debug().Str("facet", name).Err(r.AsError()).Msg("context facet failed")
	}
}

// window returns WindowLines lines either side of the caret line.
func (c *Collector) window(lines []string, caretLine int) *idecontext.CodeWindow {
	if len(lines) == 0 {
		return nil
	}
	cursor := caretLine - 1
	start := max(0, cursor-c.opts.WindowLines)
	end := min(len(lines)-1, cursor+c.opts.WindowLines)
	if start > end {
		return nil
	}
	return &idecontext.CodeWindow{
		StartLine: start + 1,
		EndLine:   end + 1,
		Content:   strings.Join(lines[start:end+1], "\n"),
	}
}

// nearbyComments keeps the closest comments before and after the caret
// line, within the code window distance.
func (c *Collector) nearbyComments(all []parser.Comment, caretLine int) *idecontext.Comments {
	var before, after []string
	for i := len(all) - 1; i >= 0 && len(before) < c.opts.CommentLimit; i-- {
		cm := all[i]
		if cm.Line < caretLine && caretLine-cm.Line <= c.opts.WindowLines {
			before = append([]string{cm.Text}, before...)
		}
	}
	for _, cm := range all {
		if len(after) >= c.opts.CommentLimit {
			break
		}
		if cm.Line > caretLine && cm.Line-caretLine <= c.opts.WindowLines {
			after = append(after, cm.Text)
		}
	}
	if len(before) == 0 && len(after) == 0 {
		return nil
	}
	return &idecontext.Comments{Before: before, After: after}
}

func selectionOf(lines []string, r Range) *idecontext.Selection {
	if r.StartLine > r.EndLine {
		return nil
	}
	return &idecontext.Selection{
		StartLine:    r.StartLine,
		EndLine:      r.EndLine,
		SelectedText: strings.Join(lines[r.StartLine-1:r.EndLine], "\n"),
	}
}

// firstCodeColumn positions at the first non-blank character of line.
func firstCodeColumn(lines []string, line int) parser.Position {
	col := 1
	if line >= 1 && line <= len(lines) {
		text := lines[line-1]
		col += len(text) - len(strings.TrimLeft(text, " \t"))
	}
	return parser.Position{Line: line, Column: col}
}

func clampRange(r Range, total int) Range {
	if r.StartLine < 1 {
		r.StartLine = 1
	}
	if r.EndLine > total {
		r.EndLine = total
	}
	return r
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
