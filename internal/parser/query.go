package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Position is a 1-based line and 1-based byte column.
type Position struct {
	Line   int
	Column int
}

// Comment is a comment node and the line it starts on.
type Comment struct {
	Line int
	Text string
}

// Call is an invocation expression.
type Call struct {
	Name     string
	Receiver string
	Line     int
}

// SyntaxError is an ERROR or missing node reported by the parser.
type SyntaxError struct {
	Line    int
	Message string
}

func (p Position) point() sitter.Point {
	row, col := p.Line-1, p.Column-1
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	return sitter.Point{Row: uint32(row), Column: uint32(col)}
}

// NodeAt returns the smallest named node covering pos.
func (t *Tree) NodeAt(pos Position) *sitter.Node {
	pt := pos.point()
	return t.RootNode().NamedDescendantForPointRange(pt, pt)
}

// EnclosingFunction returns the innermost function node containing pos, or
// nil.
func (t *Tree) EnclosingFunction(pos Position) *sitter.Node {
	return t.enclosing(pos, t.info.funcTypes)
}

// EnclosingClass returns the innermost class-like node containing pos, or
// nil.
func (t *Tree) EnclosingClass(pos Position) *sitter.Node {
	return t.enclosing(pos, t.info.classTypes)
}

func (t *Tree) enclosing(pos Position, types []string) *sitter.Node {
	for n := t.NodeAt(pos); n != nil; n = n.Parent() {
		if contains(types, n.Type()) {
			return n
		}
	}
	return nil
}

// Name returns the "name" field of n, or the empty string.
func (t *Tree) Name(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return t.Text(n.ChildByFieldName("name"))
}

// Package returns the declared package or module name, if the language has
// one.
func (t *Tree) Package() string {
	if t.info.packageType == "" {
		return ""
	}
	root := t.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n == nil || n.Type() != t.info.packageType {
			continue
		}
		for j := 0; j < int(n.NamedChildCount()); j++ {
			child := n.NamedChild(j)
			switch child.Type() {
			case "scoped_identifier", "identifier", "package_identifier":
				return child.Content(t.source)
			}
		}
	}
	return ""
}

// Comments returns all comments in source order.
func (t *Tree) Comments() []Comment {
	var out []Comment
	walk(t.RootNode(), func(n *sitter.Node) {
		if contains(t.info.commentTypes, n.Type()) {
			out = append(out, Comment{
				Line: int(n.StartPoint().Row) + 1,
				Text: strings.TrimSpace(n.Content(t.source)),
			})
		}
	})
	return out
}

// Calls returns invocations beneath n in source order.
func (t *Tree) Calls(n *sitter.Node) []Call {
	var out []Call
	walk(n, func(child *sitter.Node) {
		if !contains(t.info.callTypes, child.Type()) {
			return
		}
		call := Call{Line: int(child.StartPoint().Row) + 1}
		if name := child.ChildByFieldName("name"); name != nil {
			call.Name = t.Text(name)
			call.Receiver = t.Text(child.ChildByFieldName("object"))
		} else if fn := child.ChildByFieldName("function"); fn != nil {
			call.Name = t.Text(fn)
		} else if m := child.ChildByFieldName("method"); m != nil {
			call.Name = t.Text(m)
			call.Receiver = t.Text(child.ChildByFieldName("receiver"))
		}
		if call.Name != "" {
			out = append(out, call)
		}
	})
	return out
}

// SyntaxErrors lists ERROR and missing nodes. Nested ERROR nodes are
// reported once, at the outermost one.
func (t *Tree) SyntaxErrors() []SyntaxError {
	root := t.RootNode()
	if !root.HasError() {
		return nil
	}
	var out []SyntaxError
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil {
			return
		}
		line := int(n.StartPoint().Row) + 1
		switch {
		case n.IsMissing():
			out = append(out, SyntaxError{Line: line, Message: "missing " + n.Type()})
			return
		case n.Type() == "ERROR":
			out = append(out, SyntaxError{Line: line, Message: "unexpected " + summarize(n.Content(t.source))})
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
	return out
}

// summarize quotes the first line of text, shortened to 40 bytes.
func summarize(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return "'" + text + "'"
}
