// Package idecontext models the editor snapshot an IDE integration sends
// along with a Quick Fix request. Every field is optional: an absent field
// means the corresponding prompt section is omitted.
package idecontext

import (
	"encoding/json"
	"strings"
)

// Context is the IDE snapshot. Field names on the wire follow the IDE
// integration's camelCase keys.
type Context struct {
	Active    string     `json:"active,omitempty"`
	Selection *Selection `json:"selection,omitempty"`
	Others    []string   `json:"others,omitempty"`
	Scope     *Scope     `json:"scope,omitempty"`
	Package   string     `json:"package,omitempty"`

	Annotations Strings      `json:"annotations,omitempty"`
	Inspections []Inspection `json:"inspections,omitempty"`
	Highlights  []Highlight  `json:"highlights,omitempty"`

	SelectedFunctions []Function  `json:"selectedFunctions,omitempty"`
	CurrentWindow     *CodeWindow `json:"currentWindow,omitempty"`

	// Collected but not rendered into prompts.
	ClassHierarchy *ClassHierarchy `json:"classHierarchy,omitempty"`
	Fields         []Field         `json:"fields,omitempty"`
	MethodCalls    []MethodCall    `json:"methodCalls,omitempty"`
	Imports        Strings         `json:"imports,omitempty"`
	Errors         []SyntaxError   `json:"errors,omitempty"`
	Comments       *Comments       `json:"comments,omitempty"`

	References        json.RawMessage `json:"references,omitempty"`
	QuickFixes        json.RawMessage `json:"quickFixes,omitempty"`
	InjectedLanguages json.RawMessage `json:"injectedLanguages,omitempty"`
}

// Selection is the user's current text selection. Lines are 1-based.
type Selection struct {
	StartLine    int    `json:"startLine"`
	EndLine      int    `json:"endLine"`
	SelectedText string `json:"selectedText"`
}

// Scope is the method and class enclosing the caret.
type Scope struct {
	Method          string `json:"method,omitempty"`
	MethodSignature string `json:"methodSignature,omitempty"`
	Class           string `json:"class,omitempty"`
}

// Inspection is a diagnostic reported by an IDE inspection.
type Inspection struct {
	Inspection  string `json:"inspection"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Line        int    `json:"line,omitempty"`
}

// Highlight is an editor highlight (error stripe entry) near the caret.
type Highlight struct {
	Line        int    `json:"line"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	ToolTip     string `json:"toolTip,omitempty"`
}

// Function is a focused method with its full source text.
type Function struct {
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Content   string `json:"content"`
}

// CodeWindow is a slice of the active file around the caret, used when no
// enclosing function could be found.
type CodeWindow struct {
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Content   string `json:"content"`
}

// ClassHierarchy describes the enclosing class.
type ClassHierarchy struct {
	Class      string   `json:"class,omitempty"`
	Superclass string   `json:"superclass,omitempty"`
	Implements []string `json:"implements,omitempty"`
}

// Field is a member variable of the enclosing class.
type Field struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// MethodCall is an invocation found inside the enclosing method.
type MethodCall struct {
	Name     string `json:"name"`
	Receiver string `json:"receiver,omitempty"`
	Line     int    `json:"line"`
}

// SyntaxError is a parse error reported for the active file.
type SyntaxError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Comments holds the comments nearest to the caret line.
type Comments struct {
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

// Strings is a list that keeps only string entries when decoded, so a
// payload like ["lombok.Data", 3, null] yields ["lombok.Data"].
type Strings []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Strings) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Strings, 0, len(raw))
	for _, item := range raw {
		var v string
		if err := json.Unmarshal(item, &v); err == nil {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

// HasActive reports whether the active file path is present and not blank.
func (c *Context) HasActive() bool {
	return c != nil && strings.TrimSpace(c.Active) != ""
}

// HasSelection reports whether the selection carries any text.
func (c *Context) HasSelection() bool {
	return c != nil && c.Selection != nil && c.Selection.SelectedText != ""
}

// UsesLombok reports whether any annotation mentions Lombok.
func (c *Context) UsesLombok() bool {
	if c == nil {
		return false
	}
	for _, a := range c.Annotations {
		if strings.Contains(strings.ToLower(a), "lombok") {
			return true
		}
	}
	return false
}

// Encode returns the context as indented JSON.
func (c *Context) Encode() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
