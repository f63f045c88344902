// Package parser provides tree-sitter-based source parsing with language
// detection from file extensions. Beyond listing functions and imports it
// answers positional questions (which function or class encloses a caret,
// which comments sit nearby, where the syntax errors are) that the context
// collector turns into IDE context.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// FunctionDef is a function or method definition found in source code.
type FunctionDef struct {
	Name      string
	Signature string
	StartLine int
	EndLine   int
	Content   string
}

// langInfo holds the node types that carry meaning for one language.
type langInfo struct {
	name          string
	lang          *sitter.Language
	funcTypes     []string
	importTypes   []string
	classTypes    []string
	commentTypes  []string
	callTypes     []string
	packageType   string
	bodyFieldName string
}

var (
	javaInfo = langInfo{
		name:          "java",
		lang:          java.GetLanguage(),
		funcTypes:     []string{"method_declaration", "constructor_declaration"},
		importTypes:   []string{"import_declaration"},
		classTypes:    []string{"class_declaration", "interface_declaration", "enum_declaration", "record_declaration"},
		commentTypes:  []string{"line_comment", "block_comment", "comment"},
		callTypes:     []string{"method_invocation"},
		packageType:   "package_declaration",
		bodyFieldName: "body",
	}
	goInfo = langInfo{
		name:          "go",
		lang:          golang.GetLanguage(),
		funcTypes:     []string{"function_declaration", "method_declaration"},
		importTypes:   []string{"import_declaration"},
		classTypes:    []string{"type_spec"},
		commentTypes:  []string{"comment"},
		callTypes:     []string{"call_expression"},
		packageType:   "package_clause",
		bodyFieldName: "body",
	}
	pythonInfo = langInfo{
		name:          "python",
		lang:          python.GetLanguage(),
		funcTypes:     []string{"function_definition"},
		importTypes:   []string{"import_statement", "import_from_statement"},
		classTypes:    []string{"class_definition"},
		commentTypes:  []string{"comment"},
		callTypes:     []string{"call"},
		bodyFieldName: "body",
	}
	javascriptInfo = langInfo{
		name:          "javascript",
		lang:          javascript.GetLanguage(),
		funcTypes:     []string{"function_declaration", "method_definition"},
		importTypes:   []string{"import_statement"},
		classTypes:    []string{"class_declaration"},
		commentTypes:  []string{"comment"},
		callTypes:     []string{"call_expression"},
		bodyFieldName: "body",
	}
	typescriptInfo = langInfo{
		name:          "typescript",
		lang:          typescript.GetLanguage(),
		funcTypes:     []string{"function_declaration", "method_definition"},
		importTypes:   []string{"import_statement"},
		classTypes:    []string{"class_declaration", "interface_declaration"},
		commentTypes:  []string{"comment"},
		callTypes:     []string{"call_expression"},
		bodyFieldName: "body",
	}
	rustInfo = langInfo{
		name:          "rust",
		lang:          rust.GetLanguage(),
		funcTypes:     []string{"function_item"},
		importTypes:   []string{"use_declaration"},
		classTypes:    []string{"struct_item", "impl_item", "trait_item"},
		commentTypes:  []string{"line_comment", "block_comment"},
		callTypes:     []string{"call_expression"},
		bodyFieldName: "body",
	}
	rubyInfo = langInfo{
		name:         "ruby",
		lang:         ruby.GetLanguage(),
		funcTypes:    []string{"method"},
		importTypes:  []string{"call"}, // require/require_relative calls
		classTypes:   []string{"class", "module"},
		commentTypes: []string{"comment"},
		callTypes:    []string{"call"},
	}
	cInfo = langInfo{
		name:          "c",
		lang:          c.GetLanguage(),
		funcTypes:     []string{"function_definition"},
		importTypes:   []string{"preproc_include"},
		classTypes:    []string{"struct_specifier"},
		commentTypes:  []string{"comment"},
		callTypes:     []string{"call_expression"},
		bodyFieldName: "body",
	}
	cppInfo = langInfo{
		name:          "cpp",
		lang:          cpp.GetLanguage(),
		funcTypes:     []string{"function_definition"},
		importTypes:   []string{"preproc_include"},
		classTypes:    []string{"class_specifier", "struct_specifier"},
		commentTypes:  []string{"comment"},
		callTypes:     []string{"call_expression"},
		bodyFieldName: "body",
	}
)

// registry maps file extensions to language info for auto-detection.
var registry = map[string]langInfo{
	".java": javaInfo,
	".go":   goInfo,
	".py":   pythonInfo,
	".js":   javascriptInfo,
	".jsx":  javascriptInfo,
	".ts":   typescriptInfo,
	".rs":   rustInfo,
	".rb":   rubyInfo,
	".c":    cInfo,
	".h":    cInfo,
	".cc":   cppInfo,
	".cpp":  cppInfo,
}

// Supported reports whether the file's extension has a registered grammar.
func Supported(filename string) bool {
	_, ok := registry[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Parser wraps a tree-sitter parser. A Parser is not safe for concurrent
// use; create one per goroutine.
type Parser struct {
	inner *sitter.Parser
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{inner: sitter.NewParser()}
}

// Parse parses source code, detecting the language from the filename.
// Returns an error for unsupported extensions.
func (p *Parser) Parse(ctx context.Context, filename string, source []byte) (*Tree, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	info, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q: language not in registry", ext)
	}

	p.inner.SetLanguage(info.lang)
	st, err := p.inner.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return &Tree{tree: st, source: source, info: info}, nil
}

// Tree is a parsed syntax tree plus the source it was parsed from.
type Tree struct {
	tree   *sitter.Tree
	source []byte
	info   langInfo
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// Language returns the registry name of the tree's language.
func (t *Tree) Language() string {
	return t.info.name
}

// RootNode returns the root node of the parsed syntax tree.
func (t *Tree) RootNode() *sitter.Node {
	return t.tree.RootNode()
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// Text returns the source text covered by n.
func (t *Tree) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(t.source)
}

// Functions extracts all function and method definitions in source order.
func (t *Tree) Functions() []FunctionDef {
	var funcs []FunctionDef
	walk(t.RootNode(), func(n *sitter.Node) {
		if !contains(t.info.funcTypes, n.Type()) {
			return
		}
		if fn, ok := t.FunctionAt(n); ok {
			funcs = append(funcs, fn)
		}
	})
	return funcs
}

// FunctionAt describes a function node. It reports false when n is not a
// function or carries no name.
func (t *Tree) FunctionAt(n *sitter.Node) (FunctionDef, bool) {
	if n == nil || !contains(t.info.funcTypes, n.Type()) {
		return FunctionDef{}, false
	}
	name := funcName(n, t.source)
	if name == "" {
		return FunctionDef{}, false
	}
	return FunctionDef{
		Name:      name,
		Signature: t.signature(n),
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		Content:   n.Content(t.source),
	}, true
}

// signature returns the declaration text up to the body, collapsed to a
// single line.
func (t *Tree) signature(n *sitter.Node) string {
	end := n.EndByte()
	if t.info.bodyFieldName != "" {
		if body := n.ChildByFieldName(t.info.bodyFieldName); body != nil {
			end = body.StartByte()
		}
	}
	start := n.StartByte()
	if mods := firstChildOfType(n, "modifiers"); mods != nil {
		start = mods.EndByte()
	}
	if end <= start {
		return ""
	}
	text := string(t.source[start:end])
	return strings.Join(strings.Fields(text), " ")
}

// Imports extracts import paths and module names.
func (t *Tree) Imports() []string {
	var imports []string
	walk(t.RootNode(), func(n *sitter.Node) {
		if !contains(t.info.importTypes, n.Type()) {
			return
		}
		imports = append(imports, importPaths(n, t.source)...)
	})
	return imports
}

// walk performs a depth-first traversal, calling fn for each node.
func walk(n *sitter.Node, fn func(*sitter.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func firstChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && child.Type() == typ {
			return child
		}
	}
	return nil
}

// funcName finds the name identifier of a function node. The "name" field
// covers most grammars; C and C++ nest it inside declarators.
func funcName(n *sitter.Node, source []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(source)
	}
	decl := n.ChildByFieldName("declarator")
	for decl != nil {
		inner := decl.ChildByFieldName("declarator")
		if inner == nil {
			return decl.Content(source)
		}
		decl = inner
	}
	return ""
}

func importPaths(n *sitter.Node, source []byte) []string {
	text := n.Content(source)
	switch n.Type() {
	case "import_declaration":
		return declaredImports(n, source)
	case "import_statement":
		return genericImports(text)
	case "import_from_statement":
		module := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(text, "from "), " import ", 2)[0])
		if module == "" {
			return nil
		}
		return []string{module}
	case "use_declaration":
		if s := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "use "), ";")); s != "" {
			return []string{s}
		}
		return nil
	case "preproc_include":
		if s := strings.Trim(strings.TrimSpace(strings.TrimPrefix(text, "#include")), "<>\" "); s != "" {
			return []string{s}
		}
		return nil
	case "call":
		for _, prefix := range []string{"require_relative ", "require "} {
			if strings.HasPrefix(text, prefix) {
				if s := cleanImport(strings.TrimPrefix(text, prefix)); s != "" {
					return []string{s}
				}
			}
		}
		return nil
	default:
		return []string{cleanImport(text)}
	}
}

// declaredImports handles Go and Java import declarations.
func declaredImports(n *sitter.Node, source []byte) []string {
	var paths []string
	seen := make(map[string]bool)
	walk(n, func(child *sitter.Node) {
		var content string
		switch child.Type() {
		case "interpreted_string_literal":
			content = cleanImport(child.Content(source))
		case "scoped_identifier":
			// Only the outermost identifier of java.util.List.
			if p := child.Parent(); p != nil && p.Type() == "scoped_identifier" {
				return
			}
			content = child.Content(source)
			if asterisk := firstChildOfType(n, "asterisk"); asterisk != nil {
				content += ".*"
			}
		default:
			return
		}
		if content != "" && !seen[content] {
			seen[content] = true
			paths = append(paths, content)
		}
	})
	return paths
}

// genericImports handles Python "import x, y" and JS/TS "import ... from 'x'".
func genericImports(text string) []string {
	if parts := strings.SplitN(text, " from ", 2); len(parts) == 2 {
		return []string{cleanImport(parts[1])}
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "import "))
	var result []string
	for _, p := range strings.Split(text, ",") {
		if idx := strings.Index(p, " as "); idx >= 0 {
			p = p[:idx]
		}
		if p = cleanImport(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func cleanImport(text string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(text), "\"'`();"))
}
