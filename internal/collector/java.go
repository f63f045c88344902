package collector

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/julianshen/quickfix/internal/idecontext"
	"github.com/julianshen/quickfix/internal/parser"
)

func scopeOf(tree *parser.Tree, fnNode, clsNode *sitter.Node) *idecontext.Scope {
	var s idecontext.Scope
	if fn, ok := tree.FunctionAt(fnNode); ok {
		s.Method = fn.Name
		s.MethodSignature = fn.Signature
	}
	s.Class = tree.Name(clsNode)
	if s == (idecontext.Scope{}) {
		return nil
	}
	return &s
}

// collectJavaClass fills hierarchy, fields and annotations for the class
// declaration cls. Annotation names are qualified through the file's
// imports when possible so "@Data" with "import lombok.Data" reads as
// "lombok.Data".
func collectJavaClass(tree *parser.Tree, cls *sitter.Node, out *idecontext.Context) {
	h := &idecontext.ClassHierarchy{Class: tree.Name(cls)}
	if sc := cls.ChildByFieldName("superclass"); sc != nil {
		h.Superclass = strings.TrimSpace(strings.TrimPrefix(tree.Text(sc), "extends"))
	}
	if ifaces := cls.ChildByFieldName("interfaces"); ifaces != nil {
		h.Implements = typeNames(tree, ifaces)
	}
	out.ClassHierarchy = h

	imports := tree.Imports()
	if mods := childOfType(cls, "modifiers"); mods != nil {
		for _, name := range annotationNames(tree, mods) {
			out.Annotations = append(out.Annotations, qualify(name, imports))
		}
	}

	body := cls.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member == nil || member.Type() != "field_declaration" {
			continue
		}
		typ := tree.Text(member.ChildByFieldName("type"))
		mods := modifierWords(tree, childOfType(member, "modifiers"))
		for j := 0; j < int(member.NamedChildCount()); j++ {
			decl := member.NamedChild(j)
			if decl == nil || decl.Type() != "variable_declarator" {
				continue
			}
			out.Fields = append(out.Fields, idecontext.Field{
				Name:      tree.Name(decl),
				Type:      typ,
				Modifiers: mods,
			})
		}
	}
}

// typeNames lists the type identifiers under n (e.g. an implements clause).
func typeNames(tree *parser.Tree, n *sitter.Node) []string {
	var names []string
	var visit func(*sitter.Node)
	visit = func(node *sitter.Node) {
		switch node.Type() {
		case "type_identifier", "generic_type", "scoped_type_identifier":
			names = append(names, tree.Text(node))
			return
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child != nil {
				visit(child)
			}
		}
	}
	visit(n)
	return names
}

func annotationNames(tree *parser.Tree, mods *sitter.Node) []string {
	var names []string
	for i := 0; i < int(mods.NamedChildCount()); i++ {
		child := mods.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "marker_annotation", "annotation":
			if name := tree.Name(child); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// modifierWords returns the keyword modifiers (public, final, ...) without
// annotations.
func modifierWords(tree *parser.Tree, mods *sitter.Node) []string {
	if mods == nil {
		return nil
	}
	var words []string
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		words = append(words, tree.Text(child))
	}
	return words
}

func qualify(name string, imports []string) string {
	if strings.Contains(name, ".") {
		return name
	}
	for _, imp := range imports {
		if strings.HasSuffix(imp, "."+name) {
			return imp
		}
	}
	return name
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && child.Type() == typ {
			return child
		}
	}
	return nil
}
