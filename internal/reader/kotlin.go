package reader

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/benedekh/binary-compatibility-validator/internal/filters"
)

// ReadSource extracts the publicly visible declarations from one Kotlin file.
// Private and internal declarations are skipped, filter rules are applied to
// everything else.
func (r *Reader) ReadSource(filename string, content []byte, f *filters.Filters) ([]Declaration, error) {
	tree, err := r.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	packageName := extractPackageName(root, content)

	var decls []Declaration
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if decl, ok := r.extractDeclaration(child, content, packageName, f, true); ok {
			decls = append(decls, decl)
		}
	}
	return decls, nil
}

func extractPackageName(root *sitter.Node, content []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "package_header" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			part := child.Child(j)
			if part.Type() == "identifier" || part.Type() == "qualified_identifier" {
				return strings.TrimSpace(part.Content(content))
			}
		}
	}
	return ""
}

// extractDeclaration turns one ABI-relevant node into a Declaration. topLevel
// selects the fully qualified pkg/Name rendering for classes and objects.
func (r *Reader) extractDeclaration(node *sitter.Node, content []byte, packageName string, f *filters.Filters, topLevel bool) (Declaration, bool) {
	switch node.Type() {
	case "class_declaration", "object_declaration":
		return r.extractClassLike(node, content, packageName, f, topLevel)
	case "function_declaration":
		return r.extractFunction(node, content, f)
	case "property_declaration":
		return r.extractProperty(node, content, f)
	case "secondary_constructor":
		if !isPublic(node, content) || f.Excludes("", "", nodeAnnotations(node, content)) {
			return Declaration{}, false
		}
		return Declaration{Signature: "constructor" + parameterList(node, content)}, true
	}
	return Declaration{}, false
}

func (r *Reader) extractClassLike(node *sitter.Node, content []byte, packageName string, f *filters.Filters, topLevel bool) (Declaration, bool) {
	name := declarationName(node, content)
	if name == "" || !isPublic(node, content) {
		return Declaration{}, false
	}
	if f.Excludes(packageName, name, nodeAnnotations(node, content)) {
		return Declaration{}, false
	}

	keyword := "class"
	switch {
	case node.Type() == "object_declaration":
		keyword = "object"
	case hasKeyword(node, "interface"):
		keyword = "interface"
	case hasKeyword(node, "enum"):
		keyword = "enum class"
	}

	qualified := name
	if topLevel && packageName != "" {
		qualified = packageName + "/" + name
	}

	signature := keyword + " " + qualified
	if modifiers := abiModifiers(node, content); modifiers != "" {
		signature = modifiers + " " + signature
	}

	decl := Declaration{Signature: signature}
	if body := childOfType(node, "class_body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			if member, ok := r.extractDeclaration(body.Child(i), content, packageName, f, false); ok {
				decl.Children = append(decl.Children, member)
			}
		}
	}
	return decl, true
}

func (r *Reader) extractFunction(node *sitter.Node, content []byte, f *filters.Filters) (Declaration, bool) {
	name := declarationName(node, content)
	if name == "" || !isPublic(node, content) {
		return Declaration{}, false
	}
	if f.Excludes("", "", nodeAnnotations(node, content)) {
		return Declaration{}, false
	}

	signature := "fun " + name + parameterList(node, content)
	if returnType := typeAfterColon(node, content); returnType != "" {
		signature += ": " + returnType
	}
	return Declaration{Signature: signature}, true
}

func (r *Reader) extractProperty(node *sitter.Node, content []byte, f *filters.Filters) (Declaration, bool) {
	if !isPublic(node, content) || f.Excludes("", "", nodeAnnotations(node, content)) {
		return Declaration{}, false
	}

	binding := "val"
	if hasKeyword(node, "var") {
		binding = "var"
	}

	variable := childOfType(node, "variable_declaration")
	if variable == nil {
		return Declaration{}, false
	}
	name := declarationName(variable, content)
	if name == "" {
		return Declaration{}, false
	}

	signature := binding + " " + name
	if propType := typeAfterColon(variable, content); propType != "" {
		signature += ": " + propType
	}
	return Declaration{Signature: signature}, true
}

// declarationName finds the declared identifier, tolerating both the
// type_identifier and simple_identifier spellings the grammar uses.
func declarationName(node *sitter.Node, content []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return strings.TrimSpace(nameNode.Content(content))
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "type_identifier" || child.Type() == "simple_identifier" {
			return strings.TrimSpace(child.Content(content))
		}
	}
	return ""
}

// isPublic treats missing visibility as public; protected members stay in the
// ABI because subclasses can reach them.
func isPublic(node *sitter.Node, content []byte) bool {
	modifiers := childOfType(node, "modifiers")
	if modifiers == nil {
		return true
	}
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(i)
		if child.Type() != "visibility_modifier" {
			continue
		}
		switch strings.TrimSpace(child.Content(content)) {
		case "private", "internal":
			return false
		}
	}
	return true
}

// abiModifiers collects the class modifiers that change the binary surface.
func abiModifiers(node *sitter.Node, content []byte) string {
	modifiers := childOfType(node, "modifiers")
	if modifiers == nil {
		return ""
	}
	var kept []string
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		word := strings.TrimSpace(modifiers.Child(i).Content(content))
		switch word {
		case "abstract", "sealed", "open":
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

func nodeAnnotations(node *sitter.Node, content []byte) []string {
	modifiers := childOfType(node, "modifiers")
	if modifiers == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(i)
		if child.Type() != "annotation" {
			continue
		}
		text := strings.TrimPrefix(strings.TrimSpace(child.Content(content)), "@")
		if idx := strings.IndexByte(text, '('); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text != "" {
			out = append(out, text)
			// Marker lists may use fully qualified names.
			if idx := strings.LastIndexByte(text, '.'); idx >= 0 {
				out = append(out, text[idx+1:])
			}
		}
	}
	return out
}

func parameterList(node *sitter.Node, content []byte) string {
	if params := childOfType(node, "function_value_parameters"); params != nil {
		return collapseWhitespace(params.Content(content))
	}
	return "()"
}

// typeAfterColon returns the declared type following the node's ":" token.
func typeAfterColon(node *sitter.Node, content []byte) string {
	sawColon := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == ":" {
			sawColon = true
			continue
		}
		if sawColon {
			return collapseWhitespace(child.Content(content))
		}
	}
	return ""
}

// collapseWhitespace folds runs of whitespace to single spaces and drops the
// padding inside parentheses, so a signature stays on one dump line and does
// not depend on how the source was wrapped.
func collapseWhitespace(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "( ", "(")
	text = strings.ReplaceAll(text, " )", ")")
	text = strings.ReplaceAll(text, ",)", ")")
	return text
}

func hasKeyword(node *sitter.Node, keyword string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == keyword {
			return true
		}
	}
	return false
}

func childOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}
