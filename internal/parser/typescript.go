// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package parser reads generated TypeScript with tree-sitter.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// DeclarationKind identifies a top-level TypeScript declaration.
type DeclarationKind string

const (
	KindInterface DeclarationKind = "interface"
	KindTypeAlias DeclarationKind = "type"
	KindEnum      DeclarationKind = "enum"
	KindClass     DeclarationKind = "class"
)

var declarationKinds = map[string]DeclarationKind{
	"interface_declaration":      KindInterface,
	"type_alias_declaration":     KindTypeAlias,
	"enum_declaration":           KindEnum,
	"class_declaration":          KindClass,
	"abstract_class_declaration": KindClass,
}

// TypeScriptParser parses TypeScript source using tree-sitter.
type TypeScriptParser struct {
	parser *sitter.Parser
}

// NewTypeScriptParser creates a new TypeScript parser.
func NewTypeScriptParser() *TypeScriptParser {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	return &TypeScriptParser{
		parser: parser,
	}
}

// ParsedTSFile represents a parsed TypeScript source file.
type ParsedTSFile struct {
	// Path is the file path
	Path string

	// Content is the original source content
	Content []byte

	// Tree is the tree-sitter parse tree
	Tree *sitter.Tree

	// RootNode is the root node of the AST
	RootNode *sitter.Node

	// Declarations are the top-level declarations in source order
	Declarations []Declaration
}

// Declaration is a top-level interface, type alias, enum or class.
type Declaration struct {
	Name       string
	Kind       DeclarationKind
	Exported   bool
	Line       int
	Properties []Property
}

// Property is a member of an interface or object type literal.
type Property struct {
	Name     string
	Type     string
	Optional bool
	Readonly bool
}

// Parse parses TypeScript source code from bytes.
func (p *TypeScriptParser) Parse(filename string, content []byte) (*ParsedTSFile, error) {
	return p.ParseContext(context.Background(), filename, content)
}

// ParseContext is Parse with a caller supplied context.
func (p *TypeScriptParser) ParseContext(ctx context.Context, filename string, content []byte) (*ParsedTSFile, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TypeScript: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		tree.Close()
		return nil, fmt.Errorf("failed to get root node")
	}

	pf := &ParsedTSFile{
		Path:     filename,
		Content:  content,
		Tree:     tree,
		RootNode: rootNode,
	}
	pf.Declarations = p.extractDeclarations(rootNode, content)
	return pf, nil
}

// extractDeclarations walks the program's direct children. Nested namespaces are ignored.
func (p *TypeScriptParser) extractDeclarations(root *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(i)
		exported := false
		if node.Type() == "export_statement" {
			node = exportedDeclaration(node)
			if node == nil {
				continue
			}
			exported = true
		}
		kind, ok := declarationKinds[node.Type()]
		if !ok {
			continue
		}
		decl := p.parseDeclaration(node, content)
		decl.Kind = kind
		decl.Exported = exported
		if decl.Name != "" {
			decls = append(decls, decl)
		}
	}
	return decls
}

func exportedDeclaration(node *sitter.Node) *sitter.Node {
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		return decl
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if _, ok := declarationKinds[node.Child(i).Type()]; ok {
			return node.Child(i)
		}
	}
	return nil
}

func (p *TypeScriptParser) parseDeclaration(node *sitter.Node, content []byte) Declaration {
	decl := Declaration{Line: int(node.StartPoint().Row) + 1}
	if name := node.ChildByFieldName("name"); name != nil {
		decl.Name = name.Content(content)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier", "identifier":
			if decl.Name == "" {
				decl.Name = child.Content(content)
			}
		case "object_type", "interface_body":
			decl.Properties = p.extractObjectProperties(child, content)
		}
	}
	return decl
}

// extractObjectProperties extracts properties from an object_type or interface_body node.
func (p *TypeScriptParser) extractObjectProperties(node *sitter.Node, content []byte) []Property {
	var properties []Property

	p.walkNodes(node, func(n *sitter.Node) bool {
		if n.Type() == "property_signature" {
			properties = append(properties, p.parsePropertySignature(n, content))
			return false
		}
		return true
	})

	return properties
}

func (p *TypeScriptParser) parsePropertySignature(node *sitter.Node, content []byte) Property {
	var prop Property

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "property_identifier", "string":
			prop.Name = child.Content(content)
		case "?":
			prop.Optional = true
		case "readonly":
			prop.Readonly = true
		case "type_annotation":
			// skip the ':'
			if child.ChildCount() > 1 {
				prop.Type = child.Child(1).Content(content)
			}
		}
	}

	return prop
}

// walkNodes walks all nodes in the tree, calling fn for each node.
// If fn returns false, it stops recursing into that node's children.
func (p *TypeScriptParser) walkNodes(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !fn(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.walkNodes(node.Child(i), fn)
	}
}

// Close cleans up parser resources.
func (p *TypeScriptParser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Exported returns the names of exported declarations in source order.
func (pf *ParsedTSFile) Exported() []string {
	var names []string
	for _, d := range pf.Declarations {
		if d.Exported {
			names = append(names, d.Name)
		}
	}
	return names
}

// Declaration returns the named declaration, or nil.
func (pf *ParsedTSFile) Declaration(name string) *Declaration {
	for i := range pf.Declarations {
		if pf.Declarations[i].Name == name {
			return &pf.Declarations[i]
		}
	}
	return nil
}

// SyntaxErrors returns the 1-based lines of error and missing nodes.
func (pf *ParsedTSFile) SyntaxErrors() []int {
	var lines []int
	if pf.RootNode == nil || !pf.RootNode.HasError() {
		return lines
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "ERROR" || n.IsMissing() {
			line := int(n.StartPoint().Row) + 1
			if len(lines) == 0 || lines[len(lines)-1] != line {
				lines = append(lines, line)
			}
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(pf.RootNode)
	return lines
}

// Close cleans up the parsed file resources.
func (pf *ParsedTSFile) Close() {
	if pf.Tree != nil {
		pf.Tree.Close()
	}
}

// TypeNames parses source and returns its exported declaration names.
func TypeNames(ctx context.Context, source string) ([]string, error) {
	p := NewTypeScriptParser()
	defer p.Close()

	pf, err := p.ParseContext(ctx, "types.ts", []byte(source))
	if err != nil {
		return nil, err
	}
	defer pf.Close()
	return pf.Exported(), nil
}
