// Package extract walks syntax trees and emits identifier records in
// document order. The parser itself is consumed through the Engine
// interface so alternate back-ends are substitutable; the default engine
// wraps tree-sitter.
package extract

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"idmark/internal/lang"
)

// Node is one typed syntax-tree node with byte-offset position data.
// Offsets are reported against the UTF-8 canonical text the tree was
// parsed from. Row and ColByte are 0-based.
type Node interface {
	Kind() string
	StartByte() int
	EndByte() int
	Row() int
	ColByte() int
	ChildCount() int
	Child(i int) Node
}

// Tree is a parsed syntax tree.
type Tree interface {
	Root() Node
	// HasError reports whether the grammar found structural errors
	// anywhere in the tree. Extraction still proceeds best-effort.
	HasError() bool
}

// Engine parses canonical UTF-8 source into a syntax tree for a language
// profile's grammar.
type Engine interface {
	Parse(ctx context.Context, src []byte, profile *lang.Profile) (Tree, error)
}

// TreeSitter is the default Engine, backed by the tree-sitter runtime.
// The zero value is ready to use and safe for concurrent callers; each
// Parse call uses its own parser instance.
type TreeSitter struct{}

// NewTreeSitter returns a tree-sitter backed Engine.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{}
}

// Parse parses src with the profile's grammar.
func (e *TreeSitter) Parse(ctx context.Context, src []byte, profile *lang.Profile) (Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(profile.Language)
	t, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", profile.Grammar, err)
	}
	return sitterTree{t}, nil
}

type sitterTree struct {
	tree *sitter.Tree
}

func (t sitterTree) Root() Node     { return sitterNode{t.tree.RootNode()} }
func (t sitterTree) HasError() bool { return t.tree.RootNode().HasError() }

type sitterNode struct {
	node *sitter.Node
}

func (n sitterNode) Kind() string   { return n.node.Type() }
func (n sitterNode) StartByte() int { return int(n.node.StartByte()) }
func (n sitterNode) EndByte() int   { return int(n.node.EndByte()) }
func (n sitterNode) Row() int       { return int(n.node.StartPoint().Row) }
func (n sitterNode) ColByte() int   { return int(n.node.StartPoint().Column) }
func (n sitterNode) ChildCount() int { return int(n.node.ChildCount()) }
func (n sitterNode) Child(i int) Node {
	return sitterNode{n.node.Child(i)}
}
