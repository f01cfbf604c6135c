// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the compiler.
package ast

import (
	"github.com/fennec-lang/fennec/lang/token"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Position returns the position of the first token of the node.
	Position() token.Pos
}

// Stmt is the interface implemented by all statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Expr is the interface implemented by all expression nodes.
type Expr interface {
	Node
	expr()
}

// Program is the root node, the ordered list of top-level statements of a
// script.
type Program struct {
	Stmts []Stmt
}
