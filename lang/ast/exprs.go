package ast

import (
	"github.com/fennec-lang/fennec/lang/token"
)

// Ident is an identifier reference. The reserved names "this" and "super"
// also parse as identifiers and are resolved by the compiler like any other
// name.
type Ident struct {
	NamePos token.Pos
	Name    string
}

// IntLit is an integer literal.
type IntLit struct {
	LitPos token.Pos
	Value  int64
}

// FloatLit is a floating point literal.
type FloatLit struct {
	LitPos token.Pos
	Value  float64
}

// StringLit is a string literal; Value holds the interpreted text.
type StringLit struct {
	LitPos token.Pos
	Value  string
}

// BoolLit is a true or false literal.
type BoolLit struct {
	LitPos token.Pos
	Value  bool
}

// NullLit is the null literal.
type NullLit struct {
	LitPos token.Pos
}

// ArrayLit is an array literal: [e1, e2, ...].
type ArrayLit struct {
	Lbrack token.Pos
	Elems  []Expr
}

// RangeExpr is the inclusive integer range: start to end.
type RangeExpr struct {
	Start Expr
	End   Expr
}

// UnaryExpr is a prefix operation: -x or !x.
type UnaryExpr struct {
	OpPos token.Pos
	Op    token.Token // MINUS or BANG
	Right Expr
}

// BinaryExpr is an arithmetic or comparison operation.
type BinaryExpr struct {
	Op    token.Token // PLUS..CIRCUMFLEX, LT..NEQ
	Left  Expr
	Right Expr
}

// LogicalExpr is a short-circuiting and/or operation.
type LogicalExpr struct {
	Op    token.Token // AND or OR
	Left  Expr
	Right Expr
}

// AssignExpr assigns Value to Target, which must be an *Ident, *IndexExpr or
// *GetPropExpr. Assignment is an expression; its value is the assigned value.
type AssignExpr struct {
	Target Expr
	Value  Expr
}

// CallExpr is a function call: callee(args).
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

// IndexExpr is an array element access: a[i].
type IndexExpr struct {
	Object Expr
	Index  Expr
}

// GetPropExpr is a property access: a.name.
type GetPropExpr struct {
	Object Expr
	Name   *Ident
}

// InvokeExpr is a method call on a receiver: a.name(args).
type InvokeExpr struct {
	Object Expr
	Name   *Ident
	Args   []Expr
}

// SuperPropExpr is a superclass method access: super.name.
type SuperPropExpr struct {
	Super token.Pos
	Name  *Ident
}

// SuperInvokeExpr is a superclass method call: super.name(args).
type SuperInvokeExpr struct {
	Super token.Pos
	Name  *Ident
	Args  []Expr
}

func (e *Ident) Position() token.Pos           { return e.NamePos }
func (e *IntLit) Position() token.Pos          { return e.LitPos }
func (e *FloatLit) Position() token.Pos        { return e.LitPos }
func (e *StringLit) Position() token.Pos       { return e.LitPos }
func (e *BoolLit) Position() token.Pos         { return e.LitPos }
func (e *NullLit) Position() token.Pos         { return e.LitPos }
func (e *ArrayLit) Position() token.Pos        { return e.Lbrack }
func (e *RangeExpr) Position() token.Pos       { return e.Start.Position() }
func (e *UnaryExpr) Position() token.Pos       { return e.OpPos }
func (e *BinaryExpr) Position() token.Pos      { return e.Left.Position() }
func (e *LogicalExpr) Position() token.Pos     { return e.Left.Position() }
func (e *AssignExpr) Position() token.Pos      { return e.Target.Position() }
func (e *CallExpr) Position() token.Pos        { return e.Callee.Position() }
func (e *IndexExpr) Position() token.Pos       { return e.Object.Position() }
func (e *GetPropExpr) Position() token.Pos     { return e.Object.Position() }
func (e *InvokeExpr) Position() token.Pos      { return e.Object.Position() }
func (e *SuperPropExpr) Position() token.Pos   { return e.Super }
func (e *SuperInvokeExpr) Position() token.Pos { return e.Super }

func (*Ident) expr()           {}
func (*IntLit) expr()          {}
func (*FloatLit) expr()        {}
func (*StringLit) expr()       {}
func (*BoolLit) expr()         {}
func (*NullLit) expr()         {}
func (*ArrayLit) expr()        {}
func (*RangeExpr) expr()       {}
func (*UnaryExpr) expr()       {}
func (*BinaryExpr) expr()      {}
func (*LogicalExpr) expr()     {}
func (*AssignExpr) expr()      {}
func (*CallExpr) expr()        {}
func (*IndexExpr) expr()       {}
func (*GetPropExpr) expr()     {}
func (*InvokeExpr) expr()      {}
func (*SuperPropExpr) expr()   {}
func (*SuperInvokeExpr) expr() {}
