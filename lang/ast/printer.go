package ast

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xlab/treeprint"
)

// Fprint writes a tree rendering of the program to w, for diagnostics.
func Fprint(w io.Writer, prog *Program) error {
	tree := treeprint.NewWithRoot("program")
	for _, s := range prog.Stmts {
		printStmt(tree, s)
	}
	_, err := io.WriteString(w, tree.String())
	return err
}

func printStmt(tree treeprint.Tree, s Stmt) {
	switch s := s.(type) {
	case *VarStmt:
		br := tree.AddBranch("var " + s.Name.Name)
		printExpr(br, s.Value)
	case *PrintStmt:
		br := tree.AddBranch("print")
		printExpr(br, s.Expr)
	case *ExprStmt:
		br := tree.AddBranch("expr")
		printExpr(br, s.Expr)
	case *ReturnStmt:
		br := tree.AddBranch("return")
		if s.Value != nil {
			printExpr(br, s.Value)
		}
	case *Block:
		br := tree.AddBranch("block")
		for _, c := range s.Stmts {
			printStmt(br, c)
		}
	case *IfStmt:
		br := tree.AddBranch("if")
		printExpr(br.AddBranch("cond"), s.Cond)
		printStmt(br.AddBranch("then"), s.Then)
		if s.Else != nil {
			printStmt(br.AddBranch("else"), s.Else)
		}
	case *WhileStmt:
		br := tree.AddBranch("while")
		printExpr(br.AddBranch("cond"), s.Cond)
		printStmt(br.AddBranch("body"), s.Body)
	case *ForStmt:
		br := tree.AddBranch("for " + s.Name.Name)
		printExpr(br.AddBranch("in"), s.Range)
		printStmt(br.AddBranch("body"), s.Body)
	case *FunStmt:
		br := tree.AddBranch("fun " + s.Name.Name + paramList(s.Params))
		printStmt(br, s.Body)
	case *ClassStmt:
		label := "class " + s.Name.Name
		if s.Super != nil {
			label += " < " + s.Super.Name
		}
		br := tree.AddBranch(label)
		for _, m := range s.Methods {
			printStmt(br, m)
		}
	default:
		tree.AddNode(fmt.Sprintf("unknown statement %T", s))
	}
}

func printExpr(tree treeprint.Tree, e Expr) {
	switch e := e.(type) {
	case *Ident:
		tree.AddNode(e.Name)
	case *IntLit:
		tree.AddNode(strconv.FormatInt(e.Value, 10))
	case *FloatLit:
		tree.AddNode(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *StringLit:
		tree.AddNode(strconv.Quote(e.Value))
	case *BoolLit:
		tree.AddNode(strconv.FormatBool(e.Value))
	case *NullLit:
		tree.AddNode("null")
	case *ArrayLit:
		br := tree.AddBranch("array")
		for _, el := range e.Elems {
			printExpr(br, el)
		}
	case *RangeExpr:
		br := tree.AddBranch("range to")
		printExpr(br, e.Start)
		printExpr(br, e.End)
	case *UnaryExpr:
		br := tree.AddBranch("unary " + e.Op.String())
		printExpr(br, e.Right)
	case *BinaryExpr:
		br := tree.AddBranch("binary " + e.Op.String())
		printExpr(br, e.Left)
		printExpr(br, e.Right)
	case *LogicalExpr:
		br := tree.AddBranch("logical " + e.Op.String())
		printExpr(br, e.Left)
		printExpr(br, e.Right)
	case *AssignExpr:
		br := tree.AddBranch("assign")
		printExpr(br.AddBranch("target"), e.Target)
		printExpr(br.AddBranch("value"), e.Value)
	case *CallExpr:
		br := tree.AddBranch("call")
		printExpr(br.AddBranch("callee"), e.Callee)
		for _, a := range e.Args {
			printExpr(br, a)
		}
	case *IndexExpr:
		br := tree.AddBranch("index")
		printExpr(br, e.Object)
		printExpr(br, e.Index)
	case *GetPropExpr:
		br := tree.AddBranch("prop ." + e.Name.Name)
		printExpr(br, e.Object)
	case *InvokeExpr:
		br := tree.AddBranch("invoke ." + e.Name.Name)
		printExpr(br.AddBranch("recv"), e.Object)
		for _, a := range e.Args {
			printExpr(br, a)
		}
	case *SuperPropExpr:
		tree.AddNode("super." + e.Name.Name)
	case *SuperInvokeExpr:
		br := tree.AddBranch("super." + e.Name.Name + "()")
		for _, a := range e.Args {
			printExpr(br, a)
		}
	default:
		tree.AddNode(fmt.Sprintf("unknown expression %T", e))
	}
}

func paramList(params []*Ident) string {
	s := "("
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p.Name
	}
	return s + ")"
}
