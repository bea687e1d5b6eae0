package ast

import (
	"isle-analyzer/internal/source"
)

type ExprKind uint8

const (
	// ExprTerm applies a constructor: `(Term args...)`.
	ExprTerm ExprKind = iota
	ExprVar
	ExprInt
	ExprConst
	ExprLet
)

type Expr struct {
	Kind ExprKind
	Pos  source.Pos
	Name Ident    // ExprTerm, ExprVar, ExprConst
	Text string   // ExprInt
	Args []Expr   // ExprTerm
	Defs []LetDef // ExprLet
	Body *Expr    // ExprLet
}

type LetDef struct {
	Var  Ident
	Type Ident
	Val  Expr
	Pos  source.Pos
}
