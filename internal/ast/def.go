package ast

import (
	"isle-analyzer/internal/source"
)

type DefKind uint8

const (
	DefPragma DefKind = iota
	DefType
	DefDecl
	DefRule
	DefExtractor
	DefExtern
	DefConverter
)

func (k DefKind) String() string {
	switch k {
	case DefPragma:
		return "pragma"
	case DefType:
		return "type"
	case DefDecl:
		return "decl"
	case DefRule:
		return "rule"
	case DefExtractor:
		return "extractor"
	case DefExtern:
		return "extern"
	case DefConverter:
		return "convert"
	}
	return "unknown"
}

// Def is one top-level form. Pos is the position of the form's keyword,
// or of the bound name for externs.
type Def struct {
	Kind      DefKind
	Pos       source.Pos
	Pragma    *Pragma
	Type      *TypeDef
	Decl      *Decl
	Rule      *Rule
	Extractor *Extractor
	Extern    *Extern
	Converter *Converter
}

// Placeholder is the inert definition left in a slot whose file shrank.
// It has no position and is skipped by every traversal.
func Placeholder() Def {
	return Def{
		Kind: DefType,
		Pos:  source.NoPos,
		Type: &TypeDef{
			Name:  Ident{Pos: source.NoPos},
			Value: TypeValue{Kind: TypePrimitive, Primitive: Ident{Pos: source.NoPos}},
			Pos:   source.NoPos,
		},
	}
}

type Pragma struct {
	Name Ident
	Pos  source.Pos
}

type TypeValueKind uint8

const (
	TypePrimitive TypeValueKind = iota
	TypeEnum
)

type TypeValue struct {
	Kind      TypeValueKind
	Primitive Ident     // TypePrimitive
	Variants  []Variant // TypeEnum
	Pos       source.Pos
}

type TypeDef struct {
	Name      Ident
	IsExtern  bool
	IsNoDebug bool
	Value     TypeValue
	Pos       source.Pos
}

// IsEnum reports whether the type has variants.
func (t *TypeDef) IsEnum() bool { return t.Value.Kind == TypeEnum }

type Variant struct {
	Name   Ident
	Fields []Field
	Pos    source.Pos
}

type Field struct {
	Name Ident
	Type Ident
	Pos  source.Pos
}

type Decl struct {
	Term     Ident
	ArgTypes []Ident
	RetType  Ident
	Pure     bool
	Multi    bool
	Partial  bool
	Pos      source.Pos
}

type Rule struct {
	Name    *Ident
	Prio    *int64
	Pattern Pattern
	IfLets  []IfLet
	Expr    Expr
	Pos     source.Pos
}

// IfLet is an `(if-let pat expr)` clause; `(if expr)` has a wildcard pattern.
type IfLet struct {
	Pattern Pattern
	Expr    Expr
	Pos     source.Pos
}

type Extractor struct {
	Term     Ident
	Args     []Ident
	Template Pattern
	Pos      source.Pos
}

type ExternKind uint8

const (
	ExternExtractor ExternKind = iota
	ExternConstructor
	ExternConst
)

// Extern binds a term to host code, or declares a host constant.
// For ExternConst, Term is the constant name (without '$') and Type its type.
type Extern struct {
	Kind       ExternKind
	Term       Ident
	Func       Ident
	Type       Ident
	Infallible bool
	Pos        source.Pos
}

type Converter struct {
	Inner Ident
	Outer Ident
	Term  Ident
	Pos   source.Pos
}
