package ast

import (
	"isle-analyzer/internal/source"
)

type PatternKind uint8

const (
	// PatVar binds or matches a variable.
	PatVar PatternKind = iota
	// PatBind is `var @ sub`.
	PatBind
	// PatInt is an integer literal.
	PatInt
	// PatConst is a `$Const` reference.
	PatConst
	PatWildcard
	PatAnd
	// PatTerm applies an extractor: `(Term args...)`.
	PatTerm
)

type Pattern struct {
	Kind PatternKind
	Pos  source.Pos
	Name Ident     // PatVar, PatBind, PatConst, PatTerm
	Text string    // PatInt
	Sub  *Pattern  // PatBind
	Args []Pattern // PatAnd, PatTerm
}

// Head returns the name a rule's left-hand side is defined for.
func (p *Pattern) Head() (Ident, bool) {
	switch p.Kind {
	case PatVar, PatBind, PatTerm:
		return p.Name, true
	}
	return Ident{}, false
}
