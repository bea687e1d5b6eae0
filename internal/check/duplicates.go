package check

import (
	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
)

// duplicates reports global names defined twice and terms bound to more
// than one extern of the same kind.
func (c *checker) duplicates() {
	seen := make(map[string]ast.Ident)
	define := func(id ast.Ident) {
		if first, ok := seen[id.Name]; ok {
			diag.ReportError(c.r, diag.SemaDuplicateSymbol, id.Span(), "`"+id.Name+"` is already defined").
				WithNote(first.Span(), "first definition here").
				Emit()
			return
		}
		seen[id.Name] = id
	}

	type externKey struct {
		term string
		kind ast.ExternKind
	}
	externs := make(map[externKey]ast.Ident)

	for _, d := range c.p.Defs() {
		switch d.Kind {
		case ast.DefType:
			define(d.Type.Name)
		case ast.DefDecl:
			define(d.Decl.Term)
		case ast.DefExtern:
			if d.Extern.Kind == ast.ExternConst {
				define(d.Extern.Term)
				continue
			}
			key := externKey{term: d.Extern.Term.Name, kind: d.Extern.Kind}
			if first, ok := externs[key]; ok {
				diag.ReportError(c.r, diag.SemaDuplicateExtern, d.Extern.Term.Span(), "term `"+key.term+"` already has an extern binding").
					WithNote(first.Span(), "previous binding here").
					Emit()
				continue
			}
			externs[key] = d.Extern.Term
		}
	}
}
