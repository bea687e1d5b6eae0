package check

import (
	"fmt"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/index"
)

// arity compares every term application against its decl or variant.
func (c *checker) arity() {
	for _, d := range c.p.Defs() {
		switch d.Kind {
		case ast.DefRule:
			c.patternArity(&d.Rule.Pattern)
			for i := range d.Rule.IfLets {
				c.patternArity(&d.Rule.IfLets[i].Pattern)
				c.exprArity(&d.Rule.IfLets[i].Expr)
			}
			c.exprArity(&d.Rule.Expr)
		case ast.DefExtractor:
			c.apply(d.Extractor.Term, len(d.Extractor.Args))
			c.patternArity(&d.Extractor.Template)
		}
	}
}

// expected returns the argument count of the term head names.
func (c *checker) expected(head ast.Ident) (int, bool) {
	scopes := c.p.Scopes()
	parts := index.SplitSymbol(head)
	if len(parts) == 2 {
		ty, ok := scopes.QueryGlobal(parts[0].Name)
		if !ok || ty.Kind != index.ItemType || !ty.TypeDef.IsEnum() {
			return 0, false
		}
		for _, v := range ty.TypeDef.Value.Variants {
			if v.Name.Name == parts[1].Name {
				return len(v.Fields), true
			}
		}
		return 0, false
	}
	it, ok := scopes.QueryGlobal(head.Name)
	if !ok || it.Kind != index.ItemDecl {
		return 0, false
	}
	return len(it.Decl.ArgTypes), true
}

func (c *checker) apply(head ast.Ident, got int) {
	want, ok := c.expected(head)
	if !ok || want == got {
		return
	}
	msg := fmt.Sprintf("`%s` takes %d argument(s), got %d", head.Name, want, got)
	diag.ReportError(c.r, diag.SemaArityMismatch, head.Span(), msg).Emit()
}

func (c *checker) patternArity(p *ast.Pattern) {
	switch p.Kind {
	case ast.PatTerm:
		c.apply(p.Name, len(p.Args))
		for i := range p.Args {
			c.patternArity(&p.Args[i])
		}
	case ast.PatAnd:
		for i := range p.Args {
			c.patternArity(&p.Args[i])
		}
	case ast.PatBind:
		if p.Sub != nil {
			c.patternArity(p.Sub)
		}
	}
}

func (c *checker) exprArity(e *ast.Expr) {
	switch e.Kind {
	case ast.ExprTerm:
		c.apply(e.Name, len(e.Args))
		for i := range e.Args {
			c.exprArity(&e.Args[i])
		}
	case ast.ExprLet:
		for i := range e.Defs {
			c.exprArity(&e.Defs[i].Val)
		}
		if e.Body != nil {
			c.exprArity(e.Body)
		}
	}
}
