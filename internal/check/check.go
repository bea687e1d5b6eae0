// Package check reports semantic errors of an indexed ISLE project:
// unresolved names, duplicate definitions, arity mismatches, overlapping
// and shadowed rules. It does not type-check expressions.
package check

import (
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/index"
)

// Check reports every finding of p to r.
func Check(p *index.Project, r diag.Reporter) {
	c := &checker{p: p, r: r}
	c.unresolved()
	c.duplicates()
	c.arity()
	c.rules()
}

// Run collects the findings of p, sorted by position. The same finding
// reached twice is kept once.
func Run(p *index.Project) []diag.Diagnostic {
	bag := diag.NewBag(0)
	Check(p, diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
	bag.Sort()
	return bag.Items()
}

type checker struct {
	p *index.Project
	r diag.Reporter
}

// unresolved reports every access that resolved to the dummy item.
func (c *checker) unresolved() {
	col := &index.Collector{Bodies: true}
	c.p.RunFullVisitor(col)
	for _, a := range col.Accesses {
		if !a.Def.IsDummy() {
			continue
		}
		name := a.Access.Name
		sp := a.Access.Span()
		switch a.Kind {
		case index.AccessApplyType:
			diag.ReportError(c.r, diag.SemaUnresolvedType, sp, "unknown type `"+name+"`").Emit()
		case index.AccessApplyTerm, index.AccessImplConstructor, index.AccessImplExtractor:
			diag.ReportError(c.r, diag.SemaUnresolvedTerm, sp, "unknown term `"+name+"`").Emit()
		case index.AccessDeclExtern:
			diag.ReportError(c.r, diag.SemaUnresolvedTerm, sp, "extern binding for undeclared term `"+name+"`").Emit()
		case index.AccessApplyConst:
			diag.ReportError(c.r, diag.SemaUnresolvedConst, sp, "unknown constant `$"+name+"`").Emit()
		case index.AccessApplyVariant:
			if ty, ok := c.p.Scopes().QueryGlobal(a.Enum); !ok || ty.Kind != index.ItemType {
				continue // уже сообщили про тип
			}
			diag.ReportError(c.r, diag.SemaUnknownVariant, sp, "unknown variant `"+name+"` of `"+a.Enum+"`").Emit()
		case index.AccessApplyVar, index.AccessExtractVar:
			diag.ReportError(c.r, diag.SemaUnresolvedVar, sp, "unknown variable `"+name+"`").Emit()
		}
	}
}
