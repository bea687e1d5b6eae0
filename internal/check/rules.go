package check

import (
	"fmt"
	"strconv"
	"strings"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/index"
)

type ruleInfo struct {
	rule *ast.Rule
	head ast.Ident
	prio int64
	// key is the left-hand side with variables renamed by first occurrence.
	key string
	// total: every argument always matches and there are no if-lets.
	total bool
}

// rules groups rules by the term they define and reports overlapping
// and shadowed ones. Terms declared `multi` may overlap freely; rules for
// a term with an extern constructor are never used.
func (c *checker) rules() {
	external := make(map[string]ast.Ident)
	for _, d := range c.p.Defs() {
		if d.Kind == ast.DefExtern && d.Extern.Kind == ast.ExternConstructor {
			external[d.Extern.Term.Name] = d.Extern.Term
		}
	}

	byTerm := make(map[string][]ruleInfo)
	var order []string
	for _, d := range c.p.Defs() {
		if d.Kind != ast.DefRule {
			continue
		}
		info, ok := describe(d.Rule)
		if !ok {
			continue
		}
		if ext, ok := external[info.head.Name]; ok {
			diag.ReportError(c.r, diag.SemaRuleUnreachable, info.head.Span(),
				"rule is never used: `"+info.head.Name+"` has an external constructor").
				WithNote(ext.Span(), "constructor bound here").
				Emit()
			continue
		}
		if it, ok := c.p.Scopes().QueryGlobal(info.head.Name); ok && it.Kind == index.ItemDecl && it.Decl.Multi {
			continue
		}
		if _, ok := byTerm[info.head.Name]; !ok {
			order = append(order, info.head.Name)
		}
		byTerm[info.head.Name] = append(byTerm[info.head.Name], info)
	}

	for _, term := range order {
		rs := byTerm[term]
		for j := range rs {
			c.overlap(rs[:j], &rs[j])
			c.shadowed(rs, &rs[j])
		}
	}
}

// overlap reports b if an earlier rule has the same priority and the same
// left-hand side.
func (c *checker) overlap(earlier []ruleInfo, b *ruleInfo) {
	if len(b.rule.IfLets) != 0 {
		return
	}
	for i := range earlier {
		a := &earlier[i]
		if a.prio != b.prio || a.key != b.key || len(a.rule.IfLets) != 0 {
			continue
		}
		diag.ReportError(c.r, diag.SemaRuleOverlap, b.head.Span(),
			"rule overlaps with another rule for `"+b.head.Name+"` at the same priority").
			WithNote(a.head.Span(), "overlapping rule here").
			Emit()
		return
	}
}

// shadowed reports b if a higher-priority rule always matches.
func (c *checker) shadowed(all []ruleInfo, b *ruleInfo) {
	for i := range all {
		a := &all[i]
		if !a.total || a.prio <= b.prio {
			continue
		}
		msg := fmt.Sprintf("rule for `%s` never fires: a priority %d rule always matches first", b.head.Name, a.prio)
		diag.ReportWarning(c.r, diag.SemaRuleShadowed, b.head.Span(), msg).
			WithNote(a.head.Span(), "shadowing rule here").
			Emit()
		return
	}
}

func describe(r *ast.Rule) (ruleInfo, bool) {
	if r.Pattern.Kind != ast.PatTerm {
		return ruleInfo{}, false
	}
	info := ruleInfo{rule: r, head: r.Pattern.Name}
	if r.Prio != nil {
		info.prio = *r.Prio
	}
	var k keyer
	k.vars = make(map[string]int)
	k.b.WriteString(r.Pattern.Name.Name)
	info.total = len(r.IfLets) == 0
	for i := range r.Pattern.Args {
		k.b.WriteByte(' ')
		if !k.pattern(&r.Pattern.Args[i]) {
			info.total = false
		}
	}
	info.key = k.b.String()
	return info, true
}

// keyer prints a pattern in a form where equal strings mean equal
// match behaviour.
type keyer struct {
	b    strings.Builder
	vars map[string]int
}

// pattern writes p and reports whether it matches every value.
func (k *keyer) pattern(p *ast.Pattern) bool {
	switch p.Kind {
	case ast.PatWildcard:
		k.b.WriteByte('_')
		return true
	case ast.PatVar:
		return k.bind(p.Name.Name)
	case ast.PatBind:
		total := k.bind(p.Name.Name)
		if p.Sub == nil {
			return total
		}
		k.b.WriteByte('@')
		return k.pattern(p.Sub) && total
	case ast.PatInt:
		k.b.WriteString(normInt(p.Text))
		return false
	case ast.PatConst:
		k.b.WriteString("$" + p.Name.Name)
		return false
	case ast.PatAnd:
		k.b.WriteString("(and")
		total := true
		for i := range p.Args {
			k.b.WriteByte(' ')
			if !k.pattern(&p.Args[i]) {
				total = false
			}
		}
		k.b.WriteByte(')')
		return total
	case ast.PatTerm:
		k.b.WriteString("(" + p.Name.Name)
		for i := range p.Args {
			k.b.WriteByte(' ')
			k.pattern(&p.Args[i])
		}
		k.b.WriteByte(')')
	}
	return false
}

// bind: первое вхождение переменной ловит всё, повторное сравнивает.
func (k *keyer) bind(name string) bool {
	if name == "_" {
		k.b.WriteByte('_')
		return true
	}
	if n, ok := k.vars[name]; ok {
		k.b.WriteString("=" + strconv.Itoa(n))
		return false
	}
	n := len(k.vars)
	k.vars[name] = n
	k.b.WriteString("?" + strconv.Itoa(n))
	return true
}

func normInt(text string) string {
	if v, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64); err == nil {
		return strconv.FormatInt(v, 10)
	}
	return text
}
