package ide

import (
	"strconv"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/index"

	"go.lsp.dev/protocol"
)

// DocumentSymbols returns the outline of path. Rules, extractors and
// extern bindings are nested under the decl they implement.
func DocumentSymbols(p *index.Project, path string) []protocol.DocumentSymbol {
	id, ok := p.FileID(path)
	if !ok {
		return nil
	}
	defs := p.FileDefs(id)

	symbol := func(id ast.Ident, kind protocol.SymbolKind) (protocol.DocumentSymbol, bool) {
		loc, ok := p.MkLocation(id.Span())
		if !ok {
			return protocol.DocumentSymbol{}, false
		}
		return protocol.DocumentSymbol{Name: id.Name, Kind: kind, Range: loc.Range, SelectionRange: loc.Range}, true
	}

	var top []protocol.DocumentSymbol
	decls := make(map[string]int) // term -> index in top
	for _, d := range defs {
		switch d.Kind {
		case ast.DefType:
			if s, ok := symbol(d.Type.Name, protocol.SymbolKindStruct); ok {
				for _, v := range d.Type.Value.Variants {
					if c, ok := symbol(v.Name, protocol.SymbolKindEnumMember); ok {
						s.Children = append(s.Children, c)
					}
				}
				top = append(top, s)
			}
		case ast.DefConverter:
			if s, ok := symbol(d.Converter.Term, protocol.SymbolKindStruct); ok {
				s.Detail = d.Converter.Inner.Name + " -> " + d.Converter.Outer.Name
				top = append(top, s)
			}
		case ast.DefExtern:
			if d.Extern.Kind == ast.ExternConst {
				if s, ok := symbol(d.Extern.Term, protocol.SymbolKindConstant); ok {
					s.Detail = d.Extern.Type.Name
					top = append(top, s)
				}
			}
		case ast.DefDecl:
			if s, ok := symbol(d.Decl.Term, protocol.SymbolKindOperator); ok {
				decls[d.Decl.Term.Name] = len(top)
				top = append(top, s)
			}
		}
	}

	attach := func(term string, child protocol.DocumentSymbol) {
		if i, ok := decls[term]; ok {
			top[i].Children = append(top[i].Children, child)
		}
	}
	for _, d := range defs {
		switch d.Kind {
		case ast.DefRule:
			head, ok := d.Rule.Pattern.Head()
			if !ok {
				continue
			}
			if s, ok := symbol(head, protocol.SymbolKindMethod); ok {
				s.Name = ruleName(d.Rule)
				attach(head.Name, s)
			}
		case ast.DefExtractor:
			if s, ok := symbol(d.Extractor.Term, protocol.SymbolKindMethod); ok {
				s.Name = "extractor"
				attach(d.Extractor.Term.Name, s)
			}
		case ast.DefExtern:
			if d.Extern.Kind == ast.ExternConst {
				continue
			}
			if s, ok := symbol(d.Extern.Term, protocol.SymbolKindFunction); ok {
				s.Name = "extern " + externWord(d.Extern.Kind)
				s.Detail = d.Extern.Func.Name
				attach(d.Extern.Term.Name, s)
			}
		}
	}
	return top
}

// ruleName is rule_<prio>, followed by the rule name when it has one.
func ruleName(r *ast.Rule) string {
	var prio int64
	if r.Prio != nil {
		prio = *r.Prio
	}
	name := "rule_" + strconv.FormatInt(prio, 10)
	if r.Name != nil {
		name += " " + r.Name.Name
	}
	return name
}

func externWord(k ast.ExternKind) string {
	if k == ast.ExternExtractor {
		return "extractor"
	}
	return "constructor"
}
