package parser

import (
	"strconv"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/source"
	"isle-analyzer/internal/token"
)

// (pragma name args...)
func (p *Parser) parsePragma(pos source.Pos) (ast.Def, bool) {
	name, ok := p.symbol("pragma name")
	if !ok {
		return ast.Def{}, false
	}
	// аргументы прагм не используются, пропускаем до закрывающей скобки
	depth := p.depth
	for !p.at(token.EOF) && !(p.at(token.RParen) && p.depth == depth) {
		p.advance()
	}
	return ast.Def{Kind: ast.DefPragma, Pos: pos, Pragma: &ast.Pragma{Name: name, Pos: pos}}, true
}

// (type Name [extern] [nodebug] (primitive T) | (enum Variant...))
func (p *Parser) parseType(pos source.Pos) (ast.Def, bool) {
	name, ok := p.symbol("type name")
	if !ok {
		return ast.Def{}, false
	}
	ty := &ast.TypeDef{Name: name, Pos: pos}
	for {
		if p.atSymbol("extern") {
			p.advance()
			ty.IsExtern = true
			continue
		}
		if p.atSymbol("nodebug") {
			p.advance()
			ty.IsNoDebug = true
			continue
		}
		break
	}

	valuePos, ok := p.lparen()
	if !ok {
		return ast.Def{}, false
	}
	kind, ok := p.symbol("`primitive` or `enum`")
	if !ok {
		return ast.Def{}, false
	}
	switch kind.Name {
	case "primitive":
		prim, ok := p.symbol("primitive type name")
		if !ok {
			return ast.Def{}, false
		}
		ty.Value = ast.TypeValue{Kind: ast.TypePrimitive, Primitive: prim, Pos: valuePos}
	case "enum":
		ty.Value = ast.TypeValue{Kind: ast.TypeEnum, Pos: valuePos}
		for !p.at(token.RParen) {
			v, ok := p.parseVariant()
			if !ok {
				return ast.Def{}, false
			}
			ty.Value.Variants = append(ty.Value.Variants, v)
		}
	default:
		p.errAt(diag.SynBadTypeBody, kind.Span(), "expected `primitive` or `enum`, found `"+kind.Name+"`")
		return ast.Def{}, false
	}
	if !p.rparen() {
		return ast.Def{}, false
	}
	return ast.Def{Kind: ast.DefType, Pos: pos, Type: ty}, true
}

// Variant | (Variant (field Ty)...)
func (p *Parser) parseVariant() (ast.Variant, bool) {
	if p.at(token.Symbol) {
		name, _ := p.symbol("variant name")
		return ast.Variant{Name: name, Pos: name.Pos}, true
	}
	pos, ok := p.lparen()
	if !ok {
		return ast.Variant{}, false
	}
	name, ok := p.symbol("variant name")
	if !ok {
		return ast.Variant{}, false
	}
	v := ast.Variant{Name: name, Pos: pos}
	for !p.at(token.RParen) {
		fpos, ok := p.lparen()
		if !ok {
			return ast.Variant{}, false
		}
		fname, ok := p.symbol("field name")
		if !ok {
			return ast.Variant{}, false
		}
		fty, ok := p.symbol("field type")
		if !ok {
			return ast.Variant{}, false
		}
		if !p.rparen() {
			return ast.Variant{}, false
		}
		v.Fields = append(v.Fields, ast.Field{Name: fname, Type: fty, Pos: fpos})
	}
	p.advance()
	return v, true
}

// (decl [pure] [multi] [partial] term (ArgTy...) RetTy)
func (p *Parser) parseDecl(pos source.Pos) (ast.Def, bool) {
	d := &ast.Decl{Pos: pos}
mods:
	for {
		switch {
		case p.atSymbol("pure"):
			d.Pure = true
		case p.atSymbol("multi"):
			d.Multi = true
		case p.atSymbol("partial"):
			d.Partial = true
		default:
			break mods
		}
		p.advance()
	}
	term, ok := p.symbol("term name")
	if !ok {
		return ast.Def{}, false
	}
	d.Term = term
	if _, ok := p.lparen(); !ok {
		return ast.Def{}, false
	}
	for !p.at(token.RParen) {
		arg, ok := p.symbol("argument type")
		if !ok {
			return ast.Def{}, false
		}
		d.ArgTypes = append(d.ArgTypes, arg)
	}
	p.advance()
	ret, ok := p.symbol("return type")
	if !ok {
		return ast.Def{}, false
	}
	d.RetType = ret
	return ast.Def{Kind: ast.DefDecl, Pos: pos, Decl: d}, true
}

// (rule [name] [prio] pattern iflet... expr)
func (p *Parser) parseRule(pos source.Pos) (ast.Def, bool) {
	r := &ast.Rule{Pos: pos}
	if p.at(token.Symbol) {
		name, _ := p.symbol("rule name")
		r.Name = &name
	}
	if p.at(token.Int) {
		t := p.advance()
		prio, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			p.errAt(diag.SynUnexpectedToken, source.Span{Pos: t.Pos}, "invalid rule priority "+t.Text)
			return ast.Def{}, false
		}
		r.Prio = &prio
	}

	pat, ok := p.parsePattern()
	if !ok {
		return ast.Def{}, false
	}
	r.Pattern = pat
	for p.atForm("if-let") || p.atForm("if") {
		il, ok := p.parseIfLet()
		if !ok {
			return ast.Def{}, false
		}
		r.IfLets = append(r.IfLets, il)
	}
	expr, ok := p.parseExpr()
	if !ok {
		return ast.Def{}, false
	}
	r.Expr = expr
	return ast.Def{Kind: ast.DefRule, Pos: pos, Rule: r}, true
}

// (if-let pat expr) | (if expr)
func (p *Parser) parseIfLet() (ast.IfLet, bool) {
	pos, _ := p.lparen()
	kw, _ := p.symbol("`if-let`")
	var il ast.IfLet
	il.Pos = pos
	if kw.Name == "if-let" {
		pat, ok := p.parsePattern()
		if !ok {
			return il, false
		}
		il.Pattern = pat
	}
	expr, ok := p.parseExpr()
	if !ok {
		return il, false
	}
	il.Expr = expr
	if kw.Name == "if" {
		il.Pattern = ast.Pattern{Kind: ast.PatWildcard, Pos: expr.Pos}
	}
	return il, p.rparen()
}

// (extractor (term args...) template)
func (p *Parser) parseExtractor(pos source.Pos) (ast.Def, bool) {
	if _, ok := p.lparen(); !ok {
		return ast.Def{}, false
	}
	term, ok := p.symbol("extractor term")
	if !ok {
		return ast.Def{}, false
	}
	e := &ast.Extractor{Term: term, Pos: pos}
	for !p.at(token.RParen) {
		arg, ok := p.symbol("extractor argument")
		if !ok {
			return ast.Def{}, false
		}
		e.Args = append(e.Args, arg)
	}
	p.advance()
	tmpl, ok := p.parsePattern()
	if !ok {
		return ast.Def{}, false
	}
	e.Template = tmpl
	return ast.Def{Kind: ast.DefExtractor, Pos: pos, Extractor: e}, true
}

// (extern constructor term func)
// (extern extractor [infallible] term func)
// (extern const $Name Ty)
func (p *Parser) parseExtern(pos source.Pos) (ast.Def, bool) {
	kind, ok := p.symbol("`constructor`, `extractor` or `const`")
	if !ok {
		return ast.Def{}, false
	}
	ext := &ast.Extern{Pos: pos}
	switch kind.Name {
	case "constructor", "extractor":
		ext.Kind = ast.ExternConstructor
		if kind.Name == "extractor" {
			ext.Kind = ast.ExternExtractor
			if p.atSymbol("infallible") {
				p.advance()
				ext.Infallible = true
			}
		}
		if ext.Term, ok = p.symbol("term name"); !ok {
			return ast.Def{}, false
		}
		if ext.Func, ok = p.symbol("host function name"); !ok {
			return ast.Def{}, false
		}
	case "const":
		ext.Kind = ast.ExternConst
		if ext.Term, ok = p.constName(); !ok {
			return ast.Def{}, false
		}
		if ext.Type, ok = p.symbol("constant type"); !ok {
			return ast.Def{}, false
		}
	default:
		p.errAt(diag.SynBadExtern, kind.Span(), "unknown extern kind `"+kind.Name+"`")
		return ast.Def{}, false
	}
	return ast.Def{Kind: ast.DefExtern, Pos: ext.Term.Pos, Extern: ext}, true
}

// (convert Inner Outer term)
func (p *Parser) parseConverter(pos source.Pos) (ast.Def, bool) {
	c := &ast.Converter{Pos: pos}
	var ok bool
	if c.Inner, ok = p.symbol("inner type"); !ok {
		return ast.Def{}, false
	}
	if c.Outer, ok = p.symbol("outer type"); !ok {
		return ast.Def{}, false
	}
	if c.Term, ok = p.symbol("converter term"); !ok {
		return ast.Def{}, false
	}
	return ast.Def{Kind: ast.DefConverter, Pos: pos, Converter: c}, true
}
