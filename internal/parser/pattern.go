package parser

import (
	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/token"
)

// parsePattern:
//
//	int | $Const | _ | var | var @ pat | (and pat...) | (Term pat...)
func (p *Parser) parsePattern() (ast.Pattern, bool) {
	t := p.peek()
	switch t.Kind {
	case token.Int:
		p.advance()
		return ast.Pattern{Kind: ast.PatInt, Pos: t.Pos, Text: t.Text}, true

	case token.Symbol:
		p.advance()
		switch {
		case t.Text == "_":
			return ast.Pattern{Kind: ast.PatWildcard, Pos: t.Pos}, true
		case isConstSymbol(t.Text):
			return ast.Pattern{Kind: ast.PatConst, Pos: t.Pos, Name: constIdent(t)}, true
		}
		name := ast.Ident{Name: t.Text, Pos: t.Pos}
		if p.at(token.At) {
			p.advance()
			sub, ok := p.parsePattern()
			if !ok {
				return ast.Pattern{}, false
			}
			return ast.Pattern{Kind: ast.PatBind, Pos: t.Pos, Name: name, Sub: &sub}, true
		}
		return ast.Pattern{Kind: ast.PatVar, Pos: t.Pos, Name: name}, true

	case token.LParen:
		pos, _ := p.lparen()
		head, ok := p.symbol("pattern term")
		if !ok {
			return ast.Pattern{}, false
		}
		pat := ast.Pattern{Kind: ast.PatTerm, Pos: pos, Name: head}
		if head.Name == "and" {
			pat = ast.Pattern{Kind: ast.PatAnd, Pos: pos}
		}
		for !p.at(token.RParen) {
			if p.at(token.EOF) {
				p.err(diag.SynUnclosedParen, "unclosed pattern: unexpected end of file")
				return ast.Pattern{}, false
			}
			arg, ok := p.parsePattern()
			if !ok {
				return ast.Pattern{}, false
			}
			pat.Args = append(pat.Args, arg)
		}
		p.advance()
		return pat, true
	}
	p.err(diag.SynBadPattern, "expected pattern, found "+p.describe())
	return ast.Pattern{}, false
}
