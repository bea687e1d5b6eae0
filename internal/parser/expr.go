package parser

import (
	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/token"
)

// parseExpr:
//
//	int | $Const | var | (let ((var Ty expr)...) body) | (Term expr...)
func (p *Parser) parseExpr() (ast.Expr, bool) {
	t := p.peek()
	switch t.Kind {
	case token.Int:
		p.advance()
		return ast.Expr{Kind: ast.ExprInt, Pos: t.Pos, Text: t.Text}, true

	case token.Symbol:
		p.advance()
		if isConstSymbol(t.Text) {
			return ast.Expr{Kind: ast.ExprConst, Pos: t.Pos, Name: constIdent(t)}, true
		}
		return ast.Expr{Kind: ast.ExprVar, Pos: t.Pos, Name: ast.Ident{Name: t.Text, Pos: t.Pos}}, true

	case token.LParen:
		if p.atForm("let") {
			return p.parseLet()
		}
		pos, _ := p.lparen()
		head, ok := p.symbol("constructor term")
		if !ok {
			return ast.Expr{}, false
		}
		e := ast.Expr{Kind: ast.ExprTerm, Pos: pos, Name: head}
		for !p.at(token.RParen) {
			if p.at(token.EOF) {
				p.err(diag.SynUnclosedParen, "unclosed expression: unexpected end of file")
				return ast.Expr{}, false
			}
			arg, ok := p.parseExpr()
			if !ok {
				return ast.Expr{}, false
			}
			e.Args = append(e.Args, arg)
		}
		p.advance()
		return e, true
	}
	p.err(diag.SynBadExpr, "expected expression, found "+p.describe())
	return ast.Expr{}, false
}

func (p *Parser) parseLet() (ast.Expr, bool) {
	pos, _ := p.lparen()
	p.advance() // let
	if _, ok := p.lparen(); !ok {
		return ast.Expr{}, false
	}
	e := ast.Expr{Kind: ast.ExprLet, Pos: pos}
	for !p.at(token.RParen) {
		dpos, ok := p.lparen()
		if !ok {
			return ast.Expr{}, false
		}
		v, ok := p.symbol("let variable")
		if !ok {
			return ast.Expr{}, false
		}
		ty, ok := p.symbol("let variable type")
		if !ok {
			return ast.Expr{}, false
		}
		val, ok := p.parseExpr()
		if !ok {
			return ast.Expr{}, false
		}
		if !p.rparen() {
			return ast.Expr{}, false
		}
		e.Defs = append(e.Defs, ast.LetDef{Var: v, Type: ty, Val: val, Pos: dpos})
	}
	p.advance()
	body, ok := p.parseExpr()
	if !ok {
		return ast.Expr{}, false
	}
	e.Body = &body
	if !p.rparen() {
		return ast.Expr{}, false
	}
	return e, true
}
