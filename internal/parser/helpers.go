package parser

import (
	"strings"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/source"
	"isle-analyzer/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.eof
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// atForm reports whether the next tokens are '(' followed by the keyword.
func (p *Parser) atForm(keyword string) bool {
	next := p.peekN(1)
	return p.at(token.LParen) && next.Kind == token.Symbol && next.Text == keyword
}

// atSymbol reports whether the next token is the given bare symbol.
func (p *Parser) atSymbol(text string) bool {
	t := p.peek()
	return t.Kind == token.Symbol && t.Text == text
}

// advance - съедает следующий токен и следит за глубиной скобок
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	switch tok.Kind {
	case token.LParen:
		p.depth++
	case token.RParen:
		p.depth--
	}
	return tok
}

func (p *Parser) lparen() (source.Pos, bool) {
	if !p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "expected '(', found "+p.describe())
		return source.Pos{}, false
	}
	return p.advance().Pos, true
}

func (p *Parser) rparen() bool {
	if !p.at(token.RParen) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedParen, "unclosed '(': unexpected end of file")
		} else {
			p.err(diag.SynUnexpectedToken, "expected ')', found "+p.describe())
		}
		return false
	}
	p.advance()
	return true
}

// symbol - ожидаем символ; what описывает ожидаемое для сообщения.
func (p *Parser) symbol(what string) (ast.Ident, bool) {
	t := p.peek()
	if t.Kind != token.Symbol {
		p.err(diag.SynExpectSymbol, "expected "+what+", found "+p.describe())
		return ast.Ident{}, false
	}
	p.advance()
	return ast.Ident{Name: t.Text, Pos: t.Pos}, true
}

// constName parses `$Name` and returns Name positioned after the dollar sign.
func (p *Parser) constName() (ast.Ident, bool) {
	t := p.peek()
	if t.Kind != token.Symbol || !isConstSymbol(t.Text) {
		p.err(diag.SynBadConstName, "expected constant name starting with '$', found "+p.describe())
		return ast.Ident{}, false
	}
	p.advance()
	return constIdent(t), true
}

func isConstSymbol(s string) bool {
	return len(s) > 1 && strings.HasPrefix(s, "$")
}

func constIdent(t token.Token) ast.Ident {
	return ast.Ident{Name: t.Text[1:], Pos: t.Pos.Advance(1)}
}

// resyncTop пропускает токены до конца текущей формы верхнего уровня.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) && p.depth > 0 {
		p.advance()
	}
	p.depth = 0
}

func (p *Parser) describe() string {
	t := p.peek()
	switch t.Kind {
	case token.Symbol, token.Int:
		return "`" + t.Text + "`"
	case token.EOF:
		return "end of file"
	}
	return t.Kind.String()
}

// репортует ошибку на текущем токене
func (p *Parser) err(code diag.Code, msg string) {
	t := p.peek()
	p.errAt(code, source.Span{Pos: t.Pos, Len: t.Len()}, msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter == nil || p.opts.Enough() {
		return
	}
	p.opts.CurrentErrors++
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
}
