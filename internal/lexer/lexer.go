package lexer

import (
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/source"
	"isle-analyzer/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Pos: lx.cursor.PosOf(lx.cursor.Mark())}
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '(' || ch == ')' || ch == '@':
		return lx.scanPunct()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '-':
		if _, b1, ok := lx.cursor.Peek2(); ok && isDec(b1) {
			return lx.scanNumber()
		}
		return lx.scanInvalid("symbols cannot start with '-'")
	case isSymbolByte(ch):
		return lx.scanSymbol()
	default:
		return lx.scanInvalid("unexpected character")
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	var kind token.Kind
	switch lx.cursor.Bump() {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	default:
		kind = token.At
	}
	return token.Token{Kind: kind, Pos: lx.cursor.PosOf(start), Text: lx.cursor.TextFrom(start)}
}

func (lx *Lexer) scanInvalid(msg string) token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	pos := lx.cursor.PosOf(start)
	text := lx.cursor.TextFrom(start)
	lx.report(diag.LexUnknownChar, pos, 1, msg+": "+quoteRune(text))
	return token.Token{Kind: token.Invalid, Pos: pos, Text: text}
}

// Tokenize lexes the whole file. Lexical errors go to the reporter;
// invalid tokens are dropped from the result.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		if tok.Kind != token.Invalid {
			out = append(out, tok)
		}
	}
}
