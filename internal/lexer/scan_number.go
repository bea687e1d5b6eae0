package lexer

import (
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/token"
)

// Поддержка: 123, -5, 0b..., 0o..., 0x..., '_' внутри цифр.
// Неверные формы - репорт в opts.Reporter, токен завершаем как Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Eat('-')

	digit := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		switch b1 {
		case 'x', 'X':
			digit = isHex
		case 'o', 'O':
			digit = isOct
		case 'b', 'B':
			digit = isBin
		}
		if b1 == 'x' || b1 == 'X' || b1 == 'o' || b1 == 'O' || b1 == 'b' || b1 == 'B' {
			lx.cursor.Bump()
			lx.cursor.Bump()
		}
	}

	digits := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '_' {
			lx.cursor.Bump()
			continue
		}
		if !digit(b) {
			break
		}
		lx.cursor.Bump()
		digits++
	}

	bad := digits == 0
	// хвост вида 12ab - ошибка, съедаем его целиком
	for !lx.cursor.EOF() && isSymbolByte(lx.cursor.Peek()) {
		lx.bumpRune()
		bad = true
	}

	pos := lx.cursor.PosOf(start)
	text := lx.cursor.TextFrom(start)
	if bad {
		lx.report(diag.LexBadNumber, pos, tokenLen(text), "malformed integer literal "+text)
		return token.Token{Kind: token.Invalid, Pos: pos, Text: text}
	}
	return token.Token{Kind: token.Int, Pos: pos, Text: text}
}
