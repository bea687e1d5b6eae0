package lexer

import (
	"isle-analyzer/internal/token"
)

// Символ: всё до пробела, скобки, ';' или '@'.
// Первый байт не цифра и не '-' (проверено в Next).
func (lx *Lexer) scanSymbol() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isSymbolByte(lx.cursor.Peek()) {
		lx.bumpRune()
	}
	return token.Token{Kind: token.Symbol, Pos: lx.cursor.PosOf(start), Text: lx.cursor.TextFrom(start)}
}
