package lexer

import (
	"isle-analyzer/internal/diag"
)

// skipTrivia пропускает пробелы и комментарии перед значимым токеном.
//   - ';' ... до \n -> строчный комментарий (включая ';;' doc-комментарии)
//   - '(;' ... ';)' -> блочный комментарий, поддерживает вложенность
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isSpace(b):
			lx.cursor.Bump()
		case b == ';':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '(':
			if _, b1, ok := lx.cursor.Peek2(); ok && b1 == ';' {
				lx.skipBlockComment()
				continue
			}
			return
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	depth := 0
	for !lx.cursor.EOF() {
		b0, b1, ok := lx.cursor.Peek2()
		switch {
		case ok && b0 == '(' && b1 == ';':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
		case ok && b0 == ';' && b1 == ')':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return
			}
		default:
			lx.cursor.Bump()
		}
	}
	lx.report(diag.LexUnterminatedBlockComment, lx.cursor.PosOf(start), 2, "unterminated block comment")
}
