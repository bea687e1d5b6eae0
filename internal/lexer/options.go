package lexer

import (
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) report(code diag.Code, pos source.Pos, length uint32, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, source.Span{Pos: pos, Len: length}, msg, nil)
	}
}
