package parser

import (
	"fmt"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/lexer"
	"isle-analyzer/internal/source"
	"isle-analyzer/internal/token"

	"fortio.org/safecast"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser - состояние парсера на один файл
type Parser struct {
	toks  []token.Token
	pos   int
	eof   token.Token
	depth int // текущая вложенность скобок
	opts  Options
}

// ParseFile lexes and parses one file. Lexical and syntax errors go to
// opts.Reporter; definitions that failed to parse are skipped.
func ParseFile(file *source.File, opts Options) []ast.Def {
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	p := &Parser{
		eof:  token.Token{Kind: token.EOF, Pos: file.PosAt(end)},
		opts: opts,
	}
	p.toks = lexer.Tokenize(file, lexer.Options{Reporter: &countingReporter{opts: &p.opts}})
	return p.parseDefs()
}

// Parse is ParseFile that fails if the file has any error.
// The returned error is diag.Errors.
func Parse(file *source.File) ([]ast.Def, error) {
	bag := diag.NewBag(0)
	defs := ParseFile(file, Options{Reporter: diag.BagReporter{Bag: bag}})
	if err := bag.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}

// countingReporter пробрасывает ошибки лексера, учитывая лимит.
type countingReporter struct {
	opts *Options
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if r.opts.Reporter == nil || r.opts.Enough() {
		return
	}
	if sev == diag.SevError {
		r.opts.CurrentErrors++
	}
	r.opts.Reporter.Report(code, sev, primary, msg, notes)
}

// parseDefs - основной цикл верхнего уровня: пока не EOF - parseDef.
func (p *Parser) parseDefs() []ast.Def {
	var defs []ast.Def
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			break
		}
		if !p.at(token.LParen) {
			p.err(diag.SynUnexpectedToken, "expected '(' to start a definition, found "+p.describe())
			p.advance()
			continue
		}
		def, ok := p.parseDef()
		if !ok {
			p.resyncTop()
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

func (p *Parser) parseDef() (ast.Def, bool) {
	if _, ok := p.lparen(); !ok {
		return ast.Def{}, false
	}
	kw, ok := p.symbol("definition keyword")
	if !ok {
		return ast.Def{}, false
	}
	var def ast.Def
	switch kw.Name {
	case "pragma":
		def, ok = p.parsePragma(kw.Pos)
	case "type":
		def, ok = p.parseType(kw.Pos)
	case "decl":
		def, ok = p.parseDecl(kw.Pos)
	case "rule":
		def, ok = p.parseRule(kw.Pos)
	case "extractor":
		def, ok = p.parseExtractor(kw.Pos)
	case "extern":
		def, ok = p.parseExtern(kw.Pos)
	case "convert":
		def, ok = p.parseConverter(kw.Pos)
	default:
		p.errAt(diag.SynUnknownDef, kw.Span(), "unknown definition keyword `"+kw.Name+"`")
		return ast.Def{}, false
	}
	if !ok {
		return ast.Def{}, false
	}
	if !p.rparen() {
		return ast.Def{}, false
	}
	return def, true
}
