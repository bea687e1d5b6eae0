package ide

import (
	"sort"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/index"
	"isle-analyzer/internal/lexer"
	"isle-analyzer/internal/source"
	"isle-analyzer/internal/token"

	"fortio.org/safecast"
	"go.lsp.dev/protocol"
)

// TokenType indexes Legend.TokenTypes.
type TokenType uint32

const (
	TokStruct TokenType = iota
	TokFunction
	TokVariable
	TokKeyword
	TokString
	TokOperator
	TokEnumMember
	TokType
	TokNumber
)

// ModDeclaration marks the defining occurrence of a name.
const ModDeclaration uint32 = 1

// Legend is announced in the server capabilities.
var Legend = protocol.SemanticTokensLegend{
	TokenTypes: []protocol.SemanticTokenTypes{
		protocol.SemanticTokenStruct,
		protocol.SemanticTokenFunction,
		protocol.SemanticTokenVariable,
		protocol.SemanticTokenKeyword,
		protocol.SemanticTokenString,
		protocol.SemanticTokenOperator,
		protocol.SemanticTokenEnumMember,
		protocol.SemanticTokenType,
		protocol.SemanticTokenNumber,
	},
	TokenModifiers: []protocol.SemanticTokenModifiers{
		protocol.SemanticTokenModifierDeclaration,
	},
}

// SemToken is one highlighted token before delta encoding.
type SemToken struct {
	Line, Col uint32 // 0-based
	Len       uint32
	Type      TokenType
	Mods      uint32
}

type semCollector struct {
	file *source.File
	toks []SemToken
	seen map[source.Pos]struct{}
}

func (c *semCollector) add(pos source.Pos, n uint32, tt TokenType, mods uint32) {
	if !pos.Known() || pos.Line == 0 || n == 0 {
		return
	}
	if _, dup := c.seen[pos]; dup {
		return
	}
	c.seen[pos] = struct{}{}
	// клиент ждёт UTF-16
	col := c.file.UTF16Col(pos.Offset)
	n = c.file.UTF16Col(pos.Offset+n) - col
	c.toks = append(c.toks, SemToken{Line: pos.Line - 1, Col: col, Len: n, Type: tt, Mods: mods})
}

func (c *semCollector) ident(id ast.Ident, tt TokenType, mods uint32) {
	c.add(id.Pos, id.Span().Len, tt, mods)
}

// term highlights a term head; `Type.Variant` gets both halves.
func (c *semCollector) term(id ast.Ident) {
	parts := index.SplitSymbol(id)
	if len(parts) == 2 {
		c.ident(parts[0], TokType, 0)
		c.ident(parts[1], TokEnumMember, 0)
		return
	}
	c.ident(id, TokFunction, 0)
}

func (c *semCollector) pattern(p *ast.Pattern, matcher bool) {
	var mods uint32
	if matcher {
		mods = ModDeclaration
	}
	switch p.Kind {
	case ast.PatVar:
		c.ident(p.Name, TokVariable, mods)
	case ast.PatBind:
		c.ident(p.Name, TokVariable, mods)
		if p.Sub != nil {
			c.pattern(p.Sub, matcher)
		}
	case ast.PatConst:
		c.ident(p.Name, TokNumber, 0)
	case ast.PatWildcard:
		c.add(p.Pos, 1, TokNumber, 0)
	case ast.PatAnd:
		for i := range p.Args {
			c.pattern(&p.Args[i], matcher)
		}
	case ast.PatTerm:
		c.term(p.Name)
		for i := range p.Args {
			c.pattern(&p.Args[i], matcher)
		}
	}
}

func (c *semCollector) expr(e *ast.Expr) {
	switch e.Kind {
	case ast.ExprTerm:
		c.term(e.Name)
		for i := range e.Args {
			c.expr(&e.Args[i])
		}
	case ast.ExprVar:
		c.ident(e.Name, TokVariable, 0)
	case ast.ExprConst:
		c.ident(e.Name, TokNumber, 0)
	case ast.ExprLet:
		for i := range e.Defs {
			ld := &e.Defs[i]
			c.ident(ld.Var, TokVariable, ModDeclaration)
			c.ident(ld.Type, TokType, 0)
			c.expr(&ld.Val)
		}
		if e.Body != nil {
			c.expr(e.Body)
		}
	}
}

func (c *semCollector) def(d *ast.Def) {
	switch d.Kind {
	case ast.DefType:
		c.ident(d.Type.Name, TokType, ModDeclaration)
		if !d.Type.IsEnum() {
			c.ident(d.Type.Value.Primitive, TokType, 0)
			return
		}
		for _, v := range d.Type.Value.Variants {
			c.ident(v.Name, TokEnumMember, ModDeclaration)
			for _, f := range v.Fields {
				c.ident(f.Name, TokEnumMember, ModDeclaration)
				c.ident(f.Type, TokType, 0)
			}
		}
	case ast.DefDecl:
		c.ident(d.Decl.Term, TokStruct, ModDeclaration)
		for _, ty := range d.Decl.ArgTypes {
			c.ident(ty, TokType, 0)
		}
		c.ident(d.Decl.RetType, TokType, 0)
	case ast.DefExtractor:
		c.ident(d.Extractor.Term, TokFunction, 0)
		for _, a := range d.Extractor.Args {
			c.ident(a, TokVariable, ModDeclaration)
		}
		c.pattern(&d.Extractor.Template, false)
	case ast.DefRule:
		c.pattern(&d.Rule.Pattern, true)
		for i := range d.Rule.IfLets {
			il := &d.Rule.IfLets[i]
			c.pattern(&il.Pattern, true)
			c.expr(&il.Expr)
		}
		c.expr(&d.Rule.Expr)
	case ast.DefExtern:
		switch d.Extern.Kind {
		case ast.ExternConst:
			c.ident(d.Extern.Term, TokVariable, ModDeclaration)
			c.ident(d.Extern.Type, TokType, 0)
		default:
			c.ident(d.Extern.Term, TokFunction, 0)
			c.ident(d.Extern.Func, TokFunction, 0)
		}
	case ast.DefConverter:
		c.ident(d.Converter.Inner, TokType, 0)
		c.ident(d.Converter.Outer, TokType, 0)
		c.ident(d.Converter.Term, TokFunction, ModDeclaration)
	}
}

// CollectSemanticTokens returns the tokens of path in source order.
// Keywords and integers come from re-lexing the file.
func CollectSemanticTokens(p *index.Project, path string) []SemToken {
	id, ok := p.FileID(path)
	if !ok {
		return nil
	}
	f := p.Files().Get(id)
	c := &semCollector{file: f, seen: make(map[source.Pos]struct{})}
	for _, d := range p.FileDefs(id) {
		c.def(d)
	}
	for _, tok := range lexer.Tokenize(f, lexer.Options{}) {
		switch {
		case tok.Kind == token.Symbol && token.IsKeyword(tok.Text):
			c.add(tok.Pos, tok.Len(), TokKeyword, 0)
		case tok.Kind == token.Int:
			n, err := safecast.Conv[uint32](len(tok.Text))
			if err == nil {
				c.add(tok.Pos, n, TokNumber, 0)
			}
		}
	}
	sort.Slice(c.toks, func(i, j int) bool {
		if c.toks[i].Line != c.toks[j].Line {
			return c.toks[i].Line < c.toks[j].Line
		}
		return c.toks[i].Col < c.toks[j].Col
	})
	return c.toks
}

// EncodeSemanticTokens delta-encodes sorted tokens as
// [deltaLine, deltaStart, length, type, modifiers] groups.
func EncodeSemanticTokens(toks []SemToken) []uint32 {
	out := make([]uint32, 0, len(toks)*5)
	var lastLine, lastCol uint32
	for i, t := range toks {
		dl, dc := t.Line, t.Col
		if i > 0 {
			dl = t.Line - lastLine
			if dl == 0 {
				dc = t.Col - lastCol
			}
		}
		out = append(out, dl, dc, t.Len, uint32(t.Type), t.Mods)
		lastLine, lastCol = t.Line, t.Col
	}
	return out
}

// SemanticTokens answers textDocument/semanticTokens/full.
func SemanticTokens(p *index.Project, path string) *protocol.SemanticTokens {
	return &protocol.SemanticTokens{Data: EncodeSemanticTokens(CollectSemanticTokens(p, path))}
}
