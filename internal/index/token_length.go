package index

import (
	"isle-analyzer/internal/lexer"
	"isle-analyzer/internal/source"
)

// TokenLength remembers the length of every token by its start position.
// The AST keeps only start positions; this table supplies the end.
type TokenLength struct {
	lens map[source.Pos]uint32
}

// NewTokenLength returns an empty table.
func NewTokenLength() *TokenLength {
	return &TokenLength{lens: make(map[source.Pos]uint32)}
}

// Update re-lexes f and replaces every entry of its file.
func (tl *TokenLength) Update(f *source.File) {
	for p := range tl.lens {
		if p.File == f.ID {
			delete(tl.lens, p)
		}
	}
	for _, tok := range lexer.Tokenize(f, lexer.Options{}) {
		tl.lens[tok.Pos] = tok.Len()
	}
}

// Get returns the length of the token starting at p.
func (tl *TokenLength) Get(p source.Pos) (uint32, bool) {
	n, ok := tl.lens[p]
	return n, ok
}

// Len returns the number of tokens known.
func (tl *TokenLength) Len() int { return len(tl.lens) }
