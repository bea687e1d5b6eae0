package ast

import (
	"fmt"

	"isle-analyzer/internal/source"

	"fortio.org/safecast"
)

// Ident is a name together with the position of its first byte.
type Ident struct {
	Name string
	Pos  source.Pos
}

// Span returns the name's extent.
func (id Ident) Span() source.Span {
	n, err := safecast.Conv[uint32](len(id.Name))
	if err != nil {
		panic(fmt.Errorf("ident length overflow: %w", err))
	}
	return source.Span{Pos: id.Pos, Len: n}
}

func (id Ident) String() string { return id.Name }
