package index

import (
	"strings"

	"isle-analyzer/internal/ast"

	"fortio.org/safecast"
)

// SplitSymbol splits `Type.Variant` into its two halves, each with its own
// position. Names without a dot, with several dots or with an empty half
// come back unchanged as a single identifier.
func SplitSymbol(id ast.Ident) []ast.Ident {
	if strings.Count(id.Name, ".") != 1 {
		return []ast.Ident{id}
	}
	dot := strings.IndexByte(id.Name, '.')
	head, tail := id.Name[:dot], id.Name[dot+1:]
	if head == "" || tail == "" {
		return []ast.Ident{id}
	}
	off, err := safecast.Conv[uint32](dot + 1)
	if err != nil {
		return []ast.Ident{id}
	}
	return []ast.Ident{
		{Name: head, Pos: id.Pos},
		{Name: tail, Pos: id.Pos.Advance(off)},
	}
}
