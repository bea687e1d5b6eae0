package lsp

import (
	"isle-analyzer/internal/source"

	"fortio.org/safecast"
	"go.lsp.dev/protocol"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// positionForOffsetInFile converts a byte offset into an LSP position
// counting UTF-16 code units.
func positionForOffsetInFile(file *source.File, offset uint32) protocol.Position {
	if file == nil {
		return protocol.Position{}
	}
	if n := safeUint32(len(file.Content)); offset > n {
		offset = n
	}
	return protocol.Position{Line: file.PosAt(offset).Line - 1, Character: file.UTF16Col(offset)}
}

func rangeForSpan(file *source.File, sp source.Span) protocol.Range {
	if file == nil {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: positionForOffsetInFile(file, sp.Pos.Offset),
		End:   positionForOffsetInFile(file, sp.Pos.Offset+sp.Len),
	}
}
