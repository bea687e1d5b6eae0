package ide

import (
	"sort"

	"isle-analyzer/internal/index"
	"isle-analyzer/internal/source"

	"go.lsp.dev/protocol"
)

// Cursor is an editor position inside a project file.
type Cursor struct {
	Pos source.Pos
}

// At converts an LSP position in path into a Cursor. The LSP character
// counts UTF-16 units; the cursor column is in bytes like every Pos.
func At(p *index.Project, path string, pos protocol.Position) (Cursor, bool) {
	id, ok := p.FileID(path)
	if !ok {
		return Cursor{}, false
	}
	line := pos.Line + 1
	col, off, ok := p.Files().Get(id).ByteCol(line, pos.Character)
	if !ok {
		return Cursor{}, false
	}
	return Cursor{Pos: source.Pos{File: id, Offset: off, Line: line, Col: col}}, true
}

// On reports whether the cursor touches sp, end column included.
func (c Cursor) On(sp source.Span) bool {
	return sp.Pos.Known() && sp.Contains(c.Pos)
}

func sortSpans(spans []source.Span) {
	sort.Slice(spans, func(i, j int) bool {
		a, b := spans[i].Pos, spans[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}

func locations(p *index.Project, spans []source.Span) []protocol.Location {
	out := make([]protocol.Location, 0, len(spans))
	for _, sp := range spans {
		if loc, ok := p.MkLocation(sp); ok {
			out = append(out, loc)
		}
	}
	return out
}

// inRange reports whether the location lies within rng of the same document.
func inRange(loc protocol.Location, rng protocol.Range) bool {
	return !before(loc.Range.Start, rng.Start) && !before(rng.End, loc.Range.End)
}

func before(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}
