package source

import (
	"fmt"
	"math"
)

// Pos is the start of a token. Line is 1-based, Col is 0-based.
// Pos is comparable and is used as a map key by the index.
type Pos struct {
	File   FileID
	Offset uint32
	Line   uint32
	Col    uint32
}

// NoPos marks declarations that no longer belong to any file and
// references that resolved to nothing.
var NoPos = Pos{File: math.MaxUint32, Line: 1}

// Known reports whether p points into a real file.
func (p Pos) Known() bool {
	return p.File != NoPos.File
}

// Advance returns the position n bytes further on the same line.
func (p Pos) Advance(n uint32) Pos {
	p.Offset += n
	p.Col += n
	return p
}

func (p Pos) String() string {
	if !p.Known() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d:%d", p.File, p.Line, p.Col)
}

// Span is a named token: start position plus length in bytes.
// Numeric literals have zero length.
type Span struct {
	Pos Pos
	Len uint32
}

// Contains reports whether q lies on the token, end column inclusive.
func (s Span) Contains(q Pos) bool {
	if s.Pos.File != q.File || s.Pos.Line != q.Line {
		return false
	}
	return q.Col >= s.Pos.Col && q.Col <= s.Pos.Col+s.Len
}

func (s Span) String() string {
	return fmt.Sprintf("%s+%d", s.Pos, s.Len)
}
