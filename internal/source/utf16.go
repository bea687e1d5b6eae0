package source

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// LSP считает колонки в UTF-16 code units, а Pos.Col хранит байты.

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// lineBounds returns the byte offsets where line (1-based) starts and ends,
// excluding the trailing '\n'.
func (f *File) lineBounds(line uint32) (start, end uint32, ok bool) {
	switch {
	case line == 0:
		return 0, 0, false
	case line == 1:
		start = 0
	case int(line-2) < len(f.LineIdx):
		start = f.LineIdx[line-2] + 1
	default:
		return 0, 0, false
	}
	if int(line-1) < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	} else {
		end = f.size()
	}
	return start, end, true
}

func utf16Len(r rune) uint32 {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// UTF16Col returns the column of off on its line in UTF-16 code units.
// Offsets past the end of the content are clamped.
func (f *File) UTF16Col(off uint32) uint32 {
	if n := f.size(); off > n {
		off = n
	}
	i := off - toLineCol(f.LineIdx, off).Col
	var units uint32
	for i < off {
		r, size := utf8.DecodeRune(f.Content[i:off])
		units += utf16Len(r)
		i += uint32(size) //nolint:gosec // size of one rune
	}
	return units
}

// ByteCol converts a UTF-16 column on line (1-based) into a byte column and
// offset. Columns past the end of the line clamp to its end; a column inside
// a surrogate pair stops before that rune.
func (f *File) ByteCol(line, units uint32) (col, off uint32, ok bool) {
	start, end, ok := f.lineBounds(line)
	if !ok {
		return 0, 0, false
	}
	off = start
	for off < end && units > 0 {
		r, size := utf8.DecodeRune(f.Content[off:end])
		w := utf16Len(r)
		if w > units {
			break
		}
		units -= w
		off += uint32(size) //nolint:gosec // size of one rune
	}
	return off - start, off, true
}
