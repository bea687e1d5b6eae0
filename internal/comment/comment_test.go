package comment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"isle-analyzer/internal/source"
)

func TestScanDocComments(t *testing.T) {
	src := []byte(";; first\n; plain\n(type u8 (primitive u8)) ;;; tail\n")
	got := Scan(src)
	require.Equal(t, []Comment{
		{Line: 1, Col: 2, Text: " first"},
		{Line: 3, Col: 28, Text: " tail"},
	}, got)
}

func TestScanLongSemicolonRun(t *testing.T) {
	got := Scan([]byte("  ;;;;;; banner\n;;x"))
	require.Equal(t, []Comment{
		{Line: 1, Col: 8, Text: " banner"},
		{Line: 2, Col: 2, Text: "x"},
	}, got)

	require.Equal(t, uint32(6), width(6))
	require.Panics(t, func() { width(-1) })
}

func TestAttachBlock(t *testing.T) {
	src := []byte(";; a\n;; b\n(type T (primitive T))\n")
	at := source.Pos{Line: 3, Col: 6}
	dc := Attach(Scan(src), []source.Pos{at})
	s, ok := dc.Get(at)
	require.True(t, ok)
	require.Equal(t, "a\nb", s)
}

func TestAttachGapResetsBlock(t *testing.T) {
	src := []byte(";; stale\n\n;; fresh\n(decl f () u8)\n")
	at := source.Pos{Line: 4, Col: 6}
	dc := Attach(Scan(src), []source.Pos{at})
	s, ok := dc.Get(at)
	require.True(t, ok)
	require.Equal(t, "fresh", s)
}

func TestAttachOnlyNextPosition(t *testing.T) {
	src := []byte(";; doc\n(type A (primitive A))\n(type B (primitive B))\n")
	a := source.Pos{Line: 2, Col: 6}
	b := source.Pos{Line: 3, Col: 6}
	dc := Attach(Scan(src), []source.Pos{b, a})
	_, ok := dc.Get(b)
	require.False(t, ok)
	s, ok := dc.Get(a)
	require.True(t, ok)
	require.Equal(t, "doc", s)
	require.Equal(t, 1, dc.Len())
}

func TestTrailingCommentGoesToNextLine(t *testing.T) {
	src := []byte("(type A (primitive A)) ;; about B\n(type B (primitive B))\n")
	a := source.Pos{Line: 1, Col: 6}
	b := source.Pos{Line: 2, Col: 6}
	dc := Attach(Scan(src), []source.Pos{a, b})
	_, ok := dc.Get(a)
	require.False(t, ok)
	s, ok := dc.Get(b)
	require.True(t, ok)
	require.Equal(t, "about B", s)
}

func TestNilComments(t *testing.T) {
	var dc *DocumentComments
	_, ok := dc.Get(source.Pos{Line: 1})
	require.False(t, ok)
	require.Equal(t, 0, dc.Len())
}
