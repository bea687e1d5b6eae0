package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetKeepsIDOnReplace(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("a.isle", []byte("(type u8 (primitive u8))"), 0)
	id2 := fs.Add("b.isle", []byte(""), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", id1, id2)
	}

	again := fs.Add("./a.isle", []byte("(type u16 (primitive u16))"), FileVirtual)
	if again != id1 {
		t.Fatalf("expected re-added path to keep id %d, got %d", id1, again)
	}
	if got := string(fs.Get(id1).Content); got != "(type u16 (primitive u16))" {
		t.Fatalf("content not replaced: %q", got)
	}
	if fs.Get(id1).Flags&FileVirtual == 0 {
		t.Fatal("expected FileVirtual flag after replace")
	}
	if fs.Len() != 2 {
		t.Fatalf("expected 2 files, got %d", fs.Len())
	}
}

func TestVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.Add("a.isle", []byte("a\nb\n"), FileVirtual)
	file := fs.Get(id)

	expected := []uint32{1, 3} // позиции символов \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
}

func TestPosAt(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.isle", []byte("(a\n  b)\nc"), FileVirtual)
	f := fs.Get(id)

	cases := []struct {
		off       uint32
		line, col uint32
	}{
		{0, 1, 0},
		{1, 1, 1},
		{2, 1, 2}, // сам \n принадлежит первой строке
		{5, 2, 2},
		{8, 3, 0},
	}
	for _, tc := range cases {
		p := f.PosAt(tc.off)
		if p.Line != tc.line || p.Col != tc.col || p.Offset != tc.off || p.File != id {
			t.Errorf("PosAt(%d) = %+v, want line %d col %d", tc.off, p, tc.line, tc.col)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.isle")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBF(a)\r\n(b)\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "(a)\n(b)\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if start, end, ok := f.lineBounds(2); !ok || string(f.Content[start:end]) != "(b)" {
		t.Fatalf("line 2 = %q", f.Content[start:end])
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Pos: Pos{File: 0, Line: 3, Col: 4}, Len: 3}
	if !s.Contains(Pos{File: 0, Line: 3, Col: 4}) || !s.Contains(Pos{File: 0, Line: 3, Col: 7}) {
		t.Fatal("expected start and end column to be inside")
	}
	if s.Contains(Pos{File: 0, Line: 3, Col: 8}) || s.Contains(Pos{File: 1, Line: 3, Col: 5}) {
		t.Fatal("unexpected containment")
	}
	if NoPos.Known() {
		t.Fatal("NoPos must not be known")
	}
}
