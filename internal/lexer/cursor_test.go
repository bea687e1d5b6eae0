package lexer

import (
	"testing"

	"isle-analyzer/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.Add("test.isle", []byte(content), source.FileVirtual)
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
	if !cursor.EOF() {
		t.Fatal("expected EOF")
	}
	if cursor.Bump() != 0 || cursor.Peek() != 0 {
		t.Fatal("reading past EOF must return 0")
	}
}

func TestCursorMarkAndPos(t *testing.T) {
	cursor := NewCursor(createFile("ab\ncd"))
	cursor.Bump()
	cursor.Bump()
	cursor.Bump()
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	if got := cursor.TextFrom(m); got != "cd" {
		t.Fatalf("TextFrom = %q", got)
	}
	p := cursor.PosOf(m)
	if p.Line != 2 || p.Col != 0 || p.Offset != 3 {
		t.Fatalf("PosOf = %+v", p)
	}
}

func TestCursorPeek2AndEat(t *testing.T) {
	cursor := NewCursor(createFile("(;"))
	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != '(' || b1 != ';' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	if cursor.Eat(';') {
		t.Fatal("Eat must not consume a mismatch")
	}
	if !cursor.Eat('(') || !cursor.Eat(';') {
		t.Fatal("Eat failed")
	}
	if _, _, ok := cursor.Peek2(); ok {
		t.Fatal("Peek2 at EOF must fail")
	}
}
