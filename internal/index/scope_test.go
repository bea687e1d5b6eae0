package index

import (
	"testing"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/source"

	"github.com/stretchr/testify/require"
)

func varItem(name string, line uint32) Item {
	return Item{Kind: ItemVar, Name: ast.Ident{Name: name, Pos: source.Pos{Line: line}}}
}

func TestScopeShadowing(t *testing.T) {
	s := NewScopeStack()
	s.EnterItem("x", varItem("x", 1))
	s.EnterScope(func() {
		s.EnterItem("x", varItem("x", 2))
		it, ok := s.QueryItem("x")
		require.True(t, ok)
		require.Equal(t, uint32(2), it.Name.Pos.Line)
		require.Equal(t, 2, s.Depth())
	})
	it, ok := s.QueryItem("x")
	require.True(t, ok)
	require.Equal(t, uint32(1), it.Name.Pos.Line)
	require.Equal(t, 1, s.Depth())
}

func TestScopePoppedOnPanic(t *testing.T) {
	s := NewScopeStack()
	require.Panics(t, func() {
		s.EnterScope(func() {
			s.EnterItem("y", varItem("y", 3))
			panic("boom")
		})
	})
	require.Equal(t, 1, s.Depth())
	_, ok := s.QueryItem("y")
	require.False(t, ok)
}

func TestScopeWildcardNeverBound(t *testing.T) {
	s := NewScopeStack()
	s.EnterItem("_", varItem("_", 1))
	s.EnterScope(func() {
		s.EnterItem("_", varItem("_", 2))
		_, ok := s.QueryItem("_")
		require.False(t, ok)
	})
	it, ok := s.QueryItem("_")
	require.False(t, ok)
	require.True(t, it.IsDummy())
}

func TestQueryConstGlobalOnly(t *testing.T) {
	s := NewScopeStack()
	s.EnterItem("c", Item{Kind: ItemConst, Name: ast.Ident{Name: "c"}})
	s.EnterItem("t", Item{Kind: ItemType, Name: ast.Ident{Name: "t"}})
	s.EnterScope(func() {
		s.EnterItem("c", varItem("c", 4))
		it, ok := s.QueryConst("c")
		require.True(t, ok)
		require.Equal(t, ItemConst, it.Kind)

		it, ok = s.QueryItem("c")
		require.True(t, ok)
		require.Equal(t, ItemVar, it.Kind)

		_, ok = s.QueryConst("t")
		require.False(t, ok)
	})
}

func TestFixDeclTypeMonotonic(t *testing.T) {
	s := NewScopeStack()
	s.EnterItem("f", Item{Kind: ItemDecl, Name: ast.Ident{Name: "f"}})
	s.EnterItem("T", Item{Kind: ItemType, Name: ast.Ident{Name: "T"}})

	s.FixDeclType("f", DeclConstructor)
	s.FixDeclType("f", DeclExtractor)
	s.FixDeclType("f", DeclConstructor)
	s.FixDeclType("missing", DeclExtractor)
	s.FixDeclType("T", DeclExtractor)

	it, _ := s.QueryItem("f")
	require.True(t, it.DeclKind.Has(DeclExtractor))
	require.True(t, it.DeclKind.Has(DeclConstructor))
	require.Equal(t, "extractor|constructor", it.DeclKind.String())

	ty, _ := s.QueryItem("T")
	require.Equal(t, DeclKind(0), ty.DeclKind)
	_, ok := s.QueryItem("missing")
	require.False(t, ok)
}

func TestDeclKindHas(t *testing.T) {
	var k DeclKind
	require.False(t, k.Has(DeclExtractor))
	require.False(t, k.Has(DeclConstructor))
	k |= DeclExtractor
	require.True(t, k.Has(DeclExtractor))
	require.False(t, k.Has(DeclConstructor))
}

func TestSplitSymbol(t *testing.T) {
	at := source.Pos{Line: 7, Col: 3, Offset: 40}
	parts := SplitSymbol(ast.Ident{Name: "Foo.Bar", Pos: at})
	require.Len(t, parts, 2)
	require.Equal(t, "Foo", parts[0].Name)
	require.Equal(t, at, parts[0].Pos)
	require.Equal(t, "Bar", parts[1].Name)
	require.Equal(t, uint32(7), parts[1].Pos.Line)
	require.Equal(t, uint32(7), parts[1].Pos.Col)
	require.Equal(t, uint32(44), parts[1].Pos.Offset)

	plain := ast.Ident{Name: "Foo", Pos: at}
	require.Equal(t, []ast.Ident{plain}, SplitSymbol(plain))

	for _, name := range []string{"A.B.C", "A.", ".B"} {
		id := ast.Ident{Name: name, Pos: at}
		require.Equal(t, []ast.Ident{id}, SplitSymbol(id), name)
	}
}

func TestItemStrings(t *testing.T) {
	x := ast.Ident{Name: "x", Pos: source.Pos{Line: 1}}
	require.Equal(t, "dummy", Dummy.String())
	require.Equal(t, "item_var:x", Item{Kind: ItemVar, Name: x}.String())
	a := Access{Kind: AccessApplyVar, Access: x, Def: Item{Kind: ItemVar, Name: x}}
	require.Equal(t, "apply var x->item_var:x", a.String())

	_, ok := Dummy.DefLoc()
	require.False(t, ok)
	sp, ok := Item{Kind: ItemVar, Name: x}.DefLoc()
	require.True(t, ok)
	require.Equal(t, uint32(1), sp.Len)
}
