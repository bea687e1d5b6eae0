package index

import (
	"os"
	"path/filepath"
	"testing"

	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/observ"
	"isle-analyzer/internal/source"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

const enumSrc = `(type i32 (primitive i32))
(type A (enum (X) (Y (n i32))))
(decl f (A) i32)
(rule (f (A.X)) 1)
`

func build(t *testing.T, srcs ...Source) *Project {
	t.Helper()
	p, err := FromSources(srcs)
	require.NoError(t, err)
	return p
}

func collect(p *Project) *Collector {
	c := &Collector{Bodies: true}
	p.RunFullVisitor(c)
	return c
}

// pairs maps every resolved occurrence to its definition.
func pairs(p *Project) map[source.Span]source.Span {
	out := make(map[source.Span]source.Span)
	for _, a := range collect(p).Accesses {
		occ, def, ok := a.AccessDefLoc()
		if ok {
			out[occ] = def
		}
	}
	return out
}

func findAccess(t *testing.T, c *Collector, name string, line uint32) Access {
	t.Helper()
	for _, a := range c.Accesses {
		if a.Access.Name == name && a.Access.Pos.Line == line {
			return a
		}
	}
	t.Fatalf("no access %q on line %d", name, line)
	return Access{}
}

func TestEnumVariantAccess(t *testing.T) {
	p := build(t, Source{Path: "/w/a.isle", Content: []byte(enumSrc)})
	c := collect(p)

	x := findAccess(t, c, "X", 4)
	require.Equal(t, AccessApplyVariant, x.Kind)
	require.Equal(t, "A", x.Enum)
	require.Equal(t, uint32(12), x.Access.Pos.Col)
	def, ok := x.Def.DefLoc()
	require.True(t, ok)
	require.Equal(t, uint32(2), def.Pos.Line)
	require.Equal(t, uint32(15), def.Pos.Col)
	require.Equal(t, uint32(1), def.Len)

	a := findAccess(t, c, "A", 4)
	require.Equal(t, AccessApplyType, a.Kind)
	require.Equal(t, uint32(10), a.Access.Pos.Col)
	require.Equal(t, ItemType, a.Def.Kind)

	head := findAccess(t, c, "f", 4)
	require.Equal(t, AccessImplConstructor, head.Kind)
	require.Equal(t, ItemDecl, head.Def.Kind)
	require.True(t, head.Def.DeclKind.Has(DeclConstructor))

	var uses int
	for _, acc := range c.Accesses {
		if _, d, ok := acc.AccessDefLoc(); ok && d == def {
			uses++
		}
	}
	require.Equal(t, 1, uses)
}

func TestFullRebuildIdempotent(t *testing.T) {
	src := Source{Path: "/w/a.isle", Content: []byte(enumSrc)}
	first := pairs(build(t, src))
	second := pairs(build(t, src))
	require.NotEmpty(t, first)
	require.Equal(t, first, second)
}

func TestUnresolvedIsDummy(t *testing.T) {
	p := build(t, Source{Path: "/w/a.isle", Content: []byte("(decl g (Missing) Nope)\n(rule (g x) (h x))\n")})
	c := collect(p)
	for _, name := range []string{"Missing", "Nope"} {
		require.True(t, findAccess(t, c, name, 1).Def.IsDummy(), name)
	}
	require.True(t, findAccess(t, c, "h", 2).Def.IsDummy())
	xv := findAccess(t, c, "x", 2)
	require.Equal(t, AccessApplyVar, xv.Kind)
	require.Equal(t, ItemVar, xv.Def.Kind)
	require.Equal(t, "Missing", xv.Def.Ty.Name)
}

func TestRuleBodyScopes(t *testing.T) {
	src := `(type u8 (primitive u8))
(decl pair (u8 u8) u8)
(decl get (u8) u8)
(extern constructor pair pair_impl)
(extern const $K u8)
(rule (get a)
      (if-let b (get a))
      (let ((c u8 (pair a b))) (pair c $K)))
`
	p := build(t, Source{Path: "/w/r.isle", Content: []byte(src)})
	c := collect(p)

	var vars []string
	for _, it := range c.Items {
		if it.Kind == ItemVar {
			vars = append(vars, it.Name.Name+":"+it.Ty.Name)
		}
	}
	require.Equal(t, []string{"a:u8", "b:u8", "c:u8"}, vars)

	k := findAccess(t, c, "K", 8)
	require.Equal(t, AccessApplyConst, k.Kind)
	require.Equal(t, ItemConst, k.Def.Kind)

	cv := findAccess(t, c, "c", 8)
	require.Equal(t, AccessApplyVar, cv.Kind)
	require.Equal(t, ItemVar, cv.Def.Kind)

	ext := findAccess(t, c, "pair", 4)
	require.Equal(t, AccessDeclExtern, ext.Kind)
	require.True(t, ext.Def.DeclKind.Has(DeclConstructor))

	require.Equal(t, 1, p.Scopes().Depth())
	_, ok := p.Scopes().QueryItem("a")
	require.False(t, ok)
}

func TestExtractorBody(t *testing.T) {
	src := `(type u8 (primitive u8))
(type Op (enum (Add (x u8) (y u8))))
(decl lhs (u8) Op)
(extractor (lhs a) (Op.Add a _))
`
	p := build(t, Source{Path: "/w/e.isle", Content: []byte(src)})
	c := collect(p)

	impl := findAccess(t, c, "lhs", 4)
	require.Equal(t, AccessImplExtractor, impl.Kind)
	require.True(t, impl.Def.DeclKind.Has(DeclExtractor))

	use := findAccess(t, c, "a", 4)
	require.Equal(t, AccessExtractVar, use.Kind)
	require.Equal(t, "u8", use.Def.Ty.Name)

	add := findAccess(t, c, "Add", 4)
	require.Equal(t, ItemEnumVariant, add.Def.Kind)
	require.Len(t, add.Def.Variant.Fields, 2)
}

func TestClassificationAcrossFiles(t *testing.T) {
	a := Source{Path: "/w/a.isle", Content: []byte("(type u8 (primitive u8))\n(decl both (u8) u8)\n(extern extractor both both_ext)\n")}
	b := Source{Path: "/w/b.isle", Content: []byte("(rule (both x) x)\n")}
	p := build(t, a, b)

	check := func() {
		it, ok := p.Scopes().QueryGlobal("both")
		require.True(t, ok)
		require.True(t, it.DeclKind.Has(DeclExtractor))
		require.True(t, it.DeclKind.Has(DeclConstructor))
	}
	check()
	p.RunVisitorForFile("/w/a.isle", &Collector{})
	check()
}

func TestUpdatePreservesOtherFiles(t *testing.T) {
	a := Source{Path: "/w/a.isle", Content: []byte("(type u8 (primitive u8))\n(decl f (u8) u8)\n")}
	b := Source{Path: "/w/b.isle", Content: []byte("(type u16 (primitive u16))\n(decl g (u16) u8)\n(rule (g x) x)\n")}
	p := build(t, a, b)

	bFile := func() []Access {
		c := &Collector{Bodies: true}
		require.True(t, p.RunVisitorForFile("/w/b.isle", c))
		return c.Accesses
	}
	before := bFile()

	err := p.UpdateDefs("/w/a.isle", []byte(";; edited\n(type u8 (primitive u8))\n(decl f (u8 u8) u8)\n(decl h () u8)\n"))
	require.NoError(t, err)
	after := bFile()

	require.Equal(t, len(before), len(after))
	for i := range before {
		require.Equal(t, before[i].Access, after[i].Access)
		require.Equal(t, before[i].Def.Kind, after[i].Def.Kind)
		require.Equal(t, before[i].Def.Name.Pos.File, after[i].Def.Name.Pos.File)
	}
	h, ok := p.Scopes().QueryGlobal("h")
	require.True(t, ok)
	require.Equal(t, ItemDecl, h.Kind)
	require.Equal(t, uint32(4), h.Name.Pos.Line)
}

func TestUpdateShrinkLeavesPlaceholders(t *testing.T) {
	a := Source{Path: "/w/a.isle", Content: []byte("(type u8 (primitive u8))\n(decl f (u8) u8)\n(decl g (u8) u8)\n")}
	p := build(t, a)
	require.Equal(t, 3, p.SlotCount())

	require.NoError(t, p.UpdateDefs("/w/a.isle", []byte("(type u8 (primitive u8))\n")))
	require.Equal(t, 3, p.SlotCount())
	require.Len(t, p.Defs(), 1)

	_, ok := p.Scopes().QueryGlobal("f")
	require.False(t, ok, "removed decls are pruned on rebuild")
}

func TestUpdateFailureKeepsIndex(t *testing.T) {
	p := build(t, Source{Path: "/w/a.isle", Content: []byte(enumSrc)})
	before := pairs(p)

	err := p.UpdateDefs("/w/a.isle", []byte("(type"))
	require.Error(t, err)
	_, ok := diag.AsErrors(err)
	require.True(t, ok)
	require.Equal(t, before, pairs(p))

	err = p.UpdateDefs("/w/other.isle", []byte(""))
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestAddFile(t *testing.T) {
	p := build(t, Source{Path: "/w/a.isle", Content: []byte("(type u8 (primitive u8))\n")})
	require.NoError(t, p.AddFile("/w/b.isle", []byte("(decl f (u8) u8)\n")))
	c := collect(p)
	u8 := findAccess(t, c, "u8", 1)
	require.Equal(t, ItemType, u8.Def.Kind)
	id, ok := p.FileID("/w/b.isle")
	require.True(t, ok)
	require.Equal(t, id, u8.Access.Pos.File)
}

func TestNewReportsParseErrors(t *testing.T) {
	_, err := FromSources([]Source{
		{Path: "/w/ok.isle", Content: []byte("(type u8 (primitive u8))\n")},
		{Path: "/w/bad.isle", Content: []byte("(decl)\n")},
	})
	require.Error(t, err)
	errs, ok := diag.AsErrors(err)
	require.True(t, ok)
	require.NotEmpty(t, errs)
	require.Equal(t, source.FileID(1), errs[0].Primary.Pos.File)
}

func TestNewFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.isle")
	require.NoError(t, os.WriteFile(path, []byte(enumSrc), 0o600))

	timer := observ.NewTimer()
	p, err := New([]string{path}, WithTimer(timer))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.ToSlash(path)}, p.Paths())
	require.Len(t, timer.Report().Phases, 4)

	_, err = New([]string{filepath.Join(dir, "missing.isle")})
	errs, ok := diag.AsErrors(err)
	require.True(t, ok)
	require.Equal(t, diag.IOLoadFileError, errs[0].Code)
}

func TestMkLocation(t *testing.T) {
	p := build(t, Source{Path: "/w/a.isle", Content: []byte("(type u8 (primitive u8))\n(extern const $K u8)\n")})
	k, ok := p.Scopes().QueryConst("K")
	require.True(t, ok)
	sp, ok := k.DefLoc()
	require.True(t, ok)
	loc, ok := p.MkLocation(sp)
	require.True(t, ok)
	require.Equal(t, "/w/a.isle", loc.URI.Filename())
	require.Equal(t, uint32(1), loc.Range.Start.Line)
	require.Equal(t, uint32(15), loc.Range.Start.Character)
	require.Equal(t, uint32(16), loc.Range.End.Character)

	_, ok = p.MkLocation(source.Span{Pos: source.NoPos})
	require.False(t, ok)

	// длина берётся из таблицы токенов
	loc, ok = p.MkLocation(source.Span{Pos: source.Pos{File: 0, Offset: 1, Line: 1, Col: 1}})
	require.True(t, ok)
	require.Equal(t, uint32(5), loc.Range.End.Character)
}

func TestMkLocationCountsUTF16(t *testing.T) {
	// é🙂 занимает 6 байт и 3 единицы UTF-16
	src := "(type u8 (primitive u8))\n(type é🙂 (primitive u8)) (extern const $K é🙂)\n"
	p := build(t, Source{Path: "/w/a.isle", Content: []byte(src)})

	ty, ok := p.Scopes().QueryGlobal("é🙂")
	require.True(t, ok)
	sp, ok := ty.DefLoc()
	require.True(t, ok)
	loc, ok := p.MkLocation(sp)
	require.True(t, ok)
	require.Equal(t, protocol.Position{Line: 1, Character: 6}, loc.Range.Start)
	require.Equal(t, protocol.Position{Line: 1, Character: 9}, loc.Range.End)

	k, ok := p.Scopes().QueryConst("K")
	require.True(t, ok)
	sp, ok = k.DefLoc()
	require.True(t, ok)
	loc, ok = p.MkLocation(sp)
	require.True(t, ok)
	require.Equal(t, protocol.Position{Line: 1, Character: 41}, loc.Range.Start)
	require.Equal(t, protocol.Position{Line: 1, Character: 42}, loc.Range.End)
}

func TestFileWalkKeepsGlobalOwner(t *testing.T) {
	p := build(t,
		Source{Path: "/w/a.isle", Content: []byte("(type u32 (primitive u32))\n")},
		Source{Path: "/w/b.isle", Content: []byte("(type u32 (primitive u32))\n")},
		Source{Path: "/w/c.isle", Content: []byte("(decl g (u32) u32)\n(rule (g x) x)\n")},
	)
	owner := func() string {
		it, ok := p.Scopes().QueryGlobal("u32")
		require.True(t, ok)
		sp, ok := it.DefLoc()
		require.True(t, ok)
		return p.Files().Get(sp.Pos.File).Path
	}
	// побеждает последнее определение
	require.Equal(t, "/w/b.isle", owner())

	require.True(t, p.RunVisitorForFile("/w/a.isle", &Collector{Bodies: true}))
	require.Equal(t, "/w/b.isle", owner())

	// обход своего файла ничего не меняет
	require.True(t, p.RunVisitorForFile("/w/b.isle", &Collector{Bodies: true}))
	require.Equal(t, "/w/b.isle", owner())
	g, ok := p.Scopes().QueryGlobal("g")
	require.True(t, ok)
	require.True(t, g.DeclKind.Has(DeclConstructor))

	p.RunFullVisitor(&Collector{})
	require.Equal(t, "/w/b.isle", owner())
}

func TestDocComments(t *testing.T) {
	src := ";; Machine register.\n(type Reg (primitive Reg))\n\n;; Build it.\n;; Twice.\n(decl mk (Reg) Reg)\n"
	p := build(t, Source{Path: "/w/a.isle", Content: []byte(src)})

	reg, _ := p.Scopes().QueryGlobal("Reg")
	doc, ok := p.Comment(reg.Name.Pos)
	require.True(t, ok)
	require.Equal(t, "Machine register.", doc)

	mk, _ := p.Scopes().QueryGlobal("mk")
	doc, ok = p.Comment(mk.Name.Pos)
	require.True(t, ok)
	require.Equal(t, "Build it.\nTwice.", doc)
}
