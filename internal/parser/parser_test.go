package parser

import (
	"fmt"
	"strings"
	"testing"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, src string) ([]ast.Def, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.isle", []byte(src), source.FileVirtual)
	bag := diag.NewBag(0)
	defs := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return defs, bag
}

func mustParse(t *testing.T, src string) []ast.Def {
	t.Helper()
	defs, bag := parseSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return defs
}

func TestParseTypes(t *testing.T) {
	defs := mustParse(t, `
(type u32 (primitive u32))
(type Inst extern nodebug (primitive Inst))
(type A (enum (X) (Y (n u32) (m u32)) Z))
`)
	if len(defs) != 3 {
		t.Fatalf("expected 3 defs, got %d", len(defs))
	}
	prim := defs[0].Type
	if prim.Name.Name != "u32" || prim.IsEnum() || prim.Value.Primitive.Name != "u32" {
		t.Fatalf("unexpected primitive %+v", prim)
	}
	if !defs[1].Type.IsExtern || !defs[1].Type.IsNoDebug {
		t.Fatalf("expected extern nodebug type")
	}
	enum := defs[2].Type
	if !enum.IsEnum() || len(enum.Value.Variants) != 3 {
		t.Fatalf("unexpected enum %+v", enum)
	}
	y := enum.Value.Variants[1]
	if y.Name.Name != "Y" || len(y.Fields) != 2 || y.Fields[1].Name.Name != "m" || y.Fields[1].Type.Name != "u32" {
		t.Fatalf("unexpected variant %+v", y)
	}
	if defs[2].Pos.Line != 4 || defs[2].Pos.Col != 1 {
		t.Fatalf("def position should be the keyword, got %v", defs[2].Pos)
	}
}

func TestParseDeclAndExterns(t *testing.T) {
	defs := mustParse(t, `
(decl pure partial iadd (Value Value) Inst)
(extern constructor iadd build_iadd)
(extern extractor infallible iadd match_iadd)
(extern const $I64 Type)
(convert Value Reg put_in_reg)
`)
	d := defs[0].Decl
	if !d.Pure || !d.Partial || d.Multi || d.Term.Name != "iadd" || len(d.ArgTypes) != 2 || d.RetType.Name != "Inst" {
		t.Fatalf("unexpected decl %+v", d)
	}
	ctor := defs[1].Extern
	if ctor.Kind != ast.ExternConstructor || ctor.Func.Name != "build_iadd" {
		t.Fatalf("unexpected extern %+v", ctor)
	}
	if defs[1].Pos != ctor.Term.Pos {
		t.Fatal("extern def position must be the term name")
	}
	ext := defs[2].Extern
	if ext.Kind != ast.ExternExtractor || !ext.Infallible {
		t.Fatalf("unexpected extern extractor %+v", ext)
	}
	c := defs[3].Extern
	if c.Kind != ast.ExternConst || c.Term.Name != "I64" || c.Type.Name != "Type" {
		t.Fatalf("unexpected extern const %+v", c)
	}
	if c.Term.Pos.Col != 15 {
		t.Fatalf("const name should point past '$', got col %d", c.Term.Pos.Col)
	}
	conv := defs[4].Converter
	if conv.Inner.Name != "Value" || conv.Outer.Name != "Reg" || conv.Term.Name != "put_in_reg" {
		t.Fatalf("unexpected converter %+v", conv)
	}
}

func TestParseRule(t *testing.T) {
	defs := mustParse(t, `
(rule lower_add 10 (lower (iadd x @ (A.X) _ $C 5 (and y z)))
  (if-let (B.Y n) (get y))
  (if (check z))
  (let ((t u32 (add x 1))) (emit t $K)))
`)
	r := defs[0].Rule
	if r.Name == nil || r.Name.Name != "lower_add" || r.Prio == nil || *r.Prio != 10 {
		t.Fatalf("unexpected rule header %+v", r)
	}
	if head, _ := r.Pattern.Head(); head.Name != "lower" {
		t.Fatalf("unexpected head %v", head)
	}
	args := r.Pattern.Args[0].Args
	if len(args) != 5 {
		t.Fatalf("expected 5 iadd args, got %d", len(args))
	}
	if args[0].Kind != ast.PatBind || args[0].Name.Name != "x" || args[0].Sub.Kind != ast.PatTerm || args[0].Sub.Name.Name != "A.X" {
		t.Fatalf("unexpected bind pattern %+v", args[0])
	}
	if args[1].Kind != ast.PatWildcard || args[2].Kind != ast.PatConst || args[2].Name.Name != "C" || args[3].Kind != ast.PatInt {
		t.Fatalf("unexpected simple patterns %+v", args[1:4])
	}
	if args[4].Kind != ast.PatAnd || len(args[4].Args) != 2 {
		t.Fatalf("unexpected and pattern %+v", args[4])
	}
	if len(r.IfLets) != 2 {
		t.Fatalf("expected 2 if-lets, got %d", len(r.IfLets))
	}
	if r.IfLets[1].Pattern.Kind != ast.PatWildcard || r.IfLets[1].Expr.Name.Name != "check" {
		t.Fatalf("`if` must become a wildcard if-let, got %+v", r.IfLets[1])
	}
	if r.Expr.Kind != ast.ExprLet || len(r.Expr.Defs) != 1 || r.Expr.Defs[0].Type.Name != "u32" {
		t.Fatalf("unexpected let %+v", r.Expr)
	}
	body := r.Expr.Body
	if body.Kind != ast.ExprTerm || body.Args[1].Kind != ast.ExprConst || body.Args[1].Name.Name != "K" {
		t.Fatalf("unexpected let body %+v", body)
	}
}

func TestParseRuleWithoutNameOrPrio(t *testing.T) {
	defs := mustParse(t, "(rule -3 (f x) x)\n(rule (g) 0x10)")
	if defs[0].Rule.Name != nil || defs[0].Rule.Prio == nil || *defs[0].Rule.Prio != -3 {
		t.Fatalf("unexpected rule %+v", defs[0].Rule)
	}
	if defs[1].Rule.Prio != nil || defs[1].Rule.Expr.Kind != ast.ExprInt {
		t.Fatalf("unexpected rule %+v", defs[1].Rule)
	}
}

func TestParseExtractor(t *testing.T) {
	defs := mustParse(t, "(extractor (is_zero x) (iconst (u64_from_imm64 0)))")
	e := defs[0].Extractor
	if e.Term.Name != "is_zero" || len(e.Args) != 1 || e.Template.Name.Name != "iconst" {
		t.Fatalf("unexpected extractor %+v", e)
	}
}

func TestParseRecoversAtTopLevel(t *testing.T) {
	defs, bag := parseSource(t, `
(type u8 (primitive u8))
(bogus a b (c))
(decl f (u8) u8)
(rule (f x) (let ((y)) y))
(decl g () u8)
`)
	if !bag.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(bag.Items()) != 2 {
		t.Fatalf("expected 2 diagnostics, got %s", diagnosticsSummary(bag))
	}
	if bag.Items()[0].Code != diag.SynUnknownDef {
		t.Fatalf("unexpected first diagnostic %s", diagnosticsSummary(bag))
	}
	var names []string
	for _, d := range defs {
		switch d.Kind {
		case ast.DefType:
			names = append(names, d.Type.Name.Name)
		case ast.DefDecl:
			names = append(names, d.Decl.Term.Name)
		}
	}
	if strings.Join(names, ",") != "u8,f,g" {
		t.Fatalf("unexpected recovered defs %v", names)
	}
}

func TestParseUnclosed(t *testing.T) {
	_, bag := parseSource(t, "(decl f (u8) u8")
	if !bag.HasErrors() || bag.Items()[0].Code != diag.SynUnclosedParen {
		t.Fatalf("expected unclosed paren, got %s", diagnosticsSummary(bag))
	}
}

func TestParseReturnsErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("bad.isle", []byte("(type)"), source.FileVirtual)
	_, err := Parse(fs.Get(id))
	errs, ok := diag.AsErrors(err)
	if !ok || len(errs) == 0 || errs[0].Code.Class() != diag.ClassParse {
		t.Fatalf("expected parse errors, got %v", err)
	}
}

func TestMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("bad.isle", []byte("(a) (b) (c) (d)"), source.FileVirtual)
	bag := diag.NewBag(0)
	ParseFile(fs.Get(id), Options{MaxErrors: 2, Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}
