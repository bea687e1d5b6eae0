package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/lexer"
	"isle-analyzer/internal/source"
	"isle-analyzer/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.Add("test.isle", []byte(input), source.FileVirtual)
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\nerrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.diagnostics)
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	if len(reporter.diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", reporter.diagnostics)
	}
}

func TestTypeDefinition(t *testing.T) {
	expectTokens(t, "(type u32 (primitive u32))", []token.Kind{
		token.LParen, token.Symbol, token.Symbol,
		token.LParen, token.Symbol, token.Symbol, token.RParen,
		token.RParen,
	})
}

func TestSymbolsWithPunctuation(t *testing.T) {
	tests := []string{"if-let", "A.B", "$I64", "iadd<", "u8->u16", "_", "x.y.z", "lower_icmp"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			lx, rep := makeTestLexer(in)
			tok := lx.Next()
			if tok.Kind != token.Symbol || tok.Text != in {
				t.Fatalf("expected symbol %q, got %v %q", in, tok.Kind, tok.Text)
			}
			if len(rep.diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics %v", rep.diagnostics)
			}
		})
	}
}

func TestBindPatternSplitsAt(t *testing.T) {
	expectTokens(t, "x@(A.B y)", []token.Kind{
		token.Symbol, token.At, token.LParen, token.Symbol, token.Symbol, token.RParen,
	})
}

func TestNumbers(t *testing.T) {
	tests := []string{"0", "42", "-1", "0x1F", "0xffff_ffff", "0o17", "0b1010", "1_000"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			lx, rep := makeTestLexer(in)
			tok := lx.Next()
			if tok.Kind != token.Int || tok.Text != in {
				t.Fatalf("expected int %q, got %v %q", in, tok.Kind, tok.Text)
			}
			if tok.Len() != 0 {
				t.Fatalf("ints must have zero length")
			}
			if len(rep.diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics %v", rep.diagnostics)
			}
		})
	}
}

func TestBadNumbers(t *testing.T) {
	for _, in := range []string{"12ab", "0x", "0b102"} {
		t.Run(in, func(t *testing.T) {
			lx, rep := makeTestLexer(in)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Fatalf("expected invalid token, got %v %q", tok.Kind, tok.Text)
			}
			if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexBadNumber {
				t.Fatalf("expected one LexBadNumber, got %v", rep.diagnostics)
			}
		})
	}
}

func TestLoneMinusIsError(t *testing.T) {
	lx, rep := makeTestLexer("- x")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid, got %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.Symbol || tok.Text != "x" {
		t.Fatalf("lexing must continue after an error, got %v", tok)
	}
	if len(rep.diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(rep.diagnostics))
	}
}

func TestComments(t *testing.T) {
	input := ";; doc\n(decl (; inline (; nested ;) ;) f (u8) u8) ; trailing\n"
	expectTokens(t, input, []token.Kind{
		token.LParen, token.Symbol, token.Symbol,
		token.LParen, token.Symbol, token.RParen, token.Symbol, token.RParen,
	})
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, rep := makeTestLexer("(a) (; never closed")
	toks := collectAllTokens(lx)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %v", tokensToString(toks))
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected unterminated comment diagnostic, got %v", rep.diagnostics)
	}
}

func TestPositions(t *testing.T) {
	lx, _ := makeTestLexer("(rule\n  (A.B x) 1)")
	toks := collectAllTokens(lx)
	want := []struct {
		text      string
		line, col uint32
	}{
		{"(", 1, 0}, {"rule", 1, 1}, {"(", 2, 2}, {"A.B", 2, 3}, {"x", 2, 7}, {")", 2, 8}, {"1", 2, 10}, {")", 2, 11},
	}
	if len(toks) != len(want) {
		t.Fatalf("unexpected tokens %v", tokensToString(toks))
	}
	for i, w := range want {
		got := toks[i]
		if got.Text != w.text || got.Pos.Line != w.line || got.Pos.Col != w.col {
			t.Errorf("token %d: got %q at %d:%d, want %q at %d:%d", i, got.Text, got.Pos.Line, got.Pos.Col, w.text, w.line, w.col)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must be sticky, got %v", n.Kind)
	}
}

func TestTokenizeDropsInvalid(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("t.isle", []byte("(a - b)"), source.FileVirtual)
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %v", tokensToString(toks))
	}
	if !bag.HasErrors() {
		t.Fatal("expected an error for lone '-'")
	}
}
