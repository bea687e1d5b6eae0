package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/lexer"
	"isle-analyzer/internal/source"
	"isle-analyzer/internal/token"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.isle",
		Short: "Tokenize an ISLE source file",
		Long:  `Tokenize breaks down an ISLE source file into its constituent tokens`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

type tokenJSON struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	Len     uint32 `json:"len"`
	Keyword bool   `json:"keyword,omitempty"`
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	if err := colorMode(cmd, cmd.ErrOrStderr()); err != nil {
		return err
	}

	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	// Выводим диагностику в stderr, если есть
	if bag.Len() > 0 {
		bag.Sort()
		if err := writeDiagnostics(cmd.ErrOrStderr(), bag.Items(), fs, ""); err != nil {
			return err
		}
	}

	if format == "json" {
		return formatTokensJSON(cmd.OutOrStdout(), toks)
	}
	return formatTokensPretty(cmd.OutOrStdout(), toks)
}

func formatTokensPretty(out io.Writer, toks []token.Token) error {
	w := bufio.NewWriter(out)
	for _, tok := range toks {
		kind := tok.Kind.String()
		if tok.IsKeyword() {
			kind = "keyword"
		}
		if _, err := fmt.Fprintf(w, "%d:%d\t%-8s\t%s\n", tok.Pos.Line, tok.Pos.Col+1, kind, tok.Text); err != nil {
			return err
		}
	}
	return w.Flush()
}

func formatTokensJSON(out io.Writer, toks []token.Token) error {
	items := make([]tokenJSON, len(toks))
	for i, tok := range toks {
		items[i] = tokenJSON{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Line:    tok.Pos.Line,
			Col:     tok.Pos.Col,
			Len:     tok.Len(),
			Keyword: tok.IsKeyword(),
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
