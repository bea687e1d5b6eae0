package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"isle-analyzer/internal/index"
)

func newSymbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "symbols [path]",
		Short:        "List the global definitions of an ISLE workspace",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runSymbols,
	}
	cmd.Flags().Int("max-width", 48, "truncate the detail column to this many cells (0 = no limit)")
	return cmd
}

func runSymbols(cmd *cobra.Command, args []string) error {
	maxWidth, err := cmd.Flags().GetInt("max-width")
	if err != nil {
		return fmt.Errorf("failed to get max-width flag: %w", err)
	}
	log := newLogger(cmd)
	defer func() { _ = log.Sync() }()

	a, err := analyze(cmd, startArg(args), log)
	if err != nil {
		return err
	}
	if a.Project == nil {
		return a.Errors
	}
	return writeSymbols(cmd.OutOrStdout(), collectSymbols(a.Project, a.Workspace.Root), maxWidth)
}

type symbolRow struct {
	Kind   string
	Name   string
	Detail string
	Loc    string
	line   uint32
}

// collectSymbols lists types, variants, fields, consts and decls grouped by
// file in source order.
func collectSymbols(p *index.Project, root string) []symbolRow {
	c := &index.Collector{}
	p.RunFullVisitor(c)

	rows := make([]symbolRow, 0, len(c.Items))
	for _, it := range c.Items {
		f, ok := p.Files().Lookup(it.Name.Pos.File)
		if !ok {
			continue
		}
		name := it.Name.Name
		if it.Kind == index.ItemEnumVariant || it.Kind == index.ItemEnumMemberName || it.Kind == index.ItemEnumMemberField {
			name = it.Enum + "." + name
		}
		rows = append(rows, symbolRow{
			Kind:   it.Kind.String(),
			Name:   name,
			Detail: symbolDetail(p, it),
			Loc:    fmt.Sprintf("%s:%d:%d", relTo(root, f.Path), it.Name.Pos.Line, it.Name.Pos.Col+1),
			line:   it.Name.Pos.Line,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		fi, _, _ := strings.Cut(rows[i].Loc, ":")
		fj, _, _ := strings.Cut(rows[j].Loc, ":")
		if fi != fj {
			return fi < fj
		}
		return rows[i].line < rows[j].line
	})
	return rows
}

func symbolDetail(p *index.Project, it index.Item) string {
	switch it.Kind {
	case index.ItemType:
		if it.TypeDef.IsEnum() {
			return fmt.Sprintf("enum, %d variants", len(it.TypeDef.Value.Variants))
		}
		return "primitive " + it.TypeDef.Value.Primitive.Name
	case index.ItemDecl:
		args := make([]string, len(it.Decl.ArgTypes))
		for i, a := range it.Decl.ArgTypes {
			args[i] = a.Name
		}
		sig := "(" + strings.Join(args, " ") + ") " + it.Decl.RetType.Name
		// биты реализации живут в глобальной области
		if g, ok := p.Scopes().QueryGlobal(it.Name.Name); ok && g.Kind == index.ItemDecl && g.DeclKind != 0 {
			sig += " [" + g.DeclKind.String() + "]"
		}
		return sig
	case index.ItemConst, index.ItemEnumMemberField:
		return it.Ty.Name
	case index.ItemEnumVariant:
		return fmt.Sprintf("%d fields", len(it.Variant.Fields))
	}
	return ""
}

// writeSymbols prints an aligned table; widths are measured in terminal cells.
func writeSymbols(out io.Writer, rows []symbolRow, maxWidth int) error {
	header := symbolRow{Kind: "KIND", Name: "NAME", Detail: "DETAIL", Loc: "LOCATION"}
	all := append([]symbolRow{header}, rows...)
	for i := range all {
		all[i].Detail = truncate(all[i].Detail, maxWidth)
	}

	var wKind, wName, wDetail int
	for _, r := range all {
		wKind = max(wKind, runewidth.StringWidth(r.Kind))
		wName = max(wName, runewidth.StringWidth(r.Name))
		wDetail = max(wDetail, runewidth.StringWidth(r.Detail))
	}

	w := bufio.NewWriter(out)
	for _, r := range all {
		line := runewidth.FillRight(r.Kind, wKind) + "  " +
			runewidth.FillRight(r.Name, wName) + "  " +
			runewidth.FillRight(r.Detail, wDetail) + "  " + r.Loc
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
