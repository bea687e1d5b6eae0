package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"isle-analyzer/internal/index"
	"isle-analyzer/internal/source"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "index [path]",
		Short:        "Dump every name occurrence with the definition it resolves to",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runIndex,
	}
	cmd.Flags().String("format", "json", "output format (json|msgpack)")
	return cmd
}

// indexLoc is a 1-based line and 0-based column inside a workspace file.
type indexLoc struct {
	File string `json:"file" msgpack:"file"`
	Line uint32 `json:"line" msgpack:"line"`
	Col  uint32 `json:"col" msgpack:"col"`
}

type indexEntry struct {
	Kind   string    `json:"kind" msgpack:"kind"`
	Name   string    `json:"name" msgpack:"name"`
	At     indexLoc  `json:"at" msgpack:"at"`
	Target string    `json:"target" msgpack:"target"`
	Def    *indexLoc `json:"def,omitempty" msgpack:"def,omitempty"`
}

type indexDump struct {
	Files   []string     `json:"files" msgpack:"files"`
	Entries []indexEntry `json:"entries" msgpack:"entries"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "json" && format != "msgpack" {
		return fmt.Errorf("unsupported format %q (must be json or msgpack)", format)
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
	if timingsEnabled(cmd) {
		fmt.Fprint(cmd.ErrOrStderr(), a.Timer.Summary())
	}
	return writeIndexDump(cmd.OutOrStdout(), buildIndexDump(a.Project, a.Workspace.Root), format)
}

// buildIndexDump walks the whole project, bodies included. Items point at
// themselves; accesses point at their definition or have no Def.
func buildIndexDump(p *index.Project, root string) indexDump {
	c := &index.Collector{Bodies: true}
	p.RunFullVisitor(c)

	loc := func(pos source.Pos) *indexLoc {
		f, ok := p.Files().Lookup(pos.File)
		if !ok {
			return nil
		}
		return &indexLoc{File: relTo(root, f.Path), Line: pos.Line, Col: pos.Col}
	}

	dump := indexDump{Files: make([]string, 0, p.Files().Len())}
	for _, path := range p.Paths() {
		dump.Files = append(dump.Files, relTo(root, path))
	}
	for _, it := range c.Items {
		at := loc(it.Name.Pos)
		if at == nil {
			continue
		}
		dump.Entries = append(dump.Entries, indexEntry{
			Kind:   "item " + it.Kind.String(),
			Name:   it.Name.Name,
			At:     *at,
			Target: it.String(),
			Def:    at,
		})
	}
	for _, acc := range c.Accesses {
		at := loc(acc.Access.Pos)
		if at == nil {
			continue
		}
		e := indexEntry{
			Kind:   acc.Kind.String(),
			Name:   acc.Access.Name,
			At:     *at,
			Target: acc.Def.String(),
		}
		if _, def, ok := acc.AccessDefLoc(); ok {
			e.Def = loc(def.Pos)
		}
		dump.Entries = append(dump.Entries, e)
	}
	return dump
}

func writeIndexDump(out io.Writer, dump indexDump, format string) error {
	if format == "msgpack" {
		return msgpack.NewEncoder(out).Encode(dump)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

func relTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
