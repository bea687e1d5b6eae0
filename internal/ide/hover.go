package ide

import (
	"strings"

	"isle-analyzer/internal/index"

	"go.lsp.dev/protocol"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var heading = cases.Title(language.English)

// Hover describes the symbol under pos: its documentation comment, then
// what kind of item it is.
func Hover(p *index.Project, path string, pos protocol.Position) *protocol.Hover {
	ia, ok := Resolve(p, path, pos)
	if !ok {
		return nil
	}
	item := ia.Target()
	if item.IsDummy() {
		return nil
	}
	h := &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.PlainText, Value: HoverText(p, item)},
	}
	if loc, ok := p.MkLocation(ia.Occurrence()); ok {
		h.Range = &loc.Range
	}
	return h
}

// HoverText renders item with the comment attached to its definition.
func HoverText(p *index.Project, item index.Item) string {
	var b strings.Builder
	if sp, ok := item.DefLoc(); ok {
		if doc, ok := p.Comment(sp.Pos); ok {
			b.WriteString(doc)
			b.WriteString("\n")
		}
	}
	b.WriteString(heading.String(item.Kind.String()))
	b.WriteString(": ")
	b.WriteString(item.String())

	switch item.Kind {
	case index.ItemEnumVariant:
		for _, f := range item.Variant.Fields {
			b.WriteString("\n")
			b.WriteString(f.Name.Name)
			b.WriteString(":")
			b.WriteString(f.Type.Name)
		}
	case index.ItemDecl:
		b.WriteString("\n")
		b.WriteString(declSignature(item))
		b.WriteString("\nimplemented by: ")
		b.WriteString(item.DeclKind.String())
	case index.ItemVar, index.ItemConst, index.ItemEnumMemberField:
		if item.Ty.Name != "" {
			b.WriteString("\ntype: ")
			b.WriteString(item.Ty.Name)
		}
	}
	return b.String()
}

func declSignature(item index.Item) string {
	d := item.Decl
	var b strings.Builder
	b.WriteString("(decl ")
	if d.Pure {
		b.WriteString("pure ")
	}
	if d.Multi {
		b.WriteString("multi ")
	}
	if d.Partial {
		b.WriteString("partial ")
	}
	b.WriteString(d.Term.Name)
	b.WriteString(" (")
	for i, ty := range d.ArgTypes {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(ty.Name)
	}
	b.WriteString(") ")
	b.WriteString(d.RetType.Name)
	b.WriteString(")")
	return b.String()
}
