package ide

import (
	"isle-analyzer/internal/index"
	"isle-analyzer/internal/source"

	"go.lsp.dev/protocol"
)

type refsHandler struct {
	def  source.Pos
	refs map[source.Span]struct{}
}

func (h *refsHandler) HandleItemOrAccess(_ *index.Project, ia index.ItemOrAccess) {
	if ia.Access == nil {
		return
	}
	occ, def, ok := ia.Access.AccessDefLoc()
	if ok && def.Pos == h.def {
		h.refs[occ] = struct{}{}
	}
}

func (h *refsHandler) VisitBody() bool { return true }
func (h *refsHandler) Finished() bool  { return false }

// ReferencesTo collects every use of the definition at def across the
// project, sorted by position. The definition itself is included on request.
func ReferencesTo(p *index.Project, def source.Span, includeDecl bool) []source.Span {
	h := &refsHandler{def: def.Pos, refs: make(map[source.Span]struct{})}
	p.RunFullVisitor(h)
	if includeDecl {
		h.refs[def] = struct{}{}
	}
	out := make([]source.Span, 0, len(h.refs))
	for sp := range h.refs {
		out = append(out, sp)
	}
	sortSpans(out)
	return out
}

// References answers textDocument/references at pos.
func References(p *index.Project, path string, pos protocol.Position, includeDecl bool) []protocol.Location {
	ia, ok := Resolve(p, path, pos)
	if !ok {
		return nil
	}
	def, ok := ia.Target().DefLoc()
	if !ok {
		return nil
	}
	return locations(p, ReferencesTo(p, def, includeDecl))
}
