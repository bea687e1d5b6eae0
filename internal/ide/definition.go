package ide

import (
	"isle-analyzer/internal/index"

	"go.lsp.dev/protocol"
)

// gotoHandler stops at the first occurrence under the cursor.
type gotoHandler struct {
	at  Cursor
	hit *index.ItemOrAccess
}

func (h *gotoHandler) HandleItemOrAccess(_ *index.Project, ia index.ItemOrAccess) {
	if h.hit == nil && h.at.On(ia.Occurrence()) {
		h.hit = &ia
	}
}

func (h *gotoHandler) VisitBody() bool { return true }
func (h *gotoHandler) Finished() bool  { return h.hit != nil }

// Resolve returns the item or access under pos in path.
func Resolve(p *index.Project, path string, pos protocol.Position) (index.ItemOrAccess, bool) {
	at, ok := At(p, path, pos)
	if !ok {
		return index.ItemOrAccess{}, false
	}
	h := &gotoHandler{at: at}
	p.RunVisitorForFileID(at.Pos.File, h)
	if h.hit == nil {
		return index.ItemOrAccess{}, false
	}
	return *h.hit, true
}

// Definition returns the defining location of the symbol under pos.
// An item leads to itself; an unresolved access leads nowhere.
func Definition(p *index.Project, path string, pos protocol.Position) []protocol.Location {
	ia, ok := Resolve(p, path, pos)
	if !ok {
		return nil
	}
	sp, ok := ia.Target().DefLoc()
	if !ok {
		return nil
	}
	loc, ok := p.MkLocation(sp)
	if !ok {
		return nil
	}
	return []protocol.Location{loc}
}
