package ide

import (
	"isle-analyzer/internal/index"

	"go.lsp.dev/protocol"
)

// InlayHintKindType is the LSP 3.17 kind for type hints.
const InlayHintKindType = 1

// InlayHint mirrors the LSP 3.17 structure, which go.lsp.dev/protocol
// does not define.
type InlayHint struct {
	Position     protocol.Position    `json:"position"`
	Label        []InlayHintLabelPart `json:"label"`
	Kind         int                  `json:"kind,omitempty"`
	PaddingLeft  bool                 `json:"paddingLeft,omitempty"`
	PaddingRight bool                 `json:"paddingRight,omitempty"`
}

// InlayHintLabelPart is a clickable piece of a hint label.
type InlayHintLabelPart struct {
	Value    string             `json:"value"`
	Tooltip  string             `json:"tooltip,omitempty"`
	Location *protocol.Location `json:"location,omitempty"`
}

// InlayOptions switches hint categories.
type InlayOptions struct {
	VarTypes bool
}

// DefaultInlayOptions enables every hint.
func DefaultInlayOptions() InlayOptions {
	return InlayOptions{VarTypes: true}
}

type inlayHandler struct {
	rng   protocol.Range
	hints []InlayHint
}

func (h *inlayHandler) HandleItemOrAccess(p *index.Project, ia index.ItemOrAccess) {
	if ia.Item == nil || ia.Item.Kind != index.ItemVar || ia.Item.Ty.Name == "" {
		return
	}
	sp, ok := ia.Item.DefLoc()
	if !ok {
		return
	}
	loc, ok := p.MkLocation(sp)
	if !ok || !inRange(loc, h.rng) {
		return
	}
	part := InlayHintLabelPart{Value: ia.Item.Ty.Name, Tooltip: "Go To Definition."}
	if ty, ok := p.Scopes().QueryGlobal(ia.Item.Ty.Name); ok && ty.Kind == index.ItemType {
		if tsp, ok := ty.DefLoc(); ok {
			if tl, ok := p.MkLocation(tsp); ok {
				part.Location = &tl
			}
		}
	}
	h.hints = append(h.hints, InlayHint{
		Position:     loc.Range.End,
		Label:        []InlayHintLabelPart{part},
		Kind:         InlayHintKindType,
		PaddingLeft:  true,
		PaddingRight: true,
	})
}

func (h *inlayHandler) VisitBody() bool { return true }
func (h *inlayHandler) Finished() bool  { return false }

// InlayHints shows the type of every bound variable of path inside rng.
func InlayHints(p *index.Project, path string, rng protocol.Range, opts InlayOptions) []InlayHint {
	if !opts.VarTypes {
		return nil
	}
	id, ok := p.FileID(path)
	if !ok {
		return nil
	}
	h := &inlayHandler{rng: rng}
	p.RunVisitorForFileID(id, h)
	return h.hints
}
