package ide

import (
	"sort"

	"isle-analyzer/internal/index"
	"isle-analyzer/internal/token"

	"go.lsp.dev/protocol"
)

// TriggerCharacters are the characters that open completion.
var TriggerCharacters = []string{"(", "$", "."}

type completionHandler struct {
	at    Cursor
	items []protocol.CompletionItem
	found bool
	onDef bool
}

func (h *completionHandler) HandleItemOrAccess(p *index.Project, ia index.ItemOrAccess) {
	if !h.at.On(ia.Occurrence()) {
		return
	}
	if ia.Item != nil {
		h.onDef = true
		return
	}
	h.found = true
	scopes := p.Scopes()
	switch ia.Access.Kind {
	case index.AccessApplyType:
		h.globals(scopes, index.ItemType, protocol.CompletionItemKindStruct)
	case index.AccessApplyTerm, index.AccessDeclExtern, index.AccessImplConstructor, index.AccessImplExtractor:
		h.globals(scopes, index.ItemDecl, protocol.CompletionItemKindConstructor)
	case index.AccessApplyConst:
		h.globals(scopes, index.ItemConst, protocol.CompletionItemKindConstant)
	case index.AccessApplyVariant:
		h.variants(scopes, ia.Access.Enum)
	case index.AccessApplyVar, index.AccessExtractVar:
		// локальные переменные видны только во время обхода тела
		scopes.Locals(func(name string, it index.Item) {
			if it.Kind == index.ItemVar {
				h.items = append(h.items, protocol.CompletionItem{
					Label:  name,
					Kind:   protocol.CompletionItemKindVariable,
					Detail: it.Ty.Name,
				})
			}
		})
	}
}

func (h *completionHandler) VisitBody() bool { return true }
func (h *completionHandler) Finished() bool  { return h.found || h.onDef }

func (h *completionHandler) globals(s *index.ScopeStack, kind index.ItemKind, ck protocol.CompletionItemKind) {
	s.Globals(func(name string, it index.Item) {
		if it.Kind != kind {
			return
		}
		item := protocol.CompletionItem{Label: name, Kind: ck}
		switch it.Kind {
		case index.ItemDecl:
			item.Detail = declSignature(it)
		case index.ItemConst:
			item.Detail = it.Ty.Name
		}
		h.items = append(h.items, item)
	})
}

func (h *completionHandler) variants(s *index.ScopeStack, enum string) {
	it, ok := s.QueryGlobal(enum)
	if !ok || it.Kind != index.ItemType || !it.TypeDef.IsEnum() {
		return
	}
	for _, v := range it.TypeDef.Value.Variants {
		h.items = append(h.items, protocol.CompletionItem{
			Label: v.Name.Name,
			Kind:  protocol.CompletionItemKindEnumMember,
		})
	}
}

// Keywords returns a completion item per ISLE keyword.
func Keywords() []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(token.Keywords))
	for _, kw := range token.Keywords {
		out = append(out, protocol.CompletionItem{Label: kw, Kind: protocol.CompletionItemKindKeyword})
	}
	return out
}

// Completion offers the candidates that fit the name under pos. Without a
// contextual match it falls back to keywords, unless the cursor sits on a
// definition.
func Completion(p *index.Project, path string, pos protocol.Position) []protocol.CompletionItem {
	at, ok := At(p, path, pos)
	if !ok {
		return Keywords()
	}
	h := &completionHandler{at: at}
	p.RunVisitorForFileID(at.Pos.File, h)
	if len(h.items) == 0 {
		if h.onDef {
			return nil
		}
		return Keywords()
	}
	sort.Slice(h.items, func(i, j int) bool { return h.items[i].Label < h.items[j].Label })
	return h.items
}
