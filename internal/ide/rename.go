package ide

import (
	"isle-analyzer/internal/index"

	"go.lsp.dev/protocol"
)

// Rename replaces the symbol under pos and every use of it with newName.
// It returns nil when the cursor is not on a resolved symbol.
func Rename(p *index.Project, path string, pos protocol.Position, newName string) *protocol.WorkspaceEdit {
	ia, ok := Resolve(p, path, pos)
	if !ok {
		return nil
	}
	def, ok := ia.Target().DefLoc()
	if !ok {
		return nil
	}
	changes := make(map[protocol.DocumentURI][]protocol.TextEdit)
	for _, loc := range locations(p, ReferencesTo(p, def, true)) {
		changes[loc.URI] = append(changes[loc.URI], protocol.TextEdit{Range: loc.Range, NewText: newName})
	}
	return &protocol.WorkspaceEdit{Changes: changes}
}
