// Package ide answers editor queries over an index.Project: definition,
// references, hover, completion, rename, document symbols, semantic tokens
// and inlay hints. Results use go.lsp.dev/protocol types; the lsp package
// only moves them over the wire.
package ide
