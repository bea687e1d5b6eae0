package lsp

import (
	"encoding/json"

	"isle-analyzer/internal/ide"

	"go.lsp.dev/protocol"
)

// decodeParams unmarshals request params; absent params leave v zeroed.
func decodeParams(msg *rpcMessage, v any) error {
	if len(msg.Params) == 0 {
		return nil
	}
	return json.Unmarshal(msg.Params, v)
}

func (s *Server) handleHover(msg *rpcMessage) error {
	var params protocol.HoverParams
	if err := decodeParams(msg, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	result := ide.Hover(s.proj, path, params.Position)
	s.mu.Unlock()
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params protocol.DefinitionParams
	if err := decodeParams(msg, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	result := ide.Definition(s.proj, path, params.Position)
	s.mu.Unlock()
	if result == nil {
		result = []protocol.Location{}
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleReferences(msg *rpcMessage) error {
	var params protocol.ReferenceParams
	if err := decodeParams(msg, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	result := ide.References(s.proj, path, params.Position, params.Context.IncludeDeclaration)
	s.mu.Unlock()
	if result == nil {
		result = []protocol.Location{}
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleRename(msg *rpcMessage) error {
	var params protocol.RenameParams
	if err := decodeParams(msg, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	result := ide.Rename(s.proj, path, params.Position, params.NewName)
	s.mu.Unlock()
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params protocol.CompletionParams
	if err := decodeParams(msg, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	items := ide.Completion(s.proj, path, params.Position)
	s.mu.Unlock()
	if items == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, protocol.CompletionList{Items: items})
}

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params protocol.DocumentSymbolParams
	if err := decodeParams(msg, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	result := ide.DocumentSymbols(s.proj, path)
	s.mu.Unlock()
	if result == nil {
		result = []protocol.DocumentSymbol{}
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleSemanticTokens(msg *rpcMessage) error {
	var params protocol.SemanticTokensParams
	if err := decodeParams(msg, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	result := ide.SemanticTokens(s.proj, path)
	s.mu.Unlock()
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleInlayHint(msg *rpcMessage) error {
	var params inlayHintParams
	if err := decodeParams(msg, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	result := ide.InlayHints(s.proj, path, params.Range, s.inlay)
	s.mu.Unlock()
	if result == nil {
		result = []ide.InlayHint{}
	}
	return s.sendResponse(msg.ID, result)
}
