package lsp

import (
	"encoding/json"

	"go.lsp.dev/protocol"
)

type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// reloadParams is the payload of the `isle/reload` request. Files may be
// paths or file URIs; an empty list re-discovers the workspace.
type reloadParams struct {
	Files []string `json:"files"`
}

type reloadResult struct {
	Files  int  `json:"files"`
	Failed bool `json:"failed"`
}

type didChangeConfigurationParams struct {
	Settings json.RawMessage `json:"settings"`
}

type lspSettings struct {
	Isle isleSettings `json:"isle"`
}

type isleSettings struct {
	InlayHints inlayHintsSettings `json:"inlayHints"`
	LSP        lspTraceSettings   `json:"lsp"`
}

type inlayHintsSettings struct {
	VarTypes *bool `json:"varTypes,omitempty"`
}

type lspTraceSettings struct {
	Trace *bool `json:"trace,omitempty"`
}

// semanticTokensOptions carries the legend, which protocol's
// SemanticTokensOptions does not model.
type semanticTokensOptions struct {
	Legend any  `json:"legend"`
	Full   bool `json:"full"`
}

// serverCapabilities adds inlay hints, which protocol v0.12 predates.
type serverCapabilities struct {
	protocol.ServerCapabilities
	InlayHintProvider bool `json:"inlayHintProvider,omitempty"`
}

type initializeResult struct {
	Capabilities serverCapabilities   `json:"capabilities"`
	ServerInfo   *protocol.ServerInfo `json:"serverInfo,omitempty"`
}

type inlayHintParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Range        protocol.Range                  `json:"range"`
}
