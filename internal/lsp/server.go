package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"isle-analyzer/internal/ide"
	"isle-analyzer/internal/index"
	"isle-analyzer/internal/observ"
	"isle-analyzer/internal/project"
	"isle-analyzer/internal/version"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures the server.
type ServerOptions struct {
	Logger *zap.Logger
	// Timer receives the phases of every index rebuild.
	Timer *observ.Timer
	// Jobs bounds parallel file reads; 0 means GOMAXPROCS.
	Jobs int
}

// Server handles stdio JSON-RPC for ISLE sources.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	mu     sync.Mutex

	log   *zap.Logger
	timer *observ.Timer
	jobs  int

	ws   *project.Workspace
	proj *index.Project
	docs *documents
	// buildFailed: последняя полная сборка упала, proj пустой или устаревший.
	buildFailed bool
	parseDiags  map[string][]protocol.Diagnostic
	published   map[string]struct{}

	inlay             ide.InlayOptions
	traceLSP          bool
	shutdownRequested bool
	baseCtx           context.Context
}

// NewServer constructs a server reading requests from in and writing to out.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	s := &Server{
		in:         bufio.NewReader(in),
		out:        bufio.NewWriter(out),
		log:        log,
		timer:      timer,
		jobs:       opts.Jobs,
		docs:       newDocuments(),
		parseDiags: make(map[string][]protocol.Diagnostic),
		published:  make(map[string]struct{}),
		inlay:      ide.DefaultInlayOptions(),
		baseCtx:    context.Background(),
	}
	s.proj = index.Empty(s.indexOptions()...)
	return s
}

func (s *Server) indexOptions() []index.Option {
	return []index.Option{index.WithLogger(s.log), index.WithTimer(s.timer)}
}

// Run serves requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn("failed to parse message", zap.Error(err))
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	s.log.Debug("request", zap.String("method", msg.Method))
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/references":
		return s.handleReferences(msg)
	case "textDocument/rename":
		return s.handleRename(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/semanticTokens/full":
		return s.handleSemanticTokens(msg)
	case "textDocument/inlayHint":
		return s.handleInlayHint(msg)
	case "isle/reload":
		return s.handleReload(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params protocol.InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = argToPath(params.RootPath)
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(protocol.DocumentURI(params.WorkspaceFolders[0].URI))
	}
	if root != "" {
		s.openWorkspace(root)
	}

	caps := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.TextDocumentSyncKindFull,
			Save:      &protocol.SaveOptions{},
		},
		HoverProvider:          true,
		DefinitionProvider:     true,
		ReferencesProvider:     true,
		RenameProvider:         true,
		DocumentSymbolProvider: true,
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: ide.TriggerCharacters,
		},
		SemanticTokensProvider: semanticTokensOptions{Legend: ide.Legend, Full: true},
	}
	result := initializeResult{
		Capabilities: serverCapabilities{ServerCapabilities: caps, InlayHintProvider: true},
		ServerInfo:   &protocol.ServerInfo{Name: "isle-analyzer", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

// openWorkspace discovers and indexes the workspace at root. Failures are
// logged and surface as diagnostics; the server keeps running.
func (s *Server) openWorkspace(root string) {
	ws, err := project.Discover(root)
	if err != nil {
		s.log.Error("workspace discovery failed", zap.String("root", root), zap.Error(err))
		return
	}
	cfg := ws.Config()
	s.mu.Lock()
	s.ws = ws
	s.inlay.VarTypes = cfg.VarTypes()
	s.traceLSP = cfg.LSP.Trace
	s.mu.Unlock()

	s.log.Info("workspace", zap.String("root", ws.Root), zap.Int("files", len(ws.Files)))
	if err := s.reload(ws.Files); err != nil {
		s.log.Warn("initial index failed", zap.Error(err))
	}
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendNotification(method string, params any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}
