package lsp

import (
	"encoding/json"
	"os"

	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/index"
	"isle-analyzer/internal/project"
	"isle-analyzer/internal/source"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// documents keeps the latest text of every indexed file in load order.
type documents struct {
	order []string
	text  map[string][]byte
	open  map[string]struct{}
}

func newDocuments() *documents {
	return &documents{
		text: make(map[string][]byte),
		open: make(map[string]struct{}),
	}
}

func (d *documents) set(path string, content []byte) {
	if _, ok := d.text[path]; !ok {
		d.order = append(d.order, path)
	}
	d.text[path] = content
}

func (d *documents) sources() []index.Source {
	out := make([]index.Source, 0, len(d.order))
	for _, p := range d.order {
		out = append(out, index.Source{Path: p, Content: d.text[p]})
	}
	return out
}

func (d *documents) replaceAll(srcs []index.Source) {
	d.order = d.order[:0]
	clear(d.text)
	for _, src := range srcs {
		d.set(src.Path, src.Content)
	}
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.mu.Lock()
	s.docs.open[path] = struct{}{}
	s.applyLocked(path, []byte(params.TextDocument.Text))
	s.mu.Unlock()
	return s.publishDiagnostics()
}

// handleDidChange re-indexes the file; diagnostics wait for the next save.
func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" || len(params.ContentChanges) == 0 {
		return nil
	}
	// full sync: последнее изменение содержит весь текст
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.mu.Lock()
	s.applyLocked(path, []byte(text))
	trace := s.traceLSP
	s.mu.Unlock()
	if trace {
		s.log.Info("didChange", zap.String("path", path), zap.Int32("version", params.TextDocument.Version))
	}
	return nil
}

// handleDidSave re-reads the file from disk.
func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	// #nosec G304 -- path comes from the client
	content, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("didSave: cannot read file", zap.String("path", path), zap.Error(err))
		if params.Text == "" {
			return s.publishDiagnostics()
		}
		content = []byte(params.Text)
	}
	s.mu.Lock()
	s.applyLocked(path, content)
	s.mu.Unlock()
	return s.publishDiagnostics()
}

// handleDidClose keeps the file indexed: closed files stay part of the project.
func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.docs.open, path)
	s.mu.Unlock()
	return nil
}

// applyLocked feeds new text of path into the index. A parse failure
// leaves the previous definitions of the file in place.
func (s *Server) applyLocked(path string, content []byte) {
	content, _ = source.Normalize(content)
	s.docs.set(path, content)
	if s.buildFailed {
		if err := s.rebuildLocked(); err != nil {
			s.log.Debug("rebuild still failing", zap.Error(err))
		}
		return
	}
	var err error
	if _, ok := s.proj.FileID(path); ok {
		err = s.proj.UpdateDefs(path, content)
	} else {
		err = s.proj.AddFile(path, content)
	}
	if err == nil {
		delete(s.parseDiags, path)
		return
	}
	s.log.Warn("update failed", zap.String("path", path), zap.Error(err))
	errs, ok := diag.AsErrors(err)
	if !ok {
		return
	}
	f := source.NewFile(0, path, content, 0)
	fileOf := func(source.FileID) *source.File { return &f }
	var out []protocol.Diagnostic
	for _, d := range errs {
		toProtocol(d, fileOf, func(_ string, pd protocol.Diagnostic) { out = append(out, pd) })
	}
	s.parseDiags[path] = out
}

// rebuildLocked indexes every known document from scratch.
func (s *Server) rebuildLocked() error {
	srcs := s.docs.sources()
	p, err := s.build(srcs)
	if err != nil {
		s.buildFailed = true
		return err
	}
	s.proj = p
	s.buildFailed = false
	return nil
}

// build indexes srcs. On failure parseDiags holds the errors, otherwise it is cleared.
func (s *Server) build(srcs []index.Source) (*index.Project, error) {
	s.timer.Reset()
	p, err := index.FromSources(srcs, s.indexOptions()...)
	s.timer.Log(s.log)
	clear(s.parseDiags)
	if err == nil {
		return p, nil
	}
	errs, ok := diag.AsErrors(err)
	if !ok {
		return nil, err
	}
	files := make([]source.File, len(srcs))
	for i, src := range srcs {
		files[i] = source.NewFile(source.FileID(i), src.Path, src.Content, 0)
	}
	fileOf := func(id source.FileID) *source.File {
		if int(id) < len(files) {
			return &files[id]
		}
		return nil
	}
	for _, d := range errs {
		toProtocol(d, fileOf, func(path string, pd protocol.Diagnostic) {
			s.parseDiags[path] = append(s.parseDiags[path], pd)
		})
	}
	return nil, err
}

// reload re-reads paths from disk and rebuilds the index. A failed reload
// keeps the previous index unless there was none.
func (s *Server) reload(paths []string) error {
	srcs, err := project.Load(s.baseCtx, paths, s.jobs)
	if err != nil {
		s.reportLoadError(err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.build(srcs)
	if err != nil {
		if len(s.docs.order) == 0 || s.buildFailed {
			s.docs.replaceAll(srcs)
			s.buildFailed = true
		}
		return err
	}
	s.docs.replaceAll(srcs)
	s.proj = p
	s.buildFailed = false
	return nil
}

// reportLoadError shows I/O failures, which have no position to publish at.
func (s *Server) reportLoadError(err error) {
	s.log.Error("load failed", zap.Error(err))
	msg := err.Error()
	if errs, ok := diag.AsErrors(err); ok && len(errs) > 0 {
		msg = errs[0].Message
		if len(errs) > 1 {
			msg += " (and more)"
		}
	}
	if sendErr := s.sendNotification("window/showMessage", protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: "isle-analyzer: " + msg,
	}); sendErr != nil {
		s.log.Warn("showMessage failed", zap.Error(sendErr))
	}
}

func (s *Server) handleReload(msg *rpcMessage) error {
	var params reloadParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	paths := make([]string, 0, len(params.Files))
	for _, f := range params.Files {
		if p := argToPath(f); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		s.mu.Lock()
		ws := s.ws
		s.mu.Unlock()
		if ws == nil {
			return s.sendError(msg.ID, codeInvalidParams, "no files and no workspace to reload")
		}
		fresh, err := project.Discover(ws.Root)
		if err != nil {
			return s.sendError(msg.ID, codeInternalError, err.Error())
		}
		s.mu.Lock()
		s.ws = fresh
		s.mu.Unlock()
		paths = fresh.Files
	}
	err := s.reload(paths)
	if err != nil {
		s.log.Warn("reload failed", zap.Error(err))
	}
	if pubErr := s.publishDiagnostics(); pubErr != nil {
		return pubErr
	}
	return s.sendResponse(msg.ID, reloadResult{Files: len(paths), Failed: err != nil})
}
