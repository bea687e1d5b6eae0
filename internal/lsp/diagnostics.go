package lsp

import (
	"sort"

	"isle-analyzer/internal/check"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/source"

	"go.lsp.dev/protocol"
)

const diagnosticSource = "isle"

func lspSeverity(sev diag.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityInformation
}

// toProtocol emits one LSP diagnostic per span of d: the primary span and
// every note. Spans without a position or a known file are dropped.
func toProtocol(d diag.Diagnostic, fileOf func(source.FileID) *source.File, emit func(path string, pd protocol.Diagnostic)) {
	one := func(sp source.Span, msg string) {
		if !sp.Pos.Known() {
			return
		}
		f := fileOf(sp.Pos.File)
		if f == nil {
			return
		}
		emit(f.Path, protocol.Diagnostic{
			Range:    rangeForSpan(f, sp),
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   diagnosticSource + ": " + d.Class().String(),
			Message:  msg,
		})
	}
	one(d.Primary, d.Message)
	for _, n := range d.Notes {
		one(n.Span, d.Message+" ("+n.Msg+")")
	}
}

// publishDiagnostics sends the current findings for every known file. Files
// without findings get an empty list so stale markers disappear. While any
// file fails to parse only parse errors are shown.
func (s *Server) publishDiagnostics() error {
	s.mu.Lock()
	byPath := make(map[string][]protocol.Diagnostic)
	if len(s.parseDiags) > 0 {
		for path, ds := range s.parseDiags {
			byPath[path] = append(byPath[path], ds...)
		}
	} else if !s.buildFailed {
		files := s.proj.Files()
		fileOf := func(id source.FileID) *source.File {
			f, _ := files.Lookup(id)
			return f
		}
		for _, d := range check.Run(s.proj) {
			toProtocol(d, fileOf, func(path string, pd protocol.Diagnostic) {
				byPath[path] = append(byPath[path], pd)
			})
		}
	}

	targets := make(map[string]struct{}, len(s.docs.order)+len(s.published))
	for _, p := range s.docs.order {
		targets[p] = struct{}{}
	}
	for p := range s.published {
		targets[p] = struct{}{}
	}
	for p := range byPath {
		targets[p] = struct{}{}
	}
	clear(s.published)
	for p, ds := range byPath {
		if len(ds) > 0 {
			s.published[p] = struct{}{}
		}
	}
	s.mu.Unlock()

	paths := make([]string, 0, len(targets))
	for p := range targets {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := s.sendPublish(p, byPath[p]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) sendPublish(path string, list []protocol.Diagnostic) error {
	if list == nil {
		list = []protocol.Diagnostic{}
	}
	return s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: list,
	})
}
