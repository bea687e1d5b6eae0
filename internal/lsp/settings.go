package lsp

import (
	"encoding/json"

	"go.uber.org/zap"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	return nil
}

// applySettings reads the `isle` section; absent keys keep their values.
func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.Warn("bad settings", zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings.Isle.InlayHints.VarTypes != nil {
		s.inlay.VarTypes = *settings.Isle.InlayHints.VarTypes
	}
	if settings.Isle.LSP.Trace != nil {
		s.traceLSP = *settings.Isle.LSP.Trace
	}
}
