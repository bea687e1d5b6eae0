package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// uriToPath returns the file path of a file:// URI, or "" for anything else.
func uriToPath(raw protocol.DocumentURI) string {
	s := string(raw)
	if !strings.HasPrefix(s, uri.FileScheme+":") {
		return ""
	}
	// Filename паникует на кривых URI
	if _, err := url.ParseRequestURI(s); err != nil {
		return ""
	}
	path := uri.URI(s).Filename()
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func pathToURI(path string) protocol.DocumentURI {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uri.File(path)
}

// argToPath accepts either a file URI or a plain path.
func argToPath(arg string) string {
	if strings.HasPrefix(arg, uri.FileScheme+":") {
		return uriToPath(protocol.DocumentURI(arg))
	}
	if abs, err := filepath.Abs(arg); err == nil {
		return abs
	}
	return arg
}
