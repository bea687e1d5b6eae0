package diag

import (
	"isle-analyzer/internal/source"
)

// Severity orders diagnostics; editors map it onto their own levels.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String is the lowercase label used in CLI output.
func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Class is the editor-facing category of the diagnostic.
func (d Diagnostic) Class() Class {
	return d.Code.Class()
}

// Spans lists the primary span followed by every note span.
func (d Diagnostic) Spans() []source.Span {
	out := make([]source.Span, 0, 1+len(d.Notes))
	out = append(out, d.Primary)
	for _, n := range d.Notes {
		out = append(out, n.Span)
	}
	return out
}
