package diag

import (
	"errors"
	"strings"

	"isle-analyzer/internal/source"
)

// Errors is a failed phase's findings returned through the error interface.
type Errors []Diagnostic

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Primary.Pos.String() + ": " + e[0].Message
	}
	var b strings.Builder
	for i, d := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(d.Primary.Pos.String())
		b.WriteString(": ")
		b.WriteString(d.Message)
	}
	return b.String()
}

// AsErrors extracts Errors from err, if it carries any.
func AsErrors(err error) (Errors, bool) {
	var out Errors
	if errors.As(err, &out) {
		return out, true
	}
	return nil, false
}

// IOError wraps a failed read of path. It has no source position.
func IOError(path string, err error) Diagnostic {
	return NewError(IOLoadFileError, source.Span{Pos: source.NoPos}, path+": "+err.Error())
}
