package token

import (
	"fmt"

	"isle-analyzer/internal/source"

	"fortio.org/safecast"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Pos  source.Pos
	Text string
}

// Len is the IDE-visible length of the token. Integers have none.
func (t Token) Len() uint32 {
	switch t.Kind {
	case LParen, RParen, At:
		return 1
	case Symbol:
		n, err := safecast.Conv[uint32](len(t.Text))
		if err != nil {
			panic(fmt.Errorf("symbol length overflow: %w", err))
		}
		return n
	default:
		return 0
	}
}

// IsKeyword reports whether the token is a symbol spelled like a keyword.
func (t Token) IsKeyword() bool {
	return t.Kind == Symbol && IsKeyword(t.Text)
}

func (t Token) String() string {
	if t.Kind == Symbol || t.Kind == Int {
		return fmt.Sprintf("%s %q @%s", t.Kind, t.Text, t.Pos)
	}
	return fmt.Sprintf("%s @%s", t.Kind, t.Pos)
}
