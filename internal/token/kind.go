package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// LParen represents the left parenthesis.
	LParen // (
	// RParen represents the right parenthesis.
	RParen // )
	// At represents the binding operator.
	At // @
	// Symbol is any identifier, including keywords and dotted names.
	Symbol
	// Int is an integer literal in any radix.
	Int
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case At:
		return "'@'"
	case Symbol:
		return "symbol"
	case Int:
		return "integer"
	default:
		return "invalid"
	}
}
