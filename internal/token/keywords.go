package token

// Keywords lists every reserved word of the language, in completion order.
var Keywords = []string{
	"pragma",
	"type",
	"decl",
	"rule",
	"extractor",
	"extern",
	"constructor",
	"const",
	"convert",
	"primitive",
	"enum",
	"let",
	"if",
	"if-let",
	"and",
	"pure",
	"multi",
	"partial",
	"nodebug",
	"infallible",
}

var keywords = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keywords))
	for _, k := range Keywords {
		m[k] = struct{}{}
	}
	return m
}()

// IsKeyword reports whether s is a reserved word. Case sensitive.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}
