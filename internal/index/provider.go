package index

import (
	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/source"
)

// AstProvider iterates a set of definitions. Providers are repeatable: the
// walker iterates the same provider once per pass.
type AstProvider interface {
	WithDef(fn func(d *ast.Def))
}

// DefPos returns the position that ties a definition to its file. Externs
// are anchored at their term so that an extern const belongs to the file of
// its name.
func DefPos(d *ast.Def) source.Pos {
	if d.Kind == ast.DefExtern && d.Extern != nil {
		return d.Extern.Term.Pos
	}
	return d.Pos
}

// live отсекает заглушки, оставшиеся после UpdateDefs.
func live(d *ast.Def) bool {
	return DefPos(d).Known()
}

type projectProvider struct {
	defs []ast.Def
}

func (pp projectProvider) WithDef(fn func(d *ast.Def)) {
	for i := range pp.defs {
		if live(&pp.defs[i]) {
			fn(&pp.defs[i])
		}
	}
}

type fileProvider struct {
	defs []ast.Def
	file source.FileID
}

func (fp fileProvider) WithDef(fn func(d *ast.Def)) {
	for i := range fp.defs {
		d := &fp.defs[i]
		if !live(d) {
			continue
		}
		if DefPos(d).File == fp.file {
			fn(d)
		}
	}
}

// WithPragmas narrows p to pragmas.
func WithPragmas(p AstProvider, fn func(*ast.Pragma)) {
	p.WithDef(func(d *ast.Def) {
		if d.Kind == ast.DefPragma {
			fn(d.Pragma)
		}
	})
}

// WithTypes narrows p to type definitions.
func WithTypes(p AstProvider, fn func(*ast.TypeDef)) {
	p.WithDef(func(d *ast.Def) {
		if d.Kind == ast.DefType {
			fn(d.Type)
		}
	})
}

// WithDecls narrows p to term declarations.
func WithDecls(p AstProvider, fn func(*ast.Decl)) {
	p.WithDef(func(d *ast.Def) {
		if d.Kind == ast.DefDecl {
			fn(d.Decl)
		}
	})
}

// WithRules narrows p to rules.
func WithRules(p AstProvider, fn func(*ast.Rule)) {
	p.WithDef(func(d *ast.Def) {
		if d.Kind == ast.DefRule {
			fn(d.Rule)
		}
	})
}

// WithExtractors narrows p to extractor definitions.
func WithExtractors(p AstProvider, fn func(*ast.Extractor)) {
	p.WithDef(func(d *ast.Def) {
		if d.Kind == ast.DefExtractor {
			fn(d.Extractor)
		}
	})
}

// WithExterns narrows p to extern bindings.
func WithExterns(p AstProvider, fn func(*ast.Extern)) {
	p.WithDef(func(d *ast.Def) {
		if d.Kind == ast.DefExtern {
			fn(d.Extern)
		}
	})
}

// WithConverters narrows p to converters.
func WithConverters(p AstProvider, fn func(*ast.Converter)) {
	p.WithDef(func(d *ast.Def) {
		if d.Kind == ast.DefConverter {
			fn(d.Converter)
		}
	})
}
