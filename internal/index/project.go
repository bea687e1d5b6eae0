package index

import (
	"errors"
	"fmt"
	"os"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/comment"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/observ"
	"isle-analyzer/internal/parser"
	"isle-analyzer/internal/source"

	"fortio.org/safecast"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

// ErrFileNotFound is returned for paths that are not part of the project.
var ErrFileNotFound = errors.New("file is not part of the project")

// Source is one file handed to the index with its text.
type Source struct {
	Path    string
	Content []byte
}

// Project owns the definitions of every file and the scope stack built
// from them. Requests must be serialized by the caller.
type Project struct {
	files    *source.FileSet
	defs     []ast.Def
	tokens   *TokenLength
	scopes   *ScopeStack
	comments map[source.FileID]*comment.DocumentComments

	log   *zap.Logger
	timer *observ.Timer
}

// Option configures a Project.
type Option func(*Project)

// WithLogger sets the logger; nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(p *Project) {
		if l != nil {
			p.log = l
		}
	}
}

// WithTimer records ingest and update phases into t.
func WithTimer(t *observ.Timer) Option {
	return func(p *Project) { p.timer = t }
}

func newProject(opts []Option) *Project {
	p := &Project{
		files:    source.NewFileSet(),
		tokens:   NewTokenLength(),
		scopes:   NewScopeStack(),
		comments: make(map[source.FileID]*comment.DocumentComments),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Empty returns a project without files.
func Empty(opts ...Option) *Project {
	return newProject(opts)
}

// New reads and indexes paths. Any unreadable or unparsable file fails the
// whole construction; the error is diag.Errors.
func New(paths []string, opts ...Option) (*Project, error) {
	srcs := make([]Source, 0, len(paths))
	var errs diag.Errors
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, diag.IOError(path, err))
			continue
		}
		srcs = append(srcs, Source{Path: path, Content: content})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return FromSources(srcs, opts...)
}

// FromSources indexes in-memory files.
func FromSources(srcs []Source, opts ...Option) (*Project, error) {
	p := newProject(opts)

	phase := p.begin("parse")
	var errs diag.Errors
	for _, src := range srcs {
		content, flags := source.Normalize(src.Content)
		id := p.files.Add(src.Path, content, flags)
		defs, err := parser.Parse(p.files.Get(id))
		if err != nil {
			if de, ok := diag.AsErrors(err); ok {
				errs = append(errs, de...)
				continue
			}
			return nil, fmt.Errorf("parse %s: %w", src.Path, err)
		}
		p.defs = append(p.defs, defs...)
	}
	p.end(phase, fmt.Sprintf("%d files", len(srcs)))
	if len(errs) > 0 {
		return nil, errs
	}

	phase = p.begin("tokens")
	for _, f := range p.files.Files() {
		p.tokens.Update(&f)
	}
	p.end(phase, "")

	phase = p.begin("resolve")
	p.rebuild()
	p.end(phase, "")

	phase = p.begin("comments")
	for _, f := range p.files.Files() {
		p.comments[f.ID] = p.fileComments(&f)
	}
	p.end(phase, "")

	p.log.Debug("project indexed",
		zap.Int("files", p.files.Len()),
		zap.Int("defs", len(p.defs)),
		zap.Int("tokens", p.tokens.Len()))
	return p, nil
}

func (p *Project) begin(name string) int {
	if p.timer == nil {
		return -1
	}
	return p.timer.Begin(name)
}

func (p *Project) end(idx int, note string) {
	if p.timer != nil {
		p.timer.End(idx, note)
	}
}

// rebuild fills the global scope from every live definition.
func (p *Project) rebuild() {
	p.scopes.ResetGlobals()
	p.walk(projectProvider{defs: p.defs}, nopHandler{}, true)
}

// walk visits prov. Only a walk over the whole project may rebind a
// global name to another definition.
func (p *Project) walk(prov AstProvider, h Handler, whole bool) {
	w := &walker{p: p, s: p.scopes, h: h, whole: whole}
	w.visit(prov)
}

// UpdateDefs replaces the definitions of path with those parsed from
// content. On a parse error the project is left untouched and the error is
// diag.Errors.
func (p *Project) UpdateDefs(path string, content []byte) error {
	id, ok := p.files.GetLatest(path)
	if !ok {
		p.log.Error("old defs not found", zap.String("path", path))
		return fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	phase := p.begin("update")
	defer p.end(phase, path)

	text, flags := source.Normalize(content)
	f := source.NewFile(id, p.files.Get(id).Path, text, flags)
	defs, err := parser.Parse(&f)
	if err != nil {
		return err
	}

	var slots []int
	for i := range p.defs {
		if d := &p.defs[i]; live(d) && DefPos(d).File == id {
			slots = append(slots, i)
		}
	}
	for i, d := range defs {
		if i < len(slots) {
			p.defs[slots[i]] = d
			continue
		}
		p.defs = append(p.defs, d)
	}
	for _, s := range slots[min(len(defs), len(slots)):] {
		p.defs[s] = ast.Placeholder()
	}

	p.files.Replace(id, text, flags)
	stored := p.files.Get(id)
	p.tokens.Update(stored)
	p.rebuild()
	p.comments[id] = p.fileComments(stored)
	return nil
}

// AddFile adds a file that was not part of the project.
func (p *Project) AddFile(path string, content []byte) error {
	if _, ok := p.files.GetLatest(path); ok {
		return p.UpdateDefs(path, content)
	}
	text, flags := source.Normalize(content)
	next, err := safecast.Conv[uint32](p.files.Len())
	if err != nil {
		return fmt.Errorf("too many files: %w", err)
	}
	f := source.NewFile(source.FileID(next), source.NormalizePath(path), text, flags)
	defs, err := parser.Parse(&f)
	if err != nil {
		return err
	}
	id := p.files.Add(path, text, flags)
	p.defs = append(p.defs, defs...)
	stored := p.files.Get(id)
	p.tokens.Update(stored)
	p.rebuild()
	p.comments[id] = p.fileComments(stored)
	return nil
}

// RunFullVisitor walks every definition of the project.
func (p *Project) RunFullVisitor(h Handler) {
	p.walk(projectProvider{defs: p.defs}, h, true)
}

// RunVisitorForFile walks the definitions of one file. Globals from other
// files stay visible from the previous rebuild.
func (p *Project) RunVisitorForFile(path string, h Handler) bool {
	id, ok := p.files.GetLatest(path)
	if !ok {
		p.log.Error("file index not found", zap.String("path", path))
		return false
	}
	p.RunVisitorForFileID(id, h)
	return true
}

// RunVisitorForFileID is RunVisitorForFile by file ID.
func (p *Project) RunVisitorForFileID(id source.FileID, h Handler) {
	p.walk(fileProvider{defs: p.defs, file: id}, h, false)
}

// MkLocation converts a span into an LSP location. A zero length is looked
// up in the token table. It fails for positions outside the project.
func (p *Project) MkLocation(sp source.Span) (protocol.Location, bool) {
	f, ok := p.files.Lookup(sp.Pos.File)
	if !ok || sp.Pos.Line == 0 {
		return protocol.Location{}, false
	}
	n := sp.Len
	if n == 0 {
		n, _ = p.tokens.Get(sp.Pos)
	}
	line := sp.Pos.Line - 1
	// колонки LSP в UTF-16, токен не переходит строку
	return protocol.Location{
		URI: uri.File(f.Path),
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: f.UTF16Col(sp.Pos.Offset)},
			End:   protocol.Position{Line: line, Character: f.UTF16Col(sp.Pos.Offset + n)},
		},
	}, true
}

// Files returns the file set of the project.
func (p *Project) Files() *source.FileSet { return p.files }

// FileID returns the ID of path.
func (p *Project) FileID(path string) (source.FileID, bool) {
	return p.files.GetLatest(path)
}

// Paths returns every file path in ID order.
func (p *Project) Paths() []string {
	files := p.files.Files()
	out := make([]string, len(files))
	for i := range files {
		out[i] = files[i].Path
	}
	return out
}

// Scopes exposes the scope stack. The global scope reflects the last rebuild.
func (p *Project) Scopes() *ScopeStack { return p.scopes }

// Tokens exposes the token length table.
func (p *Project) Tokens() *TokenLength { return p.tokens }

// Logger returns the project logger.
func (p *Project) Logger() *zap.Logger { return p.log }

// FileDefs returns the live definitions of one file in source order.
func (p *Project) FileDefs(id source.FileID) []*ast.Def {
	var out []*ast.Def
	fileProvider{defs: p.defs, file: id}.WithDef(func(d *ast.Def) {
		out = append(out, d)
	})
	return out
}

// Defs returns every live definition.
func (p *Project) Defs() []*ast.Def {
	var out []*ast.Def
	projectProvider{defs: p.defs}.WithDef(func(d *ast.Def) {
		out = append(out, d)
	})
	return out
}

// SlotCount returns the size of the definition table, placeholders included.
func (p *Project) SlotCount() int { return len(p.defs) }

// Comment returns the documentation attached to the definition at pos.
func (p *Project) Comment(pos source.Pos) (string, bool) {
	return p.comments[pos.File].Get(pos)
}

func (p *Project) fileComments(f *source.File) *comment.DocumentComments {
	var anchors []source.Pos
	fileProvider{defs: p.defs, file: f.ID}.WithDef(func(d *ast.Def) {
		anchors = append(anchors, CommentAnchors(d)...)
	})
	return comment.Attach(comment.Scan(f.Content), anchors)
}

// CommentAnchors lists the positions of d that documentation attaches to:
// the defining identifier, then enum variants and fields.
func CommentAnchors(d *ast.Def) []source.Pos {
	switch d.Kind {
	case ast.DefType:
		out := []source.Pos{d.Type.Name.Pos}
		for _, v := range d.Type.Value.Variants {
			out = append(out, v.Name.Pos)
			for _, f := range v.Fields {
				out = append(out, f.Name.Pos)
			}
		}
		return out
	case ast.DefDecl:
		return []source.Pos{d.Decl.Term.Pos}
	case ast.DefExtractor:
		return []source.Pos{d.Extractor.Term.Pos}
	case ast.DefExtern:
		return []source.Pos{d.Extern.Term.Pos}
	case ast.DefConverter:
		return []source.Pos{d.Converter.Term.Pos}
	default:
		return []source.Pos{d.Pos}
	}
}
