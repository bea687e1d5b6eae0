package index

// Scope maps names to items for one nesting level.
type Scope struct {
	Items map[string]Item
}

func newScope() Scope {
	return Scope{Items: make(map[string]Item)}
}

// ScopeStack is the resolution context of one walk. Scope 0 is global and
// holds types, consts and decls; nested scopes hold variables of extractor
// bodies, rule bodies and let forms. It is not safe for concurrent use.
type ScopeStack struct {
	scopes []Scope
}

// NewScopeStack returns a stack with an empty global scope.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{scopes: []Scope{newScope()}}
}

// Depth returns the number of scopes including the global one.
func (s *ScopeStack) Depth() int { return len(s.scopes) }

// ResetGlobals drops every global entry.
func (s *ScopeStack) ResetGlobals() {
	s.scopes = []Scope{newScope()}
}

// EnterItem binds name in the innermost scope. "_" is never bound.
func (s *ScopeStack) EnterItem(name string, item Item) {
	if name == "_" {
		return
	}
	s.scopes[len(s.scopes)-1].Items[name] = item
}

// QueryItem searches from the innermost scope outwards.
func (s *ScopeStack) QueryItem(name string) (Item, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if it, ok := s.scopes[i].Items[name]; ok {
			return it, true
		}
	}
	return Dummy, false
}

// QueryConst looks name up among global consts only; consts are never
// shadowed by local bindings.
func (s *ScopeStack) QueryConst(name string) (Item, bool) {
	it, ok := s.scopes[0].Items[name]
	if !ok || it.Kind != ItemConst {
		return Dummy, false
	}
	return it, true
}

// QueryGlobal looks name up in the global scope only.
func (s *ScopeStack) QueryGlobal(name string) (Item, bool) {
	it, ok := s.scopes[0].Items[name]
	return it, ok
}

// FixDeclType ORs bits into the global decl called name. Missing names and
// non-decl entries are ignored.
func (s *ScopeStack) FixDeclType(name string, bits DeclKind) {
	it, ok := s.scopes[0].Items[name]
	if !ok || it.Kind != ItemDecl {
		return
	}
	it.DeclKind |= bits
	s.scopes[0].Items[name] = it
}

// EnterScope pushes a fresh scope for the duration of body. The scope is
// popped on every exit path, panics included.
func (s *ScopeStack) EnterScope(body func()) {
	s.scopes = append(s.scopes, newScope())
	depth := len(s.scopes)
	defer func() {
		s.scopes = s.scopes[:depth-1]
	}()
	body()
}

// Globals calls fn for every global item. Order is unspecified.
func (s *ScopeStack) Globals(fn func(name string, it Item)) {
	for name, it := range s.scopes[0].Items {
		fn(name, it)
	}
}

// Locals calls fn for every item bound outside the global scope, innermost
// binding first; shadowed names are reported once.
func (s *ScopeStack) Locals(fn func(name string, it Item)) {
	seen := make(map[string]struct{})
	for i := len(s.scopes) - 1; i > 0; i-- {
		for name, it := range s.scopes[i].Items {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			fn(name, it)
		}
	}
}
