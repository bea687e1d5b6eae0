package index

import (
	"isle-analyzer/internal/ast"
)

// walker carries the state of one traversal.
type walker struct {
	p     *Project
	s     *ScopeStack
	h     Handler
	whole bool
}

func (w *walker) done() bool { return w.h.Finished() }

// global binds a top-level definition. A walk over one file leaves alone
// names that the project already resolved to another definition.
func (w *walker) global(name string, it Item) {
	if !w.whole {
		if prev, ok := w.s.QueryGlobal(name); ok && prev.Name.Pos != it.Name.Pos {
			return
		}
	}
	w.s.EnterItem(name, it)
}

// emit forwards to the handler until it has finished. Passes that fill the
// global scope keep running after that; only the callbacks stop.
func (w *walker) emit(ia ItemOrAccess) {
	if w.h.Finished() {
		return
	}
	w.h.HandleItemOrAccess(w.p, ia)
}

func (w *walker) item(it Item) {
	w.emit(ItemOrAccess{Item: &it})
}

func (w *walker) access(a Access) {
	w.emit(ItemOrAccess{Access: &a})
}

// visit walks the definitions of prov in dependency order.
func (w *walker) visit(prov AstProvider) {
	WithPragmas(prov, func(*ast.Pragma) {})

	// примитивы раньше перечислений: поля enum ссылаются на них из любого файла
	WithTypes(prov, func(td *ast.TypeDef) {
		if td.IsEnum() {
			return
		}
		it := Item{Kind: ItemType, Name: td.Name, TypeDef: td}
		w.item(it)
		w.global(td.Name.Name, it)
	})
	WithTypes(prov, func(td *ast.TypeDef) {
		if !td.IsEnum() {
			return
		}
		it := Item{Kind: ItemType, Name: td.Name, TypeDef: td}
		w.item(it)
		w.global(td.Name.Name, it)
	})
	WithTypes(prov, func(td *ast.TypeDef) {
		if td.IsEnum() {
			w.enumMembers(td)
		}
	})

	WithExterns(prov, func(ex *ast.Extern) {
		if ex.Kind != ast.ExternConst {
			return
		}
		w.typeAccess(ex.Type)
		it := Item{Kind: ItemConst, Name: ex.Term, Ty: ex.Type}
		w.item(it)
		w.global(ex.Term.Name, it)
	})

	WithDecls(prov, func(d *ast.Decl) {
		for _, ty := range d.ArgTypes {
			w.typeAccess(ty)
		}
		w.typeAccess(d.RetType)
		it := Item{Kind: ItemDecl, Name: d.Term, Decl: d}
		if prev, ok := w.s.QueryGlobal(d.Term.Name); ok && prev.Kind == ItemDecl && prev.Name.Pos == d.Term.Pos {
			it.DeclKind = prev.DeclKind
		}
		w.global(d.Term.Name, it)
		w.item(it)
	})

	w.fixDeclKinds(prov)

	WithConverters(prov, func(c *ast.Converter) {
		if w.done() {
			return
		}
		w.typeAccess(c.Inner)
		w.typeAccess(c.Outer)
		w.access(Access{Kind: AccessApplyTerm, Access: c.Term, Def: w.lookupDecl(c.Term.Name)})
	})

	WithExterns(prov, func(ex *ast.Extern) {
		if w.done() || ex.Kind == ast.ExternConst {
			return
		}
		w.access(Access{Kind: AccessDeclExtern, Access: ex.Term, Def: w.lookupDecl(ex.Term.Name)})
	})

	if !w.h.VisitBody() {
		return
	}
	WithExtractors(prov, func(ext *ast.Extractor) {
		if w.done() {
			return
		}
		w.s.EnterScope(func() { w.extractor(ext) })
	})
	WithRules(prov, func(r *ast.Rule) {
		if w.done() {
			return
		}
		w.s.EnterScope(func() { w.rule(r) })
	})
}

func (w *walker) enumMembers(td *ast.TypeDef) {
	for i := range td.Value.Variants {
		v := &td.Value.Variants[i]
		w.item(variantItem(td, v))
		for _, f := range v.Fields {
			w.item(Item{Kind: ItemEnumMemberField, Name: f.Name, Ty: f.Type, Enum: td.Name.Name})
			w.typeAccess(f.Type)
		}
	}
}

// fixDeclKinds собирает биты реализации: extern-привязки, головы правил
// и определения экстракторов.
func (w *walker) fixDeclKinds(prov AstProvider) {
	WithExterns(prov, func(ex *ast.Extern) {
		switch ex.Kind {
		case ast.ExternExtractor:
			w.s.FixDeclType(ex.Term.Name, DeclExtractor)
		case ast.ExternConstructor:
			w.s.FixDeclType(ex.Term.Name, DeclConstructor)
		}
	})
	WithRules(prov, func(r *ast.Rule) {
		if head, ok := r.Pattern.Head(); ok {
			w.s.FixDeclType(head.Name, DeclConstructor)
		}
	})
	WithExtractors(prov, func(ext *ast.Extractor) {
		w.s.FixDeclType(ext.Term.Name, DeclExtractor)
	})
}

func variantItem(td *ast.TypeDef, v *ast.Variant) Item {
	kind := ItemEnumVariant
	if len(v.Fields) == 0 {
		kind = ItemEnumMemberName
	}
	return Item{Kind: kind, Name: v.Name, Variant: v, Enum: td.Name.Name}
}

// lookupType resolves a type name against the global scope.
func (w *walker) lookupType(name string) Item {
	it, ok := w.s.QueryGlobal(name)
	if !ok || it.Kind != ItemType {
		return Dummy
	}
	return it
}

func (w *walker) lookupDecl(name string) Item {
	it, ok := w.s.QueryGlobal(name)
	if !ok || it.Kind != ItemDecl {
		return Dummy
	}
	return it
}

func (w *walker) typeAccess(id ast.Ident) Item {
	it := w.lookupType(id.Name)
	w.access(Access{Kind: AccessApplyType, Access: id, Def: it})
	return it
}

func (w *walker) constAccess(id ast.Ident) Item {
	it, _ := w.s.QueryConst(id.Name)
	w.access(Access{Kind: AccessApplyConst, Access: id, Def: it})
	return it
}

func (w *walker) bindVar(name, ty ast.Ident) {
	if name.Name == "_" {
		return
	}
	it := Item{Kind: ItemVar, Name: name, Ty: ty}
	w.item(it)
	w.s.EnterItem(name.Name, it)
}

// resolveTerm reports the head of a term application and returns the
// types of its arguments and its result. `Type.Variant` heads resolve to
// the enum variant; everything else resolves to a decl.
func (w *walker) resolveTerm(id ast.Ident, kind AccessKind) (args []ast.Ident, ret ast.Ident) {
	parts := SplitSymbol(id)
	if len(parts) == 2 {
		ty := w.typeAccess(parts[0])
		target := Dummy
		if ty.Kind == ItemType && ty.TypeDef.IsEnum() {
			for i := range ty.TypeDef.Value.Variants {
				v := &ty.TypeDef.Value.Variants[i]
				if v.Name.Name != parts[1].Name {
					continue
				}
				target = variantItem(ty.TypeDef, v)
				for _, f := range v.Fields {
					args = append(args, f.Type)
				}
				ret = ty.TypeDef.Name
				break
			}
		}
		w.access(Access{Kind: AccessApplyVariant, Access: parts[1], Def: target, Enum: parts[0].Name})
		return args, ret
	}
	it := w.lookupDecl(id.Name)
	w.access(Access{Kind: kind, Access: id, Def: it})
	if it.Kind == ItemDecl {
		return it.Decl.ArgTypes, it.Decl.RetType
	}
	return nil, ast.Ident{}
}

func argType(tys []ast.Ident, i int) ast.Ident {
	if i < len(tys) {
		return tys[i]
	}
	return ast.Ident{}
}

func (w *walker) extractor(ext *ast.Extractor) {
	decl := w.lookupDecl(ext.Term.Name)
	w.access(Access{Kind: AccessImplExtractor, Access: ext.Term, Def: decl})
	var args []ast.Ident
	var ret ast.Ident
	if decl.Kind == ItemDecl {
		args, ret = decl.Decl.ArgTypes, decl.Decl.RetType
	}
	for i, a := range ext.Args {
		w.bindVar(a, argType(args, i))
	}
	w.pattern(&ext.Template, ret)
}

func (w *walker) rule(r *ast.Rule) {
	if r.Pattern.Kind == ast.PatTerm {
		args, _ := w.resolveTerm(r.Pattern.Name, AccessImplConstructor)
		for i := range r.Pattern.Args {
			w.pattern(&r.Pattern.Args[i], argType(args, i))
		}
	} else {
		w.pattern(&r.Pattern, ast.Ident{})
	}
	for i := range r.IfLets {
		il := &r.IfLets[i]
		ty := w.expr(&il.Expr)
		w.pattern(&il.Pattern, ty)
	}
	w.expr(&r.Expr)
}

// pattern resolves p, whose value has type ty (empty when unknown).
func (w *walker) pattern(p *ast.Pattern, ty ast.Ident) {
	switch p.Kind {
	case ast.PatVar:
		if it, ok := w.s.QueryItem(p.Name.Name); ok && it.Kind == ItemVar {
			w.access(Access{Kind: AccessExtractVar, Access: p.Name, Def: it})
			return
		}
		w.bindVar(p.Name, ty)
	case ast.PatBind:
		w.bindVar(p.Name, ty)
		if p.Sub != nil {
			w.pattern(p.Sub, ty)
		}
	case ast.PatConst:
		w.constAccess(p.Name)
	case ast.PatAnd:
		for i := range p.Args {
			w.pattern(&p.Args[i], ty)
		}
	case ast.PatTerm:
		args, _ := w.resolveTerm(p.Name, AccessApplyTerm)
		for i := range p.Args {
			w.pattern(&p.Args[i], argType(args, i))
		}
	case ast.PatInt, ast.PatWildcard:
	}
}

// expr resolves e and returns its type name, empty when unknown.
func (w *walker) expr(e *ast.Expr) ast.Ident {
	switch e.Kind {
	case ast.ExprTerm:
		_, ret := w.resolveTerm(e.Name, AccessApplyTerm)
		for i := range e.Args {
			w.expr(&e.Args[i])
		}
		return ret
	case ast.ExprVar:
		it, ok := w.s.QueryItem(e.Name.Name)
		if !ok || it.Kind != ItemVar {
			it = Dummy
		}
		w.access(Access{Kind: AccessApplyVar, Access: e.Name, Def: it})
		return it.Ty
	case ast.ExprConst:
		return w.constAccess(e.Name).Ty
	case ast.ExprLet:
		var ret ast.Ident
		w.s.EnterScope(func() {
			for i := range e.Defs {
				ld := &e.Defs[i]
				w.typeAccess(ld.Type)
				w.expr(&ld.Val)
				w.bindVar(ld.Var, ld.Type)
			}
			if e.Body != nil {
				ret = w.expr(e.Body)
			}
		})
		return ret
	}
	return ast.Ident{}
}
