package index

import (
	"fmt"
	"strings"

	"isle-analyzer/internal/ast"
	"isle-analyzer/internal/source"
)

// ItemKind classifies a definition.
type ItemKind uint8

const (
	ItemDummy ItemKind = iota // unresolved target
	ItemType
	ItemDecl
	ItemConst
	ItemVar
	ItemEnumMemberName  // variant without fields
	ItemEnumMemberField // field name inside a variant
	ItemEnumVariant     // variant with fields
)

func (k ItemKind) String() string {
	switch k {
	case ItemType:
		return "type"
	case ItemDecl:
		return "decl"
	case ItemConst:
		return "const"
	case ItemVar:
		return "var"
	case ItemEnumMemberName:
		return "enum member"
	case ItemEnumMemberField:
		return "enum field"
	case ItemEnumVariant:
		return "enum variant"
	default:
		return "dummy"
	}
}

// DeclKind is a bitset of the ways a declared term is implemented.
// Bits are only ever added.
type DeclKind uint8

const (
	DeclExtractor DeclKind = 1 << iota
	DeclConstructor
)

// Has reports whether any bit of x is set in k.
func (k DeclKind) Has(x DeclKind) bool { return k&x != 0 }

func (k DeclKind) String() string {
	var parts []string
	if k.Has(DeclExtractor) {
		parts = append(parts, "extractor")
	}
	if k.Has(DeclConstructor) {
		parts = append(parts, "constructor")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Item is something that can be defined. The zero value is the dummy item.
type Item struct {
	Kind ItemKind
	// Name is the defining identifier: type name, decl term, const name
	// (without `$`), var name, variant or field name.
	Name ast.Ident

	TypeDef  *ast.TypeDef // ItemType
	Decl     *ast.Decl    // ItemDecl
	DeclKind DeclKind     // ItemDecl
	Ty       ast.Ident    // ItemConst, ItemVar: type name, empty when unknown
	Variant  *ast.Variant // ItemEnumVariant, ItemEnumMemberName
	Enum     string       // owning enum of variants and fields
}

// Dummy is the item every failed lookup resolves to.
var Dummy = Item{}

// IsDummy reports whether the item is the unresolved placeholder.
func (it Item) IsDummy() bool { return it.Kind == ItemDummy }

// DefLoc returns the span of the defining identifier. The dummy item has
// no location and reports ok=false with NoPos.
func (it Item) DefLoc() (source.Span, bool) {
	if it.Kind == ItemDummy || !it.Name.Pos.Known() {
		return source.Span{Pos: source.NoPos}, false
	}
	return it.Name.Span(), true
}

func (it Item) String() string {
	switch it.Kind {
	case ItemType:
		return "item_type:" + it.Name.Name
	case ItemDecl:
		return "item_decl:" + it.Name.Name
	case ItemConst:
		return "item_const:" + it.Name.Name
	case ItemVar:
		return "item_var:" + it.Name.Name
	case ItemEnumMemberName:
		return "enum_member:" + it.Name.Name
	case ItemEnumMemberField:
		return "enum_field:" + it.Name.Name
	case ItemEnumVariant:
		return "enum_variant:" + it.Name.Name
	default:
		return "dummy"
	}
}

// AccessKind classifies a use.
type AccessKind uint8

const (
	AccessApplyType AccessKind = iota
	AccessDeclExtern
	AccessApplyTerm // application of an extractor or constructor
	AccessExtractVar
	AccessApplyConst
	AccessImplExtractor
	AccessImplConstructor
	AccessApplyVariant // Access.Enum names the enum
	AccessApplyVar
)

func (k AccessKind) String() string {
	switch k {
	case AccessApplyType:
		return "apply type"
	case AccessDeclExtern:
		return "decl extern"
	case AccessApplyTerm:
		return "apply extractor"
	case AccessExtractVar:
		return "extract var"
	case AccessApplyConst:
		return "apply const"
	case AccessImplExtractor:
		return "impl extractor"
	case AccessImplConstructor:
		return "impl constructor"
	case AccessApplyVariant:
		return "apply enum member"
	case AccessApplyVar:
		return "apply var"
	default:
		return fmt.Sprintf("access(%d)", uint8(k))
	}
}

// Access is a name occurrence that refers to Def.
type Access struct {
	Kind   AccessKind
	Access ast.Ident
	Def    Item
	Enum   string // AccessApplyVariant
}

// AccessDefLoc returns the occurrence span and the definition span. ok is
// false when the access did not resolve.
func (a Access) AccessDefLoc() (occ, def source.Span, ok bool) {
	def, ok = a.Def.DefLoc()
	return a.Access.Span(), def, ok
}

func (a Access) String() string {
	return fmt.Sprintf("%s %s->%s", a.Kind, a.Access.Name, a.Def)
}

// ItemOrAccess carries exactly one of Item or Access.
type ItemOrAccess struct {
	Item   *Item
	Access *Access
}

// IsItem reports whether the value is a definition.
func (ia ItemOrAccess) IsItem() bool { return ia.Item != nil }

// Occurrence is the span of the name in source: the definition itself for
// an Item, the use site for an Access.
func (ia ItemOrAccess) Occurrence() source.Span {
	if ia.Item != nil {
		sp, _ := ia.Item.DefLoc()
		return sp
	}
	return ia.Access.Access.Span()
}

// Target is the item the occurrence stands for.
func (ia ItemOrAccess) Target() Item {
	if ia.Item != nil {
		return *ia.Item
	}
	return ia.Access.Def
}

func (ia ItemOrAccess) String() string {
	if ia.Item != nil {
		return ia.Item.String()
	}
	if ia.Access != nil {
		return ia.Access.String()
	}
	return "<nil>"
}
