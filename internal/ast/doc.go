// Package ast holds the declaration tree of ISLE sources.
//
// Nodes are Kind-tagged structs. A Def carries exactly one non-nil payload
// matching its Kind; Pattern and Expr keep their children inline.
// Positions are token starts; names of `$Const` references point past the
// dollar sign so that Ident.Span covers the name only.
package ast
