// Package index is the project symbol index of an ISLE workspace.
//
// It owns the parsed definitions of every file, walks them in a fixed
// multi-pass order and reports each name occurrence to a Handler either as an
// Item (a definition) or as an Access (a use that points back to its Item).
// Query handlers in package ide are built on top of this walk.
package index
