// Package ast defines the concrete syntax tree handed to the core by the
// lexer/parser collaborator (out of scope here, per spec §1/§6). The tree
// is purely syntactic and immutable once built: every node carries a span,
// and identifiers are validated to [A-Za-z0-9_]+ by the parser before
// reaching this package.
package ast

import (
	"corefront/internal/arena"
	"corefront/internal/source"
)

// ModuleID, ClassID and FunctionID identify items within a Program's
// top-level arenas. A Module's own Modules/Classes/Functions slices hold
// these ids to describe parent/child relationships.
type (
	ModuleID   = arena.Id[Module]
	ClassID    = arena.Id[Class]
	FunctionID = arena.Id[Function]
)

// Module is a named scope owning child modules, classes and functions, all
// addressed indirectly through the owning Program's global arenas.
type Module struct {
	Ident     source.Ident
	Modules   []ModuleID
	Classes   []ClassID
	Functions []FunctionID
	Span      source.Span
}

// GenericParam is a single declared type parameter, before it has been
// lowered into a fresh types.Generic token.
type GenericParam struct {
	Ident source.Ident
}

// Generics is the as-written generic parameter list on a class or function.
type Generics struct {
	Params []GenericParam
	Span   source.Span
}

// Field is a class member: a name and its declared type.
type Field struct {
	Ident source.Ident
	Type  Type
	Span  source.Span
}

// Class is a user-defined aggregate type with fields, optionally generic.
type Class struct {
	Ident    source.Ident
	Generics Generics
	Fields   []Field
	Module   ModuleID
	Span     source.Span
}

// FunctionArgument is one parameter in a function's signature.
type FunctionArgument struct {
	Ident source.Ident
	Type  Type
	Span  source.Span
}

// Function is a top-level or method function declaration.
type Function struct {
	Ident      source.Ident
	Generics   Generics
	Arguments  []FunctionArgument
	ReturnType *Type // nil means "no annotation", not void
	Body       Block
	Module     ModuleID
	Span       source.Span
}

// Program is the whole parsed input: global arenas of modules, classes and
// functions, with a distinguished root module.
type Program struct {
	RootModule ModuleID
	Modules    *arena.Arena[Module]
	Classes    *arena.Arena[Class]
	Functions  *arena.Arena[Function]
}

// NewProgram returns an empty program with just the root module installed.
func NewProgram() *Program {
	p := &Program{
		Modules:   arena.New[Module](),
		Classes:   arena.New[Class](),
		Functions: arena.New[Function](),
	}
	p.RootModule = p.Modules.Push(Module{})
	return p
}
