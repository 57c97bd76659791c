package hir

import (
	"corefront/internal/arena"
	"corefront/internal/source"
	"corefront/internal/types"
)

// Module owns ordered ident -> handle tables for nested modules, classes
// and functions (spec §3 "Program").
type Module struct {
	Ident     source.Ident
	Parent    ModuleID
	HasParent bool
	Modules   identMap[ModuleID]
	Classes   identMap[ClassID]
	Functions identMap[FunctionID]
	Span      source.Span
}

// NewModule returns an empty, ready-to-populate module with no parent (the
// caller sets Parent/HasParent when nesting it under another module).
func NewModule(ident source.Ident, span source.Span) Module {
	return Module{
		Ident:     ident,
		Modules:   newIdentMap[ModuleID](),
		Classes:   newIdentMap[ClassID](),
		Functions: newIdentMap[FunctionID](),
		Span:      span,
	}
}

// Field is a class member: an identifier, its resolved type, and a span.
type Field struct {
	Ident source.Ident
	Type  Type
	Span  source.Span
}

// Class is a (possibly generic) user-defined aggregate.
type Class struct {
	Ident    source.Ident
	Generics types.Generics
	Fields   *arena.Arena[Field]
	Module   ModuleID
	Span     source.Span
}

// FindField returns the id of the last field declared with ident, matching
// spec §3 "field lookup by identifier returning the last matching entry".
func (c *Class) FindField(ident source.Ident) (FieldID, bool) {
	var (
		found FieldID
		ok    bool
	)
	for id, f := range c.Fields.All {
		if f.Ident.Equal(ident) {
			found, ok = id, true
		}
	}
	return found, ok
}

// FunctionArgument is one formal parameter, already bound to its body
// local (spec §4.1 "Argument locals are created eagerly").
type FunctionArgument struct {
	Ident source.Ident
	Type  Type
	Local LocalID
	Span  source.Span
}

// Function is a fully-registered signature, with a body lowered in phase 5.
type Function struct {
	Ident      source.Ident
	Generics   types.Generics
	Arguments  []FunctionArgument
	ReturnType Type
	Body       Body
	Module     ModuleID
	Span       source.Span
}

// FunctionInstance names a concrete (possibly still-inferred) call target:
// a function plus its instantiating generic arguments (spec §4.1 resolver
// contract: "a function instance (item segments + generic-argument
// list)").
type FunctionInstance struct {
	Function FunctionID
	Generics []Type
	Span     source.Span
}

// Program is the whole lowered unit: arenas of modules, classes and
// functions, with a reserved root module.
type Program struct {
	RootModule ModuleID
	Modules    *arena.Arena[Module]
	Classes    *arena.Arena[Class]
	Functions  *arena.Arena[Function]
}

// NewProgram returns a program with only its root module installed.
func NewProgram() *Program {
	p := &Program{
		Modules:   arena.New[Module](),
		Classes:   arena.New[Class](),
		Functions: arena.New[Function](),
	}
	p.RootModule = p.Modules.Push(NewModule(source.Ident{}, source.Dummy))
	return p
}
