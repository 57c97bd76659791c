package mirbuild

import (
	"corefront/internal/arena"
	"corefront/internal/hir"
	"corefront/internal/infer"
	"corefront/internal/mir"
	"corefront/internal/thir"
)

// BuildProgram solves and lowers every function and class in program into a
// fully typed mir.Program (spec §4.3/§4.4, generalizing ritec-mir-build's
// program_builder.rs, whose minimal example had no classes to reflect). Each
// function gets its own Solver and InferenceTable: nothing is shared across
// functions, matching the original's per-function solve boundary.
func BuildProgram(program *hir.Program) (*mir.Program, error) {
	out := mir.NewProgram()

	for id, class := range program.Classes.All {
		mirClass, err := BuildClass(program, class)
		if err != nil {
			return nil, err
		}
		out.Classes.Insert(arena.Cast[hir.Class, mir.Class](id), mirClass)
	}

	for id, function := range program.Functions.All {
		mirFunction, err := BuildFunction(program, function)
		if err != nil {
			return nil, err
		}
		out.Functions.Insert(arena.Cast[hir.Function, mir.Function](id), mirFunction)
	}

	return out, nil
}

// BuildClass resolves every field's declared type against an empty
// substitution, leaving the class's own generics as opaque placeholders:
// a class definition is checked once, independent of any instantiation
// site (spec §3 "Class"). Exported so internal/driver can fan class
// building out alongside functions.
func BuildClass(program *hir.Program, class hir.Class) (mir.Class, error) {
	table := infer.NewTable()
	instance := infer.EmptyInstance()

	fields := make([]mir.Field, 0, class.Fields.Len())
	for _, field := range class.Fields.All {
		ty := infer.InferHIR(table, field.Type, instance)
		resolved, err := infer.Resolve(table, ty, field.Span)
		if err != nil {
			return mir.Class{}, err
		}
		fields = append(fields, mir.Field{Ident: field.Ident, Type: resolved})
	}

	return mir.Class{Ident: class.Ident, Generics: class.Generics, Fields: fields}, nil
}

// BuildFunction solves function's body in isolation (its own generics are
// self-bound, i.e. left as opaque Generic placeholders since this is the
// definition site, not a call site), then lowers the solved body to a
// mir.Body via a fresh FunctionBuilder. Exported so internal/driver can run
// one of these per goroutine (spec §5 "function bodies are independent once
// HIR is fully resolved").
func BuildFunction(program *hir.Program, function hir.Function) (mir.Function, error) {
	table := infer.NewTable()
	solver := infer.NewSolver(program, table)
	instance := infer.EmptyInstance()

	returnTy := infer.InferHIR(table, function.ReturnType, instance)
	solver.SetReturnType(returnTy)

	if err := solver.SolveBody(&function.Body, instance); err != nil {
		return mir.Function{}, err
	}
	if err := solver.SolveAll(); err != nil {
		return mir.Function{}, err
	}

	thirBody, err := thir.Build(program, solver, &function.Body, function.Span)
	if err != nil {
		return mir.Function{}, err
	}

	body, err := NewFunctionBuilder(program, thirBody).Build()
	if err != nil {
		return mir.Function{}, err
	}

	arguments := make([]mir.FunctionArgument, len(function.Arguments))
	for i, arg := range function.Arguments {
		arguments[i] = mir.FunctionArgument{
			Ident: arg.Ident,
			Type:  thirBody.LocalType(arg.Local),
			Local: arena.Cast[hir.Local, mir.Local](arg.Local),
		}
	}

	return mir.Function{
		Ident:      function.Ident,
		Generics:   function.Generics,
		Arguments:  arguments,
		ReturnType: thirBody.ReturnType,
		Body:       body,
	}, nil
}
