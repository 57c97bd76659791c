package hir

import (
	"fmt"

	"corefront/internal/arena"
	"corefront/internal/ast"
	"corefront/internal/diag"
	"corefront/internal/types"
)

// PhaseError reports that one of the five lowering phases accumulated at
// least one diagnostic; the diagnostics themselves were already sent to the
// emitter (spec §4.1 "each phase runs to completion over the whole program,
// collecting every failure before the next phase begins").
type PhaseError struct {
	Code diag.Code
}

func (e *PhaseError) Error() string { return fmt.Sprintf("phase failed: %s", e.Code) }

// ProgramLowerer drives the five-phase AST-to-HIR lowering (spec §4.1):
// register_modules, register_classes, complete_classes, register_functions,
// complete_functions. cast_module/cast_class/cast_function implement the
// reserve-then-fill pattern that lets a forward reference to a
// not-yet-registered item obtain a stable handle immediately.
type ProgramLowerer struct {
	AST     *ast.Program
	HIR     *Program
	Emitter diag.Emitter

	modules   map[ast.ModuleID]ModuleID
	classes   map[ast.ClassID]ClassID
	functions map[ast.FunctionID]FunctionID
}

// NewProgramLowerer seeds the root-module mapping and returns a ready
// lowerer.
func NewProgramLowerer(astProgram *ast.Program, hirProgram *Program, emitter diag.Emitter) *ProgramLowerer {
	pl := &ProgramLowerer{
		AST:       astProgram,
		HIR:       hirProgram,
		Emitter:   emitter,
		modules:   make(map[ast.ModuleID]ModuleID),
		classes:   make(map[ast.ClassID]ClassID),
		functions: make(map[ast.FunctionID]FunctionID),
	}
	pl.modules[astProgram.RootModule] = hirProgram.RootModule
	return pl
}

func (pl *ProgramLowerer) castModule(id ast.ModuleID) ModuleID {
	if hirID, ok := pl.modules[id]; ok {
		return hirID
	}
	hirID := pl.HIR.Modules.Reserve()
	pl.modules[id] = hirID
	return hirID
}

func (pl *ProgramLowerer) castClass(id ast.ClassID) ClassID {
	if hirID, ok := pl.classes[id]; ok {
		return hirID
	}
	hirID := pl.HIR.Classes.Reserve()
	pl.classes[id] = hirID
	return hirID
}

func (pl *ProgramLowerer) castFunction(id ast.FunctionID) FunctionID {
	if hirID, ok := pl.functions[id]; ok {
		return hirID
	}
	hirID := pl.HIR.Functions.Reserve()
	pl.functions[id] = hirID
	return hirID
}

// Lower runs all five phases in order, stopping at the first that fails
// (spec §4.1 "subsequent phases never run over a program that failed an
// earlier phase").
func (pl *ProgramLowerer) Lower() error {
	pl.registerModules()
	if err := pl.registerClasses(); err != nil {
		return err
	}
	if err := pl.completeClasses(); err != nil {
		return err
	}
	if err := pl.registerFunctions(); err != nil {
		return err
	}
	if err := pl.completeFunctions(); err != nil {
		return err
	}
	return nil
}

// registerModules (phase 1) mints a HIR module per AST module and links
// every module's child tables (cannot fail: module registration has no
// resolution step).
func (pl *ProgramLowerer) registerModules() {
	parentOf := make(map[ast.ModuleID]ast.ModuleID)
	for astID, module := range pl.AST.Modules.All {
		for _, child := range module.Modules {
			parentOf[child] = astID
		}
	}

	for astID, module := range pl.AST.Modules.All {
		hirID := pl.castModule(astID)

		if _, ok := pl.HIR.Modules.Get(hirID); !ok {
			hirModule := NewModule(module.Ident, module.Span)
			if parent, ok := parentOf[astID]; ok {
				hirModule.Parent = pl.castModule(parent)
				hirModule.HasParent = true
			}
			pl.HIR.Modules.Insert(hirID, hirModule)
		}

		hirModule, _ := pl.HIR.Modules.Get(hirID)

		for _, childID := range module.Modules {
			childHirID := pl.castModule(childID)
			childAST, _ := pl.AST.Modules.Get(childID)
			hirModule.Modules.Insert(childAST.Ident.Name(), childHirID)
		}
		for _, classID := range module.Classes {
			classHirID := pl.castClass(classID)
			classAST, _ := pl.AST.Classes.Get(classID)
			hirModule.Classes.Insert(classAST.Ident.Name(), classHirID)
		}
		for _, fnID := range module.Functions {
			fnHirID := pl.castFunction(fnID)
			fnAST, _ := pl.AST.Functions.Get(fnID)
			hirModule.Functions.Insert(fnAST.Ident.Name(), fnHirID)
		}

		pl.HIR.Modules.Insert(hirID, hirModule)
	}
}

func lowerGenerics(params []ast.GenericParam) (types.Generics, GenericScope) {
	generics := make(types.Generics, len(params))
	scope := make(GenericScope, len(params))
	for i, p := range params {
		g := types.NewGeneric(p.Ident.Name())
		generics[i] = g
		scope[p.Ident.Name()] = g
	}
	return generics, scope
}

// registerClasses (phase 2) installs every class's identity (ident,
// generics) with empty fields; field types are resolved in phase 3 so that
// classes may reference each other regardless of declaration order.
func (pl *ProgramLowerer) registerClasses() error {
	failed := false
	for astID, item := range pl.AST.Classes.All {
		id := pl.castClass(astID)
		generics, _ := lowerGenerics(item.Generics.Params)
		pl.HIR.Classes.Insert(id, Class{
			Ident:    item.Ident,
			Generics: generics,
			Fields:   arena.New[Field](),
			Module:   pl.castModule(item.Module),
			Span:     item.Span,
		})
	}
	if failed {
		return &PhaseError{Code: diag.ClassRegistration}
	}
	return nil
}

// completeClasses (phase 3) resolves every declared field's type against
// the now-complete module/class tables.
func (pl *ProgramLowerer) completeClasses() error {
	failed := false
	for astID, item := range pl.AST.Classes.All {
		id := pl.castClass(astID)
		if err := pl.completeClass(id, item); err != nil {
			pl.Emitter.Emit(err.(*diag.Diagnostic))
			failed = true
		}
	}
	if failed {
		return &PhaseError{Code: diag.ClassCompletion}
	}
	return nil
}

func (pl *ProgramLowerer) completeClass(id ClassID, item ast.Class) error {
	class, _ := pl.HIR.Classes.Get(id)
	scope := make(GenericScope, len(class.Generics))
	for _, g := range class.Generics {
		scope[g.Name] = g
	}
	module := pl.castModule(item.Module)
	resolver := &Resolver{Program: pl.HIR, Generics: scope, Module: module}

	for _, field := range item.Fields {
		ty, err := resolver.ResolveType(field.Type)
		if err != nil {
			return err
		}
		class.Fields.Push(Field{Ident: field.Ident, Type: ty, Span: field.Span})
	}

	pl.HIR.Classes.Insert(id, class)
	return nil
}

// registerFunctions (phase 4) resolves each function's signature (argument
// and return types must not be Inferred; spec §4.1 "signatures are fully
// concrete before any body is lowered") and allocates its argument locals.
func (pl *ProgramLowerer) registerFunctions() error {
	failed := false
	for astID, item := range pl.AST.Functions.All {
		id := pl.castFunction(astID)
		if err := pl.registerFunction(id, item); err != nil {
			pl.Emitter.Emit(err.(*diag.Diagnostic))
			failed = true
		}
	}
	if failed {
		return &PhaseError{Code: diag.FunctionRegistration}
	}
	return nil
}

func (pl *ProgramLowerer) registerFunction(id FunctionID, item ast.Function) error {
	generics, scope := lowerGenerics(item.Generics.Params)
	module := pl.castModule(item.Module)
	resolver := &Resolver{Program: pl.HIR, Generics: scope, Module: module}

	body := NewBody()

	arguments := make([]FunctionArgument, 0, len(item.Arguments))
	for _, argument := range item.Arguments {
		ty, err := resolver.ResolveType(argument.Type)
		if err != nil {
			return err
		}
		if ty.IsInferred() {
			return diag.Error(diag.InvalidInferred, "cannot infer type of function argument",
				argument.Span, diag.Hint{Message: "argument type is inferred", Span: argument.Span})
		}
		local := body.NewLocal(argument.Ident, ty)
		arguments = append(arguments, FunctionArgument{
			Ident: argument.Ident,
			Type:  ty,
			Local: local,
			Span:  argument.Span,
		})
	}

	var returnType Type
	if item.ReturnType != nil {
		ty, err := resolver.ResolveType(*item.ReturnType)
		if err != nil {
			return err
		}
		returnType = ty
	} else {
		returnType = Void(item.Span)
	}
	if returnType.IsInferred() {
		return diag.Error(diag.InvalidInferred, "cannot infer type of function return type",
			item.Span, diag.Hint{Message: "return type is inferred", Span: item.Span})
	}

	pl.HIR.Functions.Insert(id, Function{
		Ident:      item.Ident,
		Generics:   generics,
		Arguments:  arguments,
		ReturnType: returnType,
		Body:       body,
		Module:     module,
		Span:       item.Span,
	})
	return nil
}

// completeFunctions (phase 5) lowers each function's body using its
// already-registered argument locals and signature.
func (pl *ProgramLowerer) completeFunctions() error {
	failed := false
	for astID, item := range pl.AST.Functions.All {
		id := pl.castFunction(astID)
		if err := pl.completeFunction(id, item); err != nil {
			pl.Emitter.Emit(err.(*diag.Diagnostic))
			failed = true
		}
	}
	if failed {
		return &PhaseError{Code: diag.FunctionCompletion}
	}
	return nil
}

func (pl *ProgramLowerer) completeFunction(id FunctionID, item ast.Function) error {
	function, _ := pl.HIR.Functions.Get(id)
	scope := make(GenericScope, len(function.Generics))
	for _, g := range function.Generics {
		scope[g.Name] = g
	}
	resolver := &Resolver{Program: pl.HIR, Generics: scope, Module: function.Module}

	lowerer := newBodyLowerer(&function.Body, resolver)
	entry, err := lowerer.lowerBlock(item.Body)
	if err != nil {
		return err
	}
	function.Body.Entry = entry

	pl.HIR.Functions.Insert(id, function)
	return nil
}
