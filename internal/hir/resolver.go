package hir

import (
	"fmt"

	"corefront/internal/ast"
	"corefront/internal/diag"
	"corefront/internal/source"
	"corefront/internal/types"
)

// GenericScope maps a declared generic parameter's name to the fresh,
// globally-unique token it was lowered to (spec §3 "Generic").
type GenericScope map[string]types.Generic

// Resolver binds surface ast.Path/ast.Type nodes against a partially- or
// fully-registered Program, exactly mirroring the original's
// Resolver{program, generics, module} contract.
type Resolver struct {
	Program *Program
	Generics GenericScope
	Module  ModuleID
}

// ResolveType lowers an as-written ast.Type into its hir.Type, recursively
// resolving nested types and binding TypePath against the current generic
// scope or a registered class.
func (r *Resolver) ResolveType(t ast.Type) (Type, error) {
	switch t.Kind {
	case ast.TypeInferred:
		return Inferred(t.Span), nil
	case ast.TypeVoid:
		return Void(t.Span), nil
	case ast.TypeBool:
		return Bool(t.Span), nil
	case ast.TypeInt:
		size := types.ISize
		if t.IntSize != nil {
			size = *t.IntSize
		}
		return Int(t.IntSigned, size, t.Span), nil
	case ast.TypeFloat:
		return Float(t.FloatSize, t.Span), nil
	case ast.TypePointer:
		elem, err := r.ResolveType(*t.Elem)
		if err != nil {
			return Type{}, err
		}
		return Pointer(elem, t.Span), nil
	case ast.TypeArray:
		elem, err := r.ResolveType(*t.Elem)
		if err != nil {
			return Type{}, err
		}
		return Array(elem, t.ArrayLen, t.Span), nil
	case ast.TypeSlice:
		elem, err := r.ResolveType(*t.Elem)
		if err != nil {
			return Type{}, err
		}
		return Slice(elem, t.Span), nil
	case ast.TypeFunction:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			resolved, err := r.ResolveType(p)
			if err != nil {
				return Type{}, err
			}
			params[i] = resolved
		}
		result, err := r.ResolveType(*t.Result)
		if err != nil {
			return Type{}, err
		}
		return Function(params, result, t.Span), nil
	case ast.TypeTuple:
		fields := make([]Type, len(t.Fields))
		for i, f := range t.Fields {
			resolved, err := r.ResolveType(f)
			if err != nil {
				return Type{}, err
			}
			fields[i] = resolved
		}
		return Tuple(fields, t.Span), nil
	case ast.TypePath:
		return r.resolvePathType(t.Path)
	default:
		return Type{}, r.typeNotFound(t.Span, "unknown type form")
	}
}

func (r *Resolver) resolvePathType(path ast.Path) (Type, error) {
	ident, ok := path.Ident()
	if !ok {
		return Type{}, r.invalidPath(path.Span, "multi-segment type paths are not supported")
	}

	if generic, ok := r.Generics[ident.Name()]; ok {
		return GenericType(generic, path.Span), nil
	}

	module, ok := r.Program.Modules.Get(r.Module)
	if !ok {
		return Type{}, r.typeNotFound(path.Span, "current module is not registered")
	}

	classID, ok := module.Classes.Get(ident.Name())
	if !ok {
		return Type{}, r.typeNotFound(path.Span, fmt.Sprintf("type '%s' not found", ident.Name()))
	}

	class, ok := r.Program.Classes.Get(classID)
	if !ok {
		return Type{}, r.typeNotFound(path.Span, fmt.Sprintf("type '%s' not found", ident.Name()))
	}

	args := make([]Type, len(path.Segments[len(path.Segments)-1].Generics))
	for i, g := range path.Segments[len(path.Segments)-1].Generics {
		resolved, err := r.ResolveType(g)
		if err != nil {
			return Type{}, err
		}
		args[i] = resolved
	}
	if len(args) == 0 {
		for range class.Generics {
			args = append(args, Inferred(path.Span))
		}
	}
	if len(args) != len(class.Generics) {
		return Type{}, r.argCountMismatch(path.Span, len(class.Generics), len(args))
	}

	return Class(classID, class.Ident, args, path.Span), nil
}

// ResolveFunction binds path against the current module's function table,
// walking item/super segments and defaulting elided generic arguments to
// Inferred placeholders re-solved by inference (spec §4.1 resolver
// contract). A nil, nil result means the path names no function; the
// caller, which has already looked the name up among the locals, then
// reports it as undefined.
func (r *Resolver) ResolveFunction(path ast.Path) (*FunctionInstance, error) {
	moduleID := r.Module
	if path.Absolute {
		moduleID = r.Program.RootModule
	}

	for i, seg := range path.Segments {
		last := i == len(path.Segments)-1

		switch seg.Kind {
		case ast.SegmentSuper:
			module, ok := r.Program.Modules.Get(moduleID)
			if !ok || !module.HasParent {
				return nil, r.invalidPath(path.Span, "'super' has no parent module")
			}
			moduleID = module.Parent
			continue
		case ast.SegmentSelf:
			return nil, r.invalidPath(path.Span, "'self' is not a function")
		}

		module, ok := r.Program.Modules.Get(moduleID)
		if !ok {
			return nil, r.invalidPath(path.Span, "module is not registered")
		}

		if !last {
			next, ok := module.Modules.Get(seg.Ident.Name())
			if !ok {
				return nil, r.invalidPath(path.Span, fmt.Sprintf("module '%s' not found", seg.Ident.Name()))
			}
			moduleID = next
			continue
		}

		functionID, ok := module.Functions.Get(seg.Ident.Name())
		if !ok {
			return nil, nil
		}

		function, ok := r.Program.Functions.Get(functionID)
		if !ok {
			return nil, nil
		}

		generics := make([]Type, len(seg.Generics))
		for j, g := range seg.Generics {
			resolved, err := r.ResolveType(g)
			if err != nil {
				return nil, err
			}
			generics[j] = resolved
		}
		if len(generics) == 0 {
			for range function.Generics {
				generics = append(generics, Inferred(path.Span))
			}
		}
		if len(generics) != len(function.Generics) {
			return nil, r.argCountMismatch(path.Span, len(function.Generics), len(generics))
		}

		return &FunctionInstance{Function: functionID, Generics: generics, Span: path.Span}, nil
	}

	return nil, r.invalidPath(path.Span, "empty path")
}

func (r *Resolver) typeNotFound(span source.Span, msg string) error {
	return diag.Error(diag.TypeNotFound, "type not found", span, diag.Hint{Message: msg, Span: span})
}

func (r *Resolver) invalidPath(span source.Span, msg string) error {
	return diag.Error(diag.InvalidPath, "invalid path", span, diag.Hint{Message: msg, Span: span})
}

func (r *Resolver) argCountMismatch(span source.Span, expected, found int) error {
	msg := fmt.Sprintf("expected %d generic arguments, found %d", expected, found)
	return diag.Error(diag.ArgCountMismatch, "invalid number of generic arguments", span,
		diag.Hint{Message: msg, Span: span})
}
