package infer

import (
	"corefront/internal/arena"
	"corefront/internal/diag"
	"corefront/internal/hir"
	"corefront/internal/mir"
	"corefront/internal/source"
	"corefront/internal/types"
)

// Resolve turns a fully-solved InferType into a concrete mir.Type. An
// unresolved kinded variable defaults rather than errors: an
// integer-literal variable becomes i32, a float-literal variable becomes
// f64 (numeric defaulting is enabled — see SPEC_FULL.md's resolution of the
// corresponding open question). A variable with no kind at all, or a
// projection that never normalized, has no sound default and is reported
// as AmbiguousType / InvalidFieldAccess against span.
func Resolve(table *InferenceTable, ty InferType, span source.Span) (mir.Type, error) {
	ty = table.Normalize(ty)

	switch ty.Kind {
	case KindVar:
		switch ty.Var.Kind {
		case KindIntegerVar:
			return mir.Int(true, types.I32), nil
		case KindFloatVar:
			return mir.Float(types.F64), nil
		default:
			return mir.Type{}, diag.Error(diag.AmbiguousType, "cannot infer a concrete type here", span,
				diag.Hint{Message: "add an explicit type annotation", Span: span})
		}
	case KindApply:
		return resolveApply(table, ty.Apply, span)
	case KindProj:
		return mir.Type{}, diag.Error(diag.InvalidFieldAccess, "field type never resolved", span,
			diag.Hint{Message: "the base of this field access could not be determined", Span: span})
	default:
		return mir.Type{}, diag.Error(diag.AmbiguousType, "cannot infer a concrete type here", span)
	}
}

func resolveApply(table *InferenceTable, app TypeApplication, span source.Span) (mir.Type, error) {
	switch app.Item.Kind {
	case ItemVoid:
		return mir.Void(), nil
	case ItemBool:
		return mir.Bool(), nil
	case ItemInt:
		return mir.Int(app.Item.IntSigned, app.Item.IntSize), nil
	case ItemFloat:
		return mir.Float(app.Item.FloatSize), nil
	case ItemPointer:
		elem, err := Resolve(table, app.Arguments[0], span)
		if err != nil {
			return mir.Type{}, err
		}
		return mir.Pointer(elem), nil
	case ItemArray:
		elem, err := Resolve(table, app.Arguments[0], span)
		if err != nil {
			return mir.Type{}, err
		}
		return mir.Array(elem, app.Item.ArrayLen), nil
	case ItemSlice:
		elem, err := Resolve(table, app.Arguments[0], span)
		if err != nil {
			return mir.Type{}, err
		}
		return mir.Slice(elem), nil
	case ItemFunction:
		params := make([]mir.Type, len(app.Arguments)-1)
		for i := 0; i < len(app.Arguments)-1; i++ {
			p, err := Resolve(table, app.Arguments[i], span)
			if err != nil {
				return mir.Type{}, err
			}
			params[i] = p
		}
		result, err := Resolve(table, app.Arguments[len(app.Arguments)-1], span)
		if err != nil {
			return mir.Type{}, err
		}
		return mir.Function(params, result), nil
	case ItemTuple:
		fields := make([]mir.Type, len(app.Arguments))
		for i, a := range app.Arguments {
			f, err := Resolve(table, a, span)
			if err != nil {
				return mir.Type{}, err
			}
			fields[i] = f
		}
		return mir.Tuple(fields), nil
	case ItemClass:
		args := make([]mir.Type, len(app.Arguments))
		for i, a := range app.Arguments {
			r, err := Resolve(table, a, span)
			if err != nil {
				return mir.Type{}, err
			}
			args[i] = r
		}
		return mir.Class(arena.Cast[hir.Class, mir.Class](app.Item.Class), app.Item.ClassIdent, args), nil
	case ItemGeneric:
		return mir.GenericType(app.Item.Generic), nil
	default:
		return mir.Type{}, diag.Error(diag.AmbiguousType, "cannot infer a concrete type here", span)
	}
}

// ResolveFieldID looks up which field of which class a field-access
// expression's base type names, once that base has resolved to a concrete
// Class application. Separate from Resolve because the THIR builder needs
// the field's identity (to build a Place), not its type.
func ResolveFieldID(table *InferenceTable, program *hir.Program, base InferType, field source.Ident) (mir.ClassID, mir.FieldID, error) {
	base = table.Normalize(base)
	if base.Kind != KindApply || base.Apply.Item.Kind != ItemClass {
		return mir.ClassID{}, mir.FieldID{}, diag.Error(diag.InvalidFieldAccess, "value has no fields", base.Apply.Span)
	}
	class, ok := program.Classes.Get(base.Apply.Item.Class)
	if !ok {
		return mir.ClassID{}, mir.FieldID{}, diag.Error(diag.InvalidFieldAccess, "unknown class", base.Apply.Span)
	}
	fieldID, ok := class.FindField(field)
	if !ok {
		return mir.ClassID{}, mir.FieldID{}, diag.Error(diag.InvalidFieldAccess, "no field named "+field.Name(), base.Apply.Span)
	}
	return arena.Cast[hir.Class, mir.Class](base.Apply.Item.Class), arena.Cast[hir.Field, mir.Field](fieldID), nil
}
