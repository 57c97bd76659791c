package infer

import "corefront/internal/hir"

// InferHIR converts a hir.Type into an InferType under instance (the
// generic bindings active at this site): Inferred mints a fresh variable,
// every concrete constructor becomes an Apply, and a Generic parameter
// either resolves through instance or becomes an opaque Apply(Generic)
// placeholder (spec §4.2 "register_hir").
func InferHIR(table *InferenceTable, ty hir.Type, instance Instance) InferType {
	switch ty.Kind {
	case hir.KindInferred:
		return VarType(table.NewVariable(KindNone))
	case hir.KindVoid:
		return ApplyType(ItemID{Kind: ItemVoid}, nil, ty.Span)
	case hir.KindBool:
		return ApplyType(ItemID{Kind: ItemBool}, nil, ty.Span)
	case hir.KindInt:
		return ApplyType(ItemID{Kind: ItemInt, IntSigned: ty.IntSigned, IntSize: ty.IntSize}, nil, ty.Span)
	case hir.KindFloat:
		return ApplyType(ItemID{Kind: ItemFloat, FloatSize: ty.FloatSize}, nil, ty.Span)
	case hir.KindPointer:
		elem := InferHIR(table, *ty.Elem, instance)
		return ApplyType(ItemID{Kind: ItemPointer}, []InferType{elem}, ty.Span)
	case hir.KindArray:
		elem := InferHIR(table, *ty.Elem, instance)
		return ApplyType(ItemID{Kind: ItemArray, ArrayLen: ty.ArrayLen}, []InferType{elem}, ty.Span)
	case hir.KindSlice:
		elem := InferHIR(table, *ty.Elem, instance)
		return ApplyType(ItemID{Kind: ItemSlice}, []InferType{elem}, ty.Span)
	case hir.KindFunction:
		args := make([]InferType, 0, len(ty.Params)+1)
		for _, p := range ty.Params {
			args = append(args, InferHIR(table, p, instance))
		}
		args = append(args, InferHIR(table, *ty.Result, instance))
		return ApplyType(ItemID{Kind: ItemFunction}, args, ty.Span)
	case hir.KindTuple:
		fields := make([]InferType, len(ty.Fields))
		for i, f := range ty.Fields {
			fields[i] = InferHIR(table, f, instance)
		}
		return ApplyType(ItemID{Kind: ItemTuple}, fields, ty.Span)
	case hir.KindClass:
		args := make([]InferType, len(ty.GenericArgs))
		for i, a := range ty.GenericArgs {
			args[i] = InferHIR(table, a, instance)
		}
		return ApplyType(ItemID{Kind: ItemClass, Class: ty.Class, ClassIdent: ty.ClassIdent}, args, ty.Span)
	case hir.KindGeneric:
		if bound, ok := instance.Get(ty.Generic); ok {
			return bound
		}
		return ApplyType(ItemID{Kind: ItemGeneric, Generic: ty.Generic}, nil, ty.Span)
	default:
		return ApplyType(ItemID{Kind: ItemVoid}, nil, ty.Span)
	}
}

// RegisterHIR is InferHIR with memoization keyed by node: re-registering
// the same node (e.g. a local's declared type, consulted from several
// expressions) returns the same InferType rather than minting a second,
// unrelated variable.
func RegisterHIR(table *InferenceTable, node hir.NodeID, ty hir.Type, instance Instance) InferType {
	if cached, ok := table.GetType(node); ok {
		return cached
	}
	result := InferHIR(table, ty, instance)
	table.RegisterType(node, result)
	return result
}
