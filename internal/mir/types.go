// Package mir is the Mid-level Intermediate Representation: a typed
// control-flow graph of places, operands and values with no Inferred type
// left anywhere in it (spec §3 "Types (HIR/MIR)" — MIR types are the
// closed-under-substitution eleven-variant subset).
package mir

import (
	"fmt"

	"corefront/internal/arena"
	"corefront/internal/source"
	"corefront/internal/types"
)

// TypeKind tags a MIR Type. Unlike hir.TypeKind, there is no Inferred
// variant: every MIR type is fully resolved by construction (spec §4.3
// "THIR: every node is stamped with a resolved mir.Type").
type TypeKind uint8

const (
	KindVoid TypeKind = iota
	KindBool
	KindInt
	KindFloat
	KindPointer
	KindArray
	KindSlice
	KindFunction
	KindTuple
	KindClass
	KindGeneric
)

// Type mirrors hir.Type's compact tagged-struct encoding minus Inferred.
type Type struct {
	Kind TypeKind

	IntSigned bool
	IntSize   types.IntSize

	FloatSize types.FloatSize

	Elem *Type

	ArrayLen uint64

	Params []Type
	Result *Type

	Fields []Type

	Class       ClassID
	ClassIdent  source.Ident
	GenericArgs []Type

	Generic types.Generic
}

func Void() Type { return Type{Kind: KindVoid} }
func Bool() Type { return Type{Kind: KindBool} }

func Int(signed bool, size types.IntSize) Type {
	return Type{Kind: KindInt, IntSigned: signed, IntSize: size}
}

func Float(size types.FloatSize) Type { return Type{Kind: KindFloat, FloatSize: size} }

func Pointer(elem Type) Type { return Type{Kind: KindPointer, Elem: &elem} }

func Array(elem Type, length uint64) Type {
	return Type{Kind: KindArray, Elem: &elem, ArrayLen: length}
}

func Slice(elem Type) Type { return Type{Kind: KindSlice, Elem: &elem} }

func Function(params []Type, result Type) Type {
	return Type{Kind: KindFunction, Params: params, Result: &result}
}

func Tuple(fields []Type) Type { return Type{Kind: KindTuple, Fields: fields} }

func Class(id ClassID, ident source.Ident, args []Type) Type {
	return Type{Kind: KindClass, Class: id, ClassIdent: ident, GenericArgs: args}
}

func GenericType(g types.Generic) Type { return Type{Kind: KindGeneric, Generic: g} }

// IsVoid reports whether t is the Void type.
func (t Type) IsVoid() bool { return t.Kind == KindVoid }

// Deref follows a Pointer chain down to its eventual pointee, returning t
// unchanged if it is not a pointer.
func (t Type) Deref() Type {
	for t.Kind == KindPointer {
		t = *t.Elem
	}
	return t
}

// Instantiate substitutes every Generic leaf reachable from t using args,
// matching spec §4.3's "Instance" generic-substitution rule.
func (t Type) Instantiate(args types.GenericMap[Type]) Type {
	switch t.Kind {
	case KindPointer:
		elem := t.Elem.Instantiate(args)
		return Pointer(elem)
	case KindArray:
		elem := t.Elem.Instantiate(args)
		return Array(elem, t.ArrayLen)
	case KindSlice:
		elem := t.Elem.Instantiate(args)
		return Slice(elem)
	case KindFunction:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.Instantiate(args)
		}
		result := t.Result.Instantiate(args)
		return Function(params, result)
	case KindTuple:
		fields := make([]Type, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = f.Instantiate(args)
		}
		return Tuple(fields)
	case KindClass:
		generics := make([]Type, len(t.GenericArgs))
		for i, g := range t.GenericArgs {
			generics[i] = g.Instantiate(args)
		}
		return Class(t.Class, t.ClassIdent, generics)
	case KindGeneric:
		if replacement, ok := args.Lookup(t.Generic); ok {
			return replacement
		}
		return t
	default:
		return t
	}
}

func (t Type) String() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		prefix := "u"
		if t.IntSigned {
			prefix = "i"
		}
		return fmt.Sprintf("%s%s", prefix, t.IntSize)
	case KindFloat:
		return t.FloatSize.String()
	case KindPointer:
		return fmt.Sprintf("*%s", t.Elem)
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.ArrayLen)
	case KindSlice:
		return fmt.Sprintf("[%s]", t.Elem)
	case KindFunction:
		return fmt.Sprintf("fn(...) -> %s", t.Result)
	case KindTuple:
		return "(...)"
	case KindClass:
		return t.ClassIdent.Name()
	case KindGeneric:
		return t.Generic.Name
	default:
		return "type?"
	}
}

// ClassID, FieldID and FunctionID are arena handles shared by the program
// form; declared here (rather than in program.go) so Type can reference
// ClassID without an import cycle.
type (
	ClassID    = arena.Id[Class]
	FieldID    = arena.Id[Field]
	FunctionID = arena.Id[Function]
)
