package hir

import (
	"fmt"

	"corefront/internal/source"
	"corefront/internal/types"
)

// TypeKind tags the variant carried by a Type (spec §3 "Types (HIR/MIR)").
// HIR additionally carries Inferred, which MIR types (internal/mir) never
// do; everything else matches the spec's table 1:1.
type TypeKind uint8

const (
	KindInferred TypeKind = iota
	KindVoid
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

// Type is a HIR type descriptor. Only the fields relevant to Kind are
// meaningful; this mirrors the teacher's compact tagged-struct encoding
// (internal/types.Type in the teacher) rather than a pointer-heavy
// interface hierarchy, while still exposing named payload fields for each
// variant instead of collapsing them into opaque slots.
type Type struct {
	Kind TypeKind
	Span source.Span

	IntSigned bool
	IntSize   types.IntSize

	FloatSize types.FloatSize

	Elem *Type // Pointer pointee, Array/Slice element

	ArrayLen uint64 // Array only

	Params []Type // Function arguments
	Result *Type  // Function return type

	Fields []Type // Tuple fields

	Class       ClassID
	ClassIdent  source.Ident
	GenericArgs []Type // Class instantiation arguments

	Generic types.Generic
}

func Inferred(span source.Span) Type { return Type{Kind: KindInferred, Span: span} }
func Void(span source.Span) Type     { return Type{Kind: KindVoid, Span: span} }
func Bool(span source.Span) Type     { return Type{Kind: KindBool, Span: span} }

func Int(signed bool, size types.IntSize, span source.Span) Type {
	return Type{Kind: KindInt, IntSigned: signed, IntSize: size, Span: span}
}

func Float(size types.FloatSize, span source.Span) Type {
	return Type{Kind: KindFloat, FloatSize: size, Span: span}
}

func Pointer(elem Type, span source.Span) Type {
	return Type{Kind: KindPointer, Elem: &elem, Span: span}
}

func Array(elem Type, length uint64, span source.Span) Type {
	return Type{Kind: KindArray, Elem: &elem, ArrayLen: length, Span: span}
}

func Slice(elem Type, span source.Span) Type {
	return Type{Kind: KindSlice, Elem: &elem, Span: span}
}

func Function(params []Type, result Type, span source.Span) Type {
	return Type{Kind: KindFunction, Params: params, Result: &result, Span: span}
}

func Tuple(fields []Type, span source.Span) Type {
	return Type{Kind: KindTuple, Fields: fields, Span: span}
}

func Class(id ClassID, ident source.Ident, args []Type, span source.Span) Type {
	return Type{Kind: KindClass, Class: id, ClassIdent: ident, GenericArgs: args, Span: span}
}

func GenericType(g types.Generic, span source.Span) Type {
	return Type{Kind: KindGeneric, Generic: g, Span: span}
}

// IsInferred reports whether t or any of its structural children contain an
// Inferred node (spec §3 "inferred-reachable").
func (t Type) IsInferred() bool {
	switch t.Kind {
	case KindInferred:
		return true
	case KindPointer, KindArray, KindSlice:
		return t.Elem != nil && t.Elem.IsInferred()
	case KindFunction:
		if t.Result != nil && t.Result.IsInferred() {
			return true
		}
		for _, p := range t.Params {
			if p.IsInferred() {
				return true
			}
		}
		return false
	case KindTuple:
		for _, f := range t.Fields {
			if f.IsInferred() {
				return true
			}
		}
		return false
	case KindClass:
		for _, a := range t.GenericArgs {
			if a.IsInferred() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (t Type) String() string {
	switch t.Kind {
	case KindInferred:
		return "_"
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
