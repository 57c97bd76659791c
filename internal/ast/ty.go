package ast

import (
	"corefront/internal/source"
	"corefront/internal/types"
)

// TypeKind tags the variant carried by a Type. Exhaustive: every consumer
// switches over all of these (spec §9, "tagged variants for ad-hoc
// polymorphism").
type TypeKind uint8

const (
	TypeInferred TypeKind = iota
	TypeVoid
	TypeBool
	TypeInt
	TypeFloat
	TypePointer
	TypeArray
	TypeSlice
	TypeFunction
	TypeTuple
	TypePath
)

// Type is the as-written type syntax. A nil *IntSize/size means "no
// explicit width was given" (architecture-native int/uint).
type Type struct {
	Kind TypeKind
	Span source.Span

	// TypeInt
	IntSigned bool
	IntSize   *types.IntSize

	// TypeFloat
	FloatSize types.FloatSize

	// TypePointer, TypeArray, TypeSlice
	Elem *Type

	// TypeArray
	ArrayLen uint64

	// TypeFunction
	Params []Type
	Result *Type

	// TypeTuple
	Fields []Type

	// TypePath
	Path Path
}

func Inferred(span source.Span) Type { return Type{Kind: TypeInferred, Span: span} }
func Void(span source.Span) Type     { return Type{Kind: TypeVoid, Span: span} }
func Bool(span source.Span) Type     { return Type{Kind: TypeBool, Span: span} }
