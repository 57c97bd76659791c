// Package infer implements the constraint-based type-inference solver of
// spec §4.2: a unifier over InferType = Var | Apply | Proj, driven by a
// FIFO constraint queue with a bounded recursion stack. It consumes a
// fully-lowered, read-only hir.Program and produces an InferenceTable the
// THIR builder (internal/thir) resolves every node's type against.
package infer

import (
	"fmt"
	"strings"

	"corefront/internal/hir"
	"corefront/internal/source"
	"corefront/internal/types"
)

// VariableKind narrows what a fresh type variable is allowed to unify with:
// an untyped integer or float literal mints a kinded variable so later
// defaulting (spec §9) knows what to fall back to.
type VariableKind uint8

const (
	KindNone VariableKind = iota
	KindIntegerVar
	KindFloatVar
)

// TypeVariable is an as-yet-unresolved type, identified by a fresh index
// unique within one InferenceTable.
type TypeVariable struct {
	Index uint64
	Kind  VariableKind
}

func (v TypeVariable) String() string {
	if v.Kind == KindNone {
		return fmt.Sprintf("T%d", v.Index)
	}
	return fmt.Sprintf("T%d:%d", v.Index, v.Kind)
}

// CanUnifyWithVar reports whether two variables' kinds are compatible.
func (v TypeVariable) CanUnifyWithVar(other TypeVariable) bool {
	if v.Kind == KindNone || other.Kind == KindNone {
		return true
	}
	return v.Kind == other.Kind
}

// CanUnifyWithApply reports whether a kinded variable may be bound to the
// concrete item id apply names.
func (v TypeVariable) CanUnifyWithApply(item ItemID) bool {
	switch v.Kind {
	case KindIntegerVar:
		return item.Kind == ItemInt
	case KindFloatVar:
		return item.Kind == ItemFloat
	default:
		return true
	}
}

// ItemKind tags the concrete type constructor an Apply node names.
type ItemKind uint8

const (
	ItemVoid ItemKind = iota
	ItemBool
	ItemInt
	ItemFloat
	ItemPointer
	ItemArray
	ItemSlice
	ItemFunction
	ItemTuple
	ItemClass
	ItemGeneric
)

// ItemID names a type constructor plus the payload needed to tell two
// instances of the same constructor apart (signedness, width, array length,
// class/generic identity).
type ItemID struct {
	Kind ItemKind

	IntSigned bool
	IntSize   types.IntSize

	FloatSize types.FloatSize

	ArrayLen uint64

	Class      hir.ClassID
	ClassIdent source.Ident

	Generic types.Generic
}

func (id ItemID) String() string {
	switch id.Kind {
	case ItemVoid:
		return "void"
	case ItemBool:
		return "bool"
	case ItemInt:
		prefix := "u"
		if id.IntSigned {
			prefix = "i"
		}
		return fmt.Sprintf("%s%s", prefix, id.IntSize)
	case ItemFloat:
		return id.FloatSize.String()
	case ItemPointer:
		return "*"
	case ItemArray:
		return fmt.Sprintf("[%d]", id.ArrayLen)
	case ItemSlice:
		return "[]"
	case ItemFunction:
		return "fn"
	case ItemTuple:
		return "()"
	case ItemClass:
		return id.ClassIdent.Name()
	case ItemGeneric:
		return id.Generic.Name
	default:
		return "item?"
	}
}

// TypeApplication is a concrete type constructor applied to argument
// InferTypes (e.g. Pointer applied to [elem], Function applied to
// [params..., result]).
type TypeApplication struct {
	Item      ItemID
	Arguments []InferType
	Span      source.Span
}

// TypeProjection is an unresolved `base.field` lookup (spec §4.2
// "Proj(TypeProjection)"); normalizing it requires base to resolve to a
// concrete Class application.
type TypeProjection struct {
	Base  *InferType
	Field source.Ident
}

// InferKind tags the variant carried by an InferType.
type InferKind uint8

const (
	KindVar InferKind = iota
	KindApply
	KindProj
)

// InferType is the solver's working representation of a type: an unresolved
// variable, a concrete constructor application, or a pending field
// projection (spec §4.2).
type InferType struct {
	Kind  InferKind
	Var   TypeVariable
	Apply TypeApplication
	Proj  TypeProjection
}

func VarType(v TypeVariable) InferType { return InferType{Kind: KindVar, Var: v} }

func ApplyType(item ItemID, args []InferType, span source.Span) InferType {
	return InferType{Kind: KindApply, Apply: TypeApplication{Item: item, Arguments: args, Span: span}}
}

func ProjType(base InferType, field source.Ident) InferType {
	return InferType{Kind: KindProj, Proj: TypeProjection{Base: &base, Field: field}}
}

func VoidType(span source.Span) InferType {
	return ApplyType(ItemID{Kind: ItemVoid}, nil, span)
}

// key returns a structural string identity for t, used as a map key since
// InferType itself (containing slices) is not comparable in Go.
func key(t InferType) string {
	var b strings.Builder
	writeKey(&b, t)
	return b.String()
}

func writeKey(b *strings.Builder, t InferType) {
	switch t.Kind {
	case KindVar:
		fmt.Fprintf(b, "v%d", t.Var.Index)
	case KindApply:
		fmt.Fprintf(b, "a(%d", t.Apply.Item.Kind)
		switch t.Apply.Item.Kind {
		case ItemInt:
			fmt.Fprintf(b, ",%v,%v", t.Apply.Item.IntSigned, t.Apply.Item.IntSize)
		case ItemFloat:
			fmt.Fprintf(b, ",%v", t.Apply.Item.FloatSize)
		case ItemArray:
			fmt.Fprintf(b, ",%d", t.Apply.Item.ArrayLen)
		case ItemClass:
			fmt.Fprintf(b, ",%d", t.Apply.Item.Class.RawIndex())
		case ItemGeneric:
			fmt.Fprintf(b, ",%s", t.Apply.Item.Generic.String())
		}
		b.WriteString(")[")
		for i, a := range t.Apply.Arguments {
			if i > 0 {
				b.WriteByte(',')
			}
			writeKey(b, a)
		}
		b.WriteByte(']')
	case KindProj:
		b.WriteString("p(")
		writeKey(b, *t.Proj.Base)
		fmt.Fprintf(b, ".%s)", t.Proj.Field.Name())
	}
}

// Instance binds a class or function's declared generics to concrete
// InferTypes at one call/construction site (spec §4.2 "Instance").
type Instance struct {
	Params types.Generics
	Args   []InferType
}

// EmptyInstance has no bindings, used at the root where nothing has been
// instantiated yet.
func EmptyInstance() Instance { return Instance{} }

func (i Instance) Get(g types.Generic) (InferType, bool) {
	pos := i.Params.Position(g)
	if pos < 0 || pos >= len(i.Args) {
		return InferType{}, false
	}
	return i.Args[pos], true
}
