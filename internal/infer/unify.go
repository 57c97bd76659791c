package infer

import (
	"corefront/internal/diag"
	"corefront/internal/source"
)

// Constraint is one unit of work the solver processes: either unify two
// InferTypes outright, or normalize a field projection against an expected
// type once its base resolves to a concrete class (spec §4.2 "Constraint").
type Constraint struct {
	Kind ConstraintKind

	UnifyA, UnifyB InferType

	NormalizeProj     TypeProjection
	NormalizeExpected InferType
}

type ConstraintKind uint8

const (
	ConstraintUnify ConstraintKind = iota
	ConstraintNormalize
)

func UnifyConstraint(a, b InferType) Constraint {
	return Constraint{Kind: ConstraintUnify, UnifyA: a, UnifyB: b}
}

func NormalizeConstraint(proj TypeProjection, expected InferType) Constraint {
	return Constraint{Kind: ConstraintNormalize, NormalizeProj: proj, NormalizeExpected: expected}
}

func constraintKey(c Constraint) string {
	switch c.Kind {
	case ConstraintUnify:
		return "u:" + key(c.UnifyA) + "=" + key(c.UnifyB)
	default:
		return "n:" + key(InferType{Kind: KindProj, Proj: c.NormalizeProj}) + "=" + key(c.NormalizeExpected)
	}
}

// Unifier applies one unify() call's worth of substitutions to a shared
// table, accumulating any follow-up Normalize constraints it discovers
// along the way (spec §4.2 "Unifier"). A fresh Unifier is created per
// top-level unify request; its Constraints slice is drained into the
// solver's queue by the caller.
type Unifier struct {
	table       *InferenceTable
	Constraints []Constraint
}

func newUnifier(table *InferenceTable) *Unifier {
	return &Unifier{table: table}
}

// Unify attempts to make a and b the same type, recording substitutions in
// the shared table and returning an error diagnostic only for a genuine,
// immediate mismatch (kind clash, arity clash, or a cyclic binding caught
// by the occurs check). Anything that cannot be decided yet (a projection
// whose base is still unresolved) is deferred via a Normalize constraint
// rather than treated as failure.
func (u *Unifier) Unify(a, b InferType) error {
	a = u.table.Normalize(a)
	b = u.table.Normalize(b)

	switch {
	case a.Kind == KindVar && b.Kind == KindVar:
		return u.unifyVarVar(a.Var, b.Var)
	case a.Kind == KindVar:
		return u.unifyVarOther(a.Var, b)
	case b.Kind == KindVar:
		return u.unifyVarOther(b.Var, a)
	case a.Kind == KindApply && b.Kind == KindApply:
		return u.unifyApplyApply(a, b)
	case a.Kind == KindProj && b.Kind == KindProj:
		return u.unifyProjProj(a, b)
	case a.Kind == KindProj:
		return u.unifyProjOther(a, b)
	case b.Kind == KindProj:
		return u.unifyProjOther(b, a)
	default:
		return diag.Error(diag.Mismatch, "type mismatch", a.Apply.Span,
			diag.Hint{Message: "cannot unify these types", Span: b.Apply.Span})
	}
}

func (u *Unifier) unifyVarVar(a, b TypeVariable) error {
	if a.Index == b.Index {
		return nil
	}
	if !a.CanUnifyWithVar(b) {
		return diag.Error(diag.Mismatch, "incompatible numeric-literal kinds", source.Dummy,
			diag.Hint{Message: "one side is constrained to an integer literal, the other to a float literal"})
	}
	// Binding to a kinded variable, when the other side is unconstrained,
	// preserves the more specific kind rather than losing it.
	if a.Kind == KindNone && b.Kind != KindNone {
		u.table.Substitute(VarType(a), VarType(b))
		return nil
	}
	u.table.Substitute(VarType(b), VarType(a))
	return nil
}

func (u *Unifier) unifyVarOther(v TypeVariable, other InferType) error {
	if other.Kind == KindApply {
		if !v.CanUnifyWithApply(other.Apply.Item) {
			return diag.Error(diag.Mismatch, "type does not match numeric-literal kind", other.Apply.Span,
				diag.Hint{Message: "literal kind is incompatible with this type", Span: other.Apply.Span})
		}
		if occursIn(v, other) {
			return diag.Error(diag.OccursCheck, "type would contain itself", other.Apply.Span,
				diag.Hint{Message: "a type variable cannot be bound to a type that refers back to it", Span: other.Apply.Span})
		}
	}
	u.table.Substitute(VarType(v), other)
	return nil
}

func (u *Unifier) unifyApplyApply(a, b InferType) error {
	if a.Apply.Item.Kind != b.Apply.Item.Kind || !sameItem(a.Apply.Item, b.Apply.Item) {
		return diag.Error(diag.Mismatch, "type mismatch", a.Apply.Span,
			diag.Hint{Message: "expected " + a.Apply.Item.String() + ", found " + b.Apply.Item.String(), Span: b.Apply.Span})
	}
	if len(a.Apply.Arguments) != len(b.Apply.Arguments) {
		return diag.Error(diag.ArgCountMismatch, "generic argument count mismatch", a.Apply.Span,
			diag.Hint{Message: "argument counts differ", Span: b.Apply.Span})
	}
	for i := range a.Apply.Arguments {
		if err := u.Unify(a.Apply.Arguments[i], b.Apply.Arguments[i]); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unifier) unifyProjProj(a, b InferType) error {
	fresh := VarType(u.table.NewVariable(KindNone))
	u.Constraints = append(u.Constraints, NormalizeConstraint(a.Proj, fresh))
	u.Constraints = append(u.Constraints, NormalizeConstraint(b.Proj, fresh))
	return nil
}

func (u *Unifier) unifyProjOther(proj, other InferType) error {
	u.Constraints = append(u.Constraints, NormalizeConstraint(proj.Proj, other))
	return nil
}

// sameItem compares the identity-bearing payload of two ItemIDs of the same
// Kind (width/signedness for Int, length for Array, handle for Class,
// token for Generic — all other kinds carry no distinguishing payload).
func sameItem(a, b ItemID) bool {
	switch a.Kind {
	case ItemInt:
		return a.IntSigned == b.IntSigned && a.IntSize == b.IntSize
	case ItemFloat:
		return a.FloatSize == b.FloatSize
	case ItemArray:
		return a.ArrayLen == b.ArrayLen
	case ItemClass:
		return a.Class == b.Class
	case ItemGeneric:
		return a.Generic.Equal(b.Generic)
	default:
		return true
	}
}

// occursIn reports whether v appears anywhere within other's structure,
// which would make binding v to other create an infinite type (spec's
// occurs-check requirement; the original unifier relies only on kind
// compatibility plus argument normalization, so this check is this port's
// explicit addition — see DESIGN.md).
func occursIn(v TypeVariable, other InferType) bool {
	switch other.Kind {
	case KindVar:
		return other.Var.Index == v.Index
	case KindApply:
		for _, arg := range other.Apply.Arguments {
			if occursIn(v, arg) {
				return true
			}
		}
		return false
	case KindProj:
		return occursIn(v, *other.Proj.Base)
	default:
		return false
	}
}
