package mirbuild

import (
	"corefront/internal/arena"
	"corefront/internal/hir"
	"corefront/internal/mir"
)

// asPlace categorizes an expression that denotes an addressable location:
// a local, a dereferenced pointer, or a field access. Everything else is
// not a place (ritec-mir-build's as_place only ever had to cover
// Local/Deref/Assign, since its source grammar had no field access; this
// port adds Field and drops Assign — assignment is Void-typed here, so
// nothing ever needs to read it back as a place, see DESIGN.md).
func (fb *FunctionBuilder) asPlace(id hir.ExprID) (mir.Place, error) {
	expr, _ := fb.thir.HIR.Exprs.Get(id)

	switch expr.Kind {
	case hir.ExprLocal:
		return mir.PlaceOf(arena.Cast[hir.Local, mir.Local](expr.Local)), nil

	case hir.ExprDeref:
		place, err := fb.asPlace(expr.Operand)
		if err != nil {
			return mir.Place{}, err
		}
		place.Proj = append(place.Proj, mir.DerefProj())
		return place, nil

	case hir.ExprField:
		place, err := fb.asPlace(expr.FieldBase)
		if err != nil {
			return mir.Place{}, err
		}
		ref := fb.thir.FieldOf(id)
		place.Proj = append(place.Proj, mir.FieldProj(ref.Class, ref.Field))
		return place, nil

	default:
		return mir.Place{}, notAPlace(expr)
	}
}
