package mirbuild

import (
	"corefront/internal/arena"
	"corefront/internal/ast"
	"corefront/internal/diag"
	"corefront/internal/hir"
	"corefront/internal/mir"
)

// asOperand categorizes an expression as something readable without a
// fresh assignment: a constant, a move out of an existing place, or (for
// everything else) a value computed into a synthesized temporary and then
// moved out of it (ritec-mir-build's as_operand always does the latter
// unconditionally; this port adds the constant and direct-place fast
// paths since the original's as_place already covered every expression
// kind its smaller grammar had — this language's fuller grammar does not).
func (fb *FunctionBuilder) asOperand(id hir.ExprID) (mir.Operand, error) {
	expr, _ := fb.thir.HIR.Exprs.Get(id)

	switch expr.Kind {
	case hir.ExprLiteral:
		c, err := fb.literalConstant(id)
		if err != nil {
			return mir.Operand{}, err
		}
		return mir.ConstOperand(c), nil

	case hir.ExprFunction:
		c, err := fb.functionConstant(id)
		if err != nil {
			return mir.Operand{}, err
		}
		return mir.ConstOperand(c), nil

	case hir.ExprLocal, hir.ExprDeref, hir.ExprField:
		place, err := fb.asPlace(id)
		if err != nil {
			return mir.Operand{}, err
		}
		return mir.Move(place), nil

	default:
		value, err := fb.asValue(id)
		if err != nil {
			return mir.Operand{}, err
		}
		ty := fb.thir.TypeOf(id)
		temp := fb.pushTemp(ty)
		fb.pushAssign(temp, value)
		return mir.Move(temp), nil
	}
}

func (fb *FunctionBuilder) literalConstant(id hir.ExprID) (mir.Constant, error) {
	expr, _ := fb.thir.HIR.Exprs.Get(id)
	ty := fb.thir.TypeOf(id)

	switch expr.Literal.Kind {
	case ast.LiteralInt:
		v := int64(expr.Literal.Int)
		if expr.Literal.Negative {
			v = -v
		}
		return mir.Constant{Kind: mir.ConstInteger, Integer: v, IntType: ty}, nil
	case ast.LiteralFloat:
		v := expr.Literal.Float
		if expr.Literal.Negative {
			v = -v
		}
		return mir.Constant{Kind: mir.ConstFloat, Float: v, FloatType: ty}, nil
	case ast.LiteralBool:
		return mir.Constant{Kind: mir.ConstBool, Bool: expr.Literal.Bool}, nil
	default:
		return mir.Constant{}, diag.Error(diag.TypeNotFound, "unknown literal kind", expr.Span)
	}
}

func (fb *FunctionBuilder) functionConstant(id hir.ExprID) (mir.Constant, error) {
	expr, _ := fb.thir.HIR.Exprs.Get(id)
	generics, err := fb.thir.FunctionGenerics(expr.ID, len(expr.Function.Generics))
	if err != nil {
		return mir.Constant{}, err
	}
	return mir.Constant{
		Kind:     mir.ConstFunction,
		Function: arena.Cast[hir.Function, mir.Function](expr.Function.Function),
		Generics: generics,
	}, nil
}
