package mirbuild

import (
	"corefront/internal/arena"
	"corefront/internal/diag"
	"corefront/internal/hir"
	"corefront/internal/mir"
)

// asValue categorizes an expression as a value: the right-hand side of an
// assignment. Literal/Function/Local/Deref/Field all reduce to a plain
// Use of an operand (ritec-mir-build's as_value has an equivalent
// catch-all for Local/Deref/Assign); Ref wraps a place's address; Return
// and Break terminate the current block and themselves evaluate to Void;
// Call, Unary, Binary, Init, Block, If and Loop are this port's own
// additions, since the original's source grammar never reached any of
// them (see DESIGN.md).
func (fb *FunctionBuilder) asValue(id hir.ExprID) (mir.Value, error) {
	expr, _ := fb.thir.HIR.Exprs.Get(id)

	switch expr.Kind {
	case hir.ExprLiteral, hir.ExprFunction, hir.ExprLocal, hir.ExprDeref, hir.ExprField:
		operand, err := fb.asOperand(id)
		if err != nil {
			return mir.Value{}, err
		}
		return mir.Use(operand), nil

	case hir.ExprRef:
		place, err := fb.asPlace(expr.Operand)
		if err != nil {
			return mir.Value{}, err
		}
		return mir.Address(place), nil

	case hir.ExprUnary:
		operand, err := fb.asOperand(expr.Operand)
		if err != nil {
			return mir.Value{}, err
		}
		return mir.UnaryOpValue(expr.UnaryOp, operand), nil

	case hir.ExprBinary:
		lhs, err := fb.asOperand(expr.Lhs)
		if err != nil {
			return mir.Value{}, err
		}
		rhs, err := fb.asOperand(expr.Rhs)
		if err != nil {
			return mir.Value{}, err
		}
		return mir.BinaryOpValue(expr.BinaryOp, lhs, rhs), nil

	case hir.ExprAssign:
		return fb.asValueAssign(expr)

	case hir.ExprCall:
		return fb.asValueCall(expr)

	case hir.ExprInit:
		return fb.asValueInit(id, expr)

	case hir.ExprBlock:
		return fb.asValueBlock(expr)

	case hir.ExprIf:
		return fb.asValueIf(expr)

	case hir.ExprLoop:
		return fb.asValueLoop(expr)

	case hir.ExprReturn:
		return fb.asValueReturn(expr)

	case hir.ExprBreak:
		return fb.asValueBreak(expr)

	default:
		return mir.Value{}, diag.Error(diag.TypeNotFound, "cannot build a value for this expression", expr.Span)
	}
}

// asValueAssign evaluates rhs, writes it into lhs's place, and itself
// evaluates to Void (SPEC_FULL.md's "assignment-as-expression yields
// Void" — the original's equivalent as_place case instead produced a
// temporary holding lhs's *old* value, since there assignment carried
// lhs's type; that path has no counterpart here because a Void value is
// never read back as a place).
func (fb *FunctionBuilder) asValueAssign(expr hir.Expr) (mir.Value, error) {
	rhs, err := fb.asOperand(expr.Rhs)
	if err != nil {
		return mir.Value{}, err
	}
	place, err := fb.asPlace(expr.Lhs)
	if err != nil {
		return mir.Value{}, err
	}
	fb.pushAssign(place, mir.Use(rhs))
	return mir.VoidValue, nil
}

func (fb *FunctionBuilder) asValueCall(expr hir.Expr) (mir.Value, error) {
	callee, err := fb.asOperand(expr.Callee)
	if err != nil {
		return mir.Value{}, err
	}
	args := make([]mir.Operand, len(expr.Arguments))
	for i, a := range expr.Arguments {
		operand, err := fb.asOperand(a)
		if err != nil {
			return mir.Value{}, err
		}
		args[i] = operand
	}
	return mir.CallValue(callee, args), nil
}

// asValueInit builds a class literal as a single aggregate value, one
// operand per initialized field tagged by field id so the order the
// source wrote them in does not need to match declaration order. The
// class's own resolved type (already computed by inference) carries its
// concrete generic arguments, so there is no re-resolution to do here.
func (fb *FunctionBuilder) asValueInit(id hir.ExprID, expr hir.Expr) (mir.Value, error) {
	class, _ := fb.program.Classes.Get(expr.Class)

	fields := make([]mir.AggregateField, 0, len(expr.Fields))
	for _, init := range expr.Fields {
		operand, err := fb.asOperand(init.Value)
		if err != nil {
			return mir.Value{}, err
		}
		hirField, ok := class.FindField(init.Ident)
		if !ok {
			return mir.Value{}, diag.Error(diag.InvalidFieldAccess, "no such field", init.Span)
		}
		fields = append(fields, mir.AggregateField{
			Field: arena.Cast[hir.Field, mir.Field](hirField),
			Value: operand,
		})
	}

	ty := fb.thir.TypeOf(id)
	return mir.AggregateValue(ty.Class, ty.GenericArgs, fields), nil
}

// asValueBlock runs a nested block's statements into the current basic
// block with no branching: a brace-delimited block used as a bare
// expression is just sequencing, not control flow, so (unlike If and
// Loop) it needs no new block of its own.
func (fb *FunctionBuilder) asValueBlock(expr hir.Expr) (mir.Value, error) {
	block, _ := fb.thir.HIR.Blocks.Get(expr.Block)
	for _, stmt := range block.Stmts {
		if err := fb.buildStmt(stmt); err != nil {
			return mir.Value{}, err
		}
	}
	return mir.VoidValue, nil
}

// asValueIf lowers to a two-arm Switch over a bool operand (spec §4.4).
// then/else each get their own block so a break or return partway through
// one arm doesn't fall through into the other; both arms rejoin at a
// shared continuation block.
func (fb *FunctionBuilder) asValueIf(expr hir.Expr) (mir.Value, error) {
	cond, err := fb.asOperand(expr.Cond)
	if err != nil {
		return mir.Value{}, err
	}

	thenID := fb.reserveBlock()
	contID := fb.reserveBlock()
	elseID := contID
	if expr.Else != nil {
		elseID = fb.reserveBlock()
	}

	fb.terminate(mir.Switch(cond, mir.SwitchTargets{
		Targets: []mir.SwitchTarget{{Value: 1, Target: thenID}},
		Default: elseID,
	}))

	fb.setBlock(thenID)
	thenBlock, _ := fb.thir.HIR.Blocks.Get(expr.Then)
	for _, stmt := range thenBlock.Stmts {
		if err := fb.buildStmt(stmt); err != nil {
			return mir.Value{}, err
		}
	}
	if !fb.isTerminated() {
		fb.terminate(mir.GotoTerm(contID))
	}

	if expr.Else != nil {
		fb.setBlock(elseID)
		elseBlock, _ := fb.thir.HIR.Blocks.Get(*expr.Else)
		for _, stmt := range elseBlock.Stmts {
			if err := fb.buildStmt(stmt); err != nil {
				return mir.Value{}, err
			}
		}
		if !fb.isTerminated() {
			fb.terminate(mir.GotoTerm(contID))
		}
	}

	fb.setBlock(contID)
	return mir.VoidValue, nil
}

// asValueLoop builds an unconditional back edge from the loop body's end
// to its header, pushing the shared continuation block onto breakBlocks
// for the duration so a nested Break knows where to jump (the original's
// source grammar had no loop construct to ground this on; see DESIGN.md).
func (fb *FunctionBuilder) asValueLoop(expr hir.Expr) (mir.Value, error) {
	headerID := fb.reserveBlock()
	contID := fb.reserveBlock()

	fb.terminate(mir.GotoTerm(headerID))
	fb.setBlock(headerID)

	fb.breakBlocks = append(fb.breakBlocks, contID)
	block, _ := fb.thir.HIR.Blocks.Get(expr.Loop)
	for _, stmt := range block.Stmts {
		if err := fb.buildStmt(stmt); err != nil {
			fb.breakBlocks = fb.breakBlocks[:len(fb.breakBlocks)-1]
			return mir.Value{}, err
		}
	}
	fb.breakBlocks = fb.breakBlocks[:len(fb.breakBlocks)-1]

	if !fb.isTerminated() {
		fb.terminate(mir.GotoTerm(headerID))
	}

	fb.setBlock(contID)
	return mir.VoidValue, nil
}

func (fb *FunctionBuilder) asValueReturn(expr hir.Expr) (mir.Value, error) {
	operand := mir.VoidOperand
	if expr.HasValue {
		o, err := fb.asOperand(expr.Operand)
		if err != nil {
			return mir.Value{}, err
		}
		operand = o
	}
	fb.terminate(mir.Return(operand))
	return mir.VoidValue, nil
}

func (fb *FunctionBuilder) asValueBreak(expr hir.Expr) (mir.Value, error) {
	if len(fb.breakBlocks) == 0 {
		return mir.Value{}, diag.Error(diag.Mismatch, "break outside of a loop", expr.Span)
	}
	target := fb.breakBlocks[len(fb.breakBlocks)-1]
	fb.terminate(mir.GotoTerm(target))
	return mir.VoidValue, nil
}
