package infer

import (
	"corefront/internal/ast"
	"corefront/internal/diag"
	"corefront/internal/hir"
	"corefront/internal/source"
)

// SolveBody walks every local and statement of body, registering each
// node's InferType with the table and queueing the Unify/Normalize
// constraints that tie them together (spec §4.2, generalizing the
// ritec-infer "solve_hir" walk from its smaller Local/Ref/Deref/Assign/
// Return expression set up to this language's full expression grammar:
// calls, class construction, field access, control flow).
func (s *Solver) SolveBody(body *hir.Body, instance Instance) error {
	for _, local := range body.Locals.All {
		RegisterHIR(s.table, local.ID, local.Type, instance)
	}

	block, ok := body.Blocks.Get(body.Entry)
	if !ok {
		return diag.Error(diag.FunctionCompletion, "function body has no entry block", source.Dummy)
	}
	return s.solveBlockStmts(body, block, instance)
}

func (s *Solver) solveBlockStmts(body *hir.Body, block hir.Block, instance Instance) error {
	for _, stmt := range block.Stmts {
		if err := s.solveStmt(body, stmt, instance); err != nil {
			return err
		}
	}
	return nil
}

func (s *Solver) solveStmt(body *hir.Body, stmt hir.Stmt, instance Instance) error {
	switch stmt.Kind {
	case hir.StmtLet:
		return s.solveLetStmt(body, stmt, instance)
	default:
		_, err := s.solveExprByID(body, stmt.Expr, instance)
		return err
	}
}

func (s *Solver) solveLetStmt(body *hir.Body, stmt hir.Stmt, instance Instance) error {
	local, _ := body.Locals.Get(stmt.Local)
	ty, ok := s.table.GetType(local.ID)
	if !ok {
		ty = RegisterHIR(s.table, local.ID, local.Type, instance)
	}
	if !stmt.HasInit {
		return nil
	}
	initTy, err := s.solveExprByID(body, stmt.Init, instance)
	if err != nil {
		return err
	}
	return s.unify(ty, initTy)
}

func (s *Solver) unify(a, b InferType) error {
	solved, err := s.Solve(UnifyConstraint(a, b))
	if err != nil {
		return err
	}
	if !solved {
		s.Push(UnifyConstraint(a, b))
	}
	return nil
}

func (s *Solver) solveExprByID(body *hir.Body, id hir.ExprID, instance Instance) (InferType, error) {
	expr, _ := body.Exprs.Get(id)
	return s.solveExpr(body, expr, instance)
}

func (s *Solver) solveExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	switch expr.Kind {
	case hir.ExprLiteral:
		return s.solveLiteralExpr(expr)
	case hir.ExprLocal:
		return s.solveLocalExpr(body, expr)
	case hir.ExprFunction:
		return s.solveFunctionExpr(expr, instance)
	case hir.ExprCall:
		return s.solveCallExpr(body, expr, instance)
	case hir.ExprUnary:
		return s.solveUnaryExpr(body, expr, instance)
	case hir.ExprBinary:
		return s.solveBinaryExpr(body, expr, instance)
	case hir.ExprAssign:
		return s.solveAssignExpr(body, expr, instance)
	case hir.ExprInit:
		return s.solveInitExpr(body, expr, instance)
	case hir.ExprField:
		return s.solveFieldExpr(body, expr, instance)
	case hir.ExprBlock:
		return s.solveBlockExpr(body, expr, instance)
	case hir.ExprIf:
		return s.solveIfExpr(body, expr, instance)
	case hir.ExprLoop:
		return s.solveLoopExpr(body, expr, instance)
	case hir.ExprReturn:
		return s.solveReturnExpr(body, expr, instance)
	case hir.ExprBreak:
		ty := VoidType(expr.Span)
		s.table.RegisterType(expr.ID, ty)
		return ty, nil
	case hir.ExprRef:
		return s.solveRefExpr(body, expr, instance)
	case hir.ExprDeref:
		return s.solveDerefExpr(body, expr, instance)
	default:
		return InferType{}, diag.Error(diag.TypeNotFound, "cannot infer type of this expression", expr.Span)
	}
}

func (s *Solver) solveLiteralExpr(expr hir.Expr) (InferType, error) {
	var ty InferType
	switch expr.Literal.Kind {
	case ast.LiteralInt:
		ty = VarType(s.table.NewVariable(KindIntegerVar))
	case ast.LiteralFloat:
		ty = VarType(s.table.NewVariable(KindFloatVar))
	default:
		ty = ApplyType(ItemID{Kind: ItemBool}, nil, expr.Span)
	}
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

func (s *Solver) solveLocalExpr(body *hir.Body, expr hir.Expr) (InferType, error) {
	local, _ := body.Locals.Get(expr.Local)
	ty, ok := s.table.GetType(local.ID)
	if !ok {
		ty = RegisterHIR(s.table, local.ID, local.Type, EmptyInstance())
	}
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

// solveFunctionExpr resolves a bare function reference to a Function-apply
// type, instantiating the callee's own generics (any left elided by the
// resolver arrive here as Inferred, which InferHIR turns into fresh
// variables — spec §9 "implicit instantiation").
func (s *Solver) solveFunctionExpr(expr hir.Expr, instance Instance) (InferType, error) {
	function, ok := s.program.Functions.Get(expr.Function.Function)
	if !ok {
		return InferType{}, diag.Error(diag.TypeNotFound, "function not found", expr.Span)
	}

	args := make([]InferType, len(expr.Function.Generics))
	for i, g := range expr.Function.Generics {
		args[i] = InferHIR(s.table, g, instance)
		s.table.RegisterGeneric(expr.ID, i, args[i])
	}
	callee := Instance{Params: function.Generics, Args: args}

	params := make([]InferType, 0, len(function.Arguments)+1)
	for _, arg := range function.Arguments {
		params = append(params, InferHIR(s.table, arg.Type, callee))
	}
	params = append(params, InferHIR(s.table, function.ReturnType, callee))

	ty := ApplyType(ItemID{Kind: ItemFunction}, params, expr.Span)
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

func (s *Solver) solveCallExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	calleeTy, err := s.solveExprByID(body, expr.Callee, instance)
	if err != nil {
		return InferType{}, err
	}

	argTypes := make([]InferType, len(expr.Arguments))
	for i, a := range expr.Arguments {
		argTy, err := s.solveExprByID(body, a, instance)
		if err != nil {
			return InferType{}, err
		}
		argTypes[i] = argTy
	}

	result := VarType(s.table.NewVariable(KindNone))
	expected := make([]InferType, 0, len(argTypes)+1)
	expected = append(expected, argTypes...)
	expected = append(expected, result)
	expectedFn := ApplyType(ItemID{Kind: ItemFunction}, expected, expr.Span)

	if err := s.unify(calleeTy, expectedFn); err != nil {
		return InferType{}, err
	}

	s.table.RegisterType(expr.ID, result)
	return result, nil
}

func (s *Solver) solveUnaryExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	operand, err := s.solveExprByID(body, expr.Operand, instance)
	if err != nil {
		return InferType{}, err
	}

	var result InferType
	switch expr.UnaryOp {
	case ast.UnaryNot:
		result = ApplyType(ItemID{Kind: ItemBool}, nil, expr.Span)
		if err := s.unify(operand, result); err != nil {
			return InferType{}, err
		}
	default:
		result = operand
	}

	s.table.RegisterType(expr.ID, result)
	return result, nil
}

func (s *Solver) solveBinaryExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	lhs, err := s.solveExprByID(body, expr.Lhs, instance)
	if err != nil {
		return InferType{}, err
	}
	rhs, err := s.solveExprByID(body, expr.Rhs, instance)
	if err != nil {
		return InferType{}, err
	}
	if err := s.unify(lhs, rhs); err != nil {
		return InferType{}, err
	}

	result := lhs
	if expr.BinaryOp.IsComparison() {
		result = ApplyType(ItemID{Kind: ItemBool}, nil, expr.Span)
	}
	s.table.RegisterType(expr.ID, result)
	return result, nil
}

// solveAssignExpr unifies both sides but registers the assignment's own
// type as Void rather than the left-hand side's type: assignment-as-
// expression evaluates to Void (SPEC_FULL.md's resolution of that open
// question), with no value to give a containing expression.
func (s *Solver) solveAssignExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	lhs, err := s.solveExprByID(body, expr.Lhs, instance)
	if err != nil {
		return InferType{}, err
	}
	rhs, err := s.solveExprByID(body, expr.Rhs, instance)
	if err != nil {
		return InferType{}, err
	}
	if err := s.unify(lhs, rhs); err != nil {
		return InferType{}, err
	}

	ty := VoidType(expr.Span)
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

func (s *Solver) solveInitExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	class, ok := s.program.Classes.Get(expr.Class)
	if !ok {
		return InferType{}, diag.Error(diag.TypeNotFound, "class not found", expr.Span)
	}

	args := make([]InferType, len(expr.GenericArgs))
	for i, a := range expr.GenericArgs {
		args[i] = InferHIR(s.table, a, instance)
	}
	classInstance := Instance{Params: class.Generics, Args: args}

	for _, init := range expr.Fields {
		fieldID, ok := class.FindField(init.Ident)
		if !ok {
			return InferType{}, diag.Error(diag.InvalidFieldAccess, "no such field", init.Span)
		}
		field, _ := class.Fields.Get(fieldID)
		expected := InferHIR(s.table, field.Type, classInstance)

		valueTy, err := s.solveExprByID(body, init.Value, instance)
		if err != nil {
			return InferType{}, err
		}
		if err := s.unify(expected, valueTy); err != nil {
			return InferType{}, err
		}
	}

	ty := ApplyType(ItemID{Kind: ItemClass, Class: expr.Class, ClassIdent: class.Ident}, args, expr.Span)
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

func (s *Solver) solveFieldExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	base, err := s.solveExprByID(body, expr.FieldBase, instance)
	if err != nil {
		return InferType{}, err
	}

	result := VarType(s.table.NewVariable(KindNone))
	proj := TypeProjection{Base: &base, Field: expr.FieldIdent}
	s.Push(NormalizeConstraint(proj, result))

	s.table.RegisterType(expr.ID, result)
	return result, nil
}

func (s *Solver) solveBlockExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	block, _ := body.Blocks.Get(expr.Block)
	if err := s.solveBlockStmts(body, block, instance); err != nil {
		return InferType{}, err
	}
	// Block, used as an expression, is Void-typed (spec §9 "block/if are
	// statement-only and Void-typed when used as bare statements").
	ty := VoidType(expr.Span)
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

func (s *Solver) solveIfExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	cond, err := s.solveExprByID(body, expr.Cond, instance)
	if err != nil {
		return InferType{}, err
	}
	if err := s.unify(cond, ApplyType(ItemID{Kind: ItemBool}, nil, expr.Span)); err != nil {
		return InferType{}, err
	}

	then, _ := body.Blocks.Get(expr.Then)
	if err := s.solveBlockStmts(body, then, instance); err != nil {
		return InferType{}, err
	}
	if expr.Else != nil {
		elseBlock, _ := body.Blocks.Get(*expr.Else)
		if err := s.solveBlockStmts(body, elseBlock, instance); err != nil {
			return InferType{}, err
		}
	}

	ty := VoidType(expr.Span)
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

func (s *Solver) solveLoopExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	block, _ := body.Blocks.Get(expr.Loop)
	if err := s.solveBlockStmts(body, block, instance); err != nil {
		return InferType{}, err
	}
	ty := VoidType(expr.Span)
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

func (s *Solver) solveReturnExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	var valueTy InferType
	if expr.HasValue {
		ty, err := s.solveExprByID(body, expr.Operand, instance)
		if err != nil {
			return InferType{}, err
		}
		valueTy = ty
	} else {
		valueTy = VoidType(expr.Span)
	}

	if err := s.unify(valueTy, s.returnType); err != nil {
		return InferType{}, err
	}

	ty := VoidType(expr.Span)
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

func (s *Solver) solveRefExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	operand, err := s.solveExprByID(body, expr.Operand, instance)
	if err != nil {
		return InferType{}, err
	}
	ty := ApplyType(ItemID{Kind: ItemPointer}, []InferType{operand}, expr.Span)
	s.table.RegisterType(expr.ID, ty)
	return ty, nil
}

// solveDerefExpr mints a fresh pointee variable U and unifies the operand
// against *U, returning U (spec §4.2, matching ritec-infer's
// solve_deref_expr).
func (s *Solver) solveDerefExpr(body *hir.Body, expr hir.Expr, instance Instance) (InferType, error) {
	pointer, err := s.solveExprByID(body, expr.Operand, instance)
	if err != nil {
		return InferType{}, err
	}
	pointee := VarType(s.table.NewVariable(KindNone))
	s.table.RegisterType(expr.ID, pointee)

	if err := s.unify(pointer, ApplyType(ItemID{Kind: ItemPointer}, []InferType{pointee}, expr.Span)); err != nil {
		return InferType{}, err
	}
	return pointee, nil
}

// SetReturnType records the function's declared return type, against which
// every return expression is unified. A body that runs off its end without
// a return expression is not checked against it.
func (s *Solver) SetReturnType(ty InferType) { s.returnType = ty }
