package hir

import (
	"corefront/internal/ast"
	"corefront/internal/diag"
)

// bodyLowerer lowers one function body at a time: a lexical scope stack of
// locals (seeded with the already-registered arguments) plus the resolver
// bound to that function's generics and module.
type bodyLowerer struct {
	body     *Body
	resolver *Resolver
	scope    []LocalID
}

func newBodyLowerer(body *Body, resolver *Resolver) *bodyLowerer {
	var scope []LocalID
	body.Locals.Keys(func(id LocalID) bool {
		scope = append(scope, id)
		return true
	})
	return &bodyLowerer{body: body, resolver: resolver, scope: scope}
}

func (bl *bodyLowerer) findLocalByName(name string) (LocalID, bool) {
	for i := len(bl.scope) - 1; i >= 0; i-- {
		id := bl.scope[i]
		local, ok := bl.body.Locals.Get(id)
		if ok && local.Ident.Name() == name {
			return id, true
		}
	}
	return LocalID{}, false
}

// lowerBlock lowers a whole block, restoring the scope stack to what it was
// before the block once lowering finishes (spec §4.1 "lexical scoping: a
// block's locals are invisible outside it").
func (bl *bodyLowerer) lowerBlock(block ast.Block) (BlockID, error) {
	id := bl.body.PushBlock(Block{})
	scopeLen := len(bl.scope)

	var stmts []Stmt
	for _, s := range block.Stmts {
		stmt, err := bl.lowerStmt(s)
		if err != nil {
			return BlockID{}, err
		}
		stmts = append(stmts, stmt)
	}

	bl.scope = bl.scope[:scopeLen]
	bl.body.Blocks.Insert(id, Block{Stmts: stmts})
	return id, nil
}

func (bl *bodyLowerer) lowerStmt(stmt ast.Stmt) (Stmt, error) {
	switch stmt.Kind {
	case ast.StmtLet:
		return bl.lowerLetStmt(stmt)
	case ast.StmtExpr:
		return bl.lowerExprStmt(stmt)
	default:
		return Stmt{}, diag.Error(diag.InvalidPath, "unknown statement form", stmt.Span,
			diag.Hint{Message: "unrecognized statement kind", Span: stmt.Span})
	}
}

func (bl *bodyLowerer) lowerLetStmt(stmt ast.Stmt) (Stmt, error) {
	var ty Type
	if stmt.Type != nil {
		resolved, err := bl.resolver.ResolveType(*stmt.Type)
		if err != nil {
			return Stmt{}, err
		}
		ty = resolved
	} else {
		ty = Inferred(stmt.Ident.Span)
	}

	local := bl.body.NewLocal(stmt.Ident, ty)
	bl.scope = append(bl.scope, local)

	result := Stmt{ID: bl.body.NextID(), Kind: StmtLet, Span: stmt.Span, Local: local}
	if stmt.Init != nil {
		init, err := bl.lowerExpr(*stmt.Init)
		if err != nil {
			return Stmt{}, err
		}
		result.Init = init
		result.HasInit = true
	}
	return result, nil
}

func (bl *bodyLowerer) lowerExprStmt(stmt ast.Stmt) (Stmt, error) {
	exprID, err := bl.lowerExpr(*stmt.Expr)
	if err != nil {
		return Stmt{}, err
	}
	return Stmt{ID: bl.body.NextID(), Kind: StmtExpr, Span: stmt.Span, Expr: exprID}, nil
}

// lowerExpr lowers expr and stores it, returning its id. Paren is
// transparent: it contributes no HIR node of its own.
func (bl *bodyLowerer) lowerExpr(expr ast.Expr) (ExprID, error) {
	if expr.Kind == ast.ExprParen {
		return bl.lowerExpr(*expr.Operand)
	}
	built, err := bl.buildExpr(expr)
	if err != nil {
		return ExprID{}, err
	}
	built.Span = expr.Span
	return bl.body.PushExpr(built), nil
}

func (bl *bodyLowerer) buildExpr(expr ast.Expr) (Expr, error) {
	switch expr.Kind {
	case ast.ExprPath:
		return bl.lowerPathExpr(expr)
	case ast.ExprLiteral:
		return Expr{Kind: ExprLiteral, Literal: expr.Literal}, nil
	case ast.ExprInit:
		return bl.lowerInitExpr(expr)
	case ast.ExprField:
		return bl.lowerFieldExpr(expr)
	case ast.ExprCall:
		return bl.lowerCallExpr(expr)
	case ast.ExprUnary:
		return bl.lowerUnaryExpr(expr)
	case ast.ExprBinary:
		return bl.lowerBinaryExpr(expr)
	case ast.ExprAssign:
		return bl.lowerAssignExpr(expr)
	case ast.ExprReturn:
		return bl.lowerReturnExpr(expr)
	case ast.ExprBreak:
		return Expr{Kind: ExprBreak}, nil
	case ast.ExprBlock:
		return bl.lowerBlockExpr(expr)
	case ast.ExprIf:
		return bl.lowerIfExpr(expr)
	case ast.ExprLoop:
		return bl.lowerLoopExpr(expr)
	case ast.ExprWhile:
		return bl.lowerWhileExpr(expr)
	default:
		return Expr{}, diag.Error(diag.InvalidPath, "unknown expression form", expr.Span,
			diag.Hint{Message: "unrecognized expression kind", Span: expr.Span})
	}
}

func (bl *bodyLowerer) lowerPathExpr(expr ast.Expr) (Expr, error) {
	if ident, ok := expr.Path.Ident(); ok {
		if local, ok := bl.findLocalByName(ident.Name()); ok {
			return Expr{Kind: ExprLocal, Local: local}, nil
		}
	}

	if expr.Path.IsSelf() {
		if local, ok := bl.findLocalByName("self"); ok {
			return Expr{Kind: ExprLocal, Local: local}, nil
		}
	}

	instance, err := bl.resolver.ResolveFunction(expr.Path)
	if err != nil {
		return Expr{}, err
	}
	if instance != nil {
		return Expr{Kind: ExprFunction, Function: *instance}, nil
	}

	return Expr{}, diag.Error(diag.TypeNotFound, "name not defined", expr.Span,
		diag.Hint{Message: "variable not found", Span: expr.Span})
}

func (bl *bodyLowerer) lowerInitExpr(expr ast.Expr) (Expr, error) {
	ty, err := bl.resolver.resolvePathType(expr.ClassPath)
	if err != nil {
		return Expr{}, err
	}
	if ty.Kind != KindClass {
		return Expr{}, diag.Error(diag.TypeNotFound, "not a class", expr.ClassPath.Span,
			diag.Hint{Message: "expected a class type", Span: expr.ClassPath.Span})
	}

	class, ok := bl.resolver.Program.Classes.Get(ty.Class)
	if !ok {
		return Expr{}, diag.Error(diag.TypeNotFound, "not a class", expr.ClassPath.Span,
			diag.Hint{Message: "class is not registered", Span: expr.ClassPath.Span})
	}

	fields := make([]FieldInit, 0, len(expr.Fields))
	for _, f := range expr.Fields {
		if _, ok := class.FindField(f.Ident); !ok {
			return Expr{}, diag.Error(diag.InvalidFieldAccess, "field not found", f.Span,
				diag.Hint{Message: "class has no such field", Span: f.Span})
		}
		value, err := bl.lowerExpr(f.Value)
		if err != nil {
			return Expr{}, err
		}
		fields = append(fields, FieldInit{Ident: f.Ident, Value: value, Span: f.Span})
	}

	return Expr{Kind: ExprInit, Class: ty.Class, GenericArgs: ty.GenericArgs, Fields: fields}, nil
}

func (bl *bodyLowerer) lowerFieldExpr(expr ast.Expr) (Expr, error) {
	base, err := bl.lowerExpr(*expr.Operand)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprField, FieldBase: base, FieldIdent: expr.FieldIdent}, nil
}

func (bl *bodyLowerer) lowerCallExpr(expr ast.Expr) (Expr, error) {
	callee, err := bl.lowerExpr(*expr.Callee)
	if err != nil {
		return Expr{}, err
	}
	args := make([]ExprID, len(expr.Arguments))
	for i, a := range expr.Arguments {
		argID, err := bl.lowerExpr(a)
		if err != nil {
			return Expr{}, err
		}
		args[i] = argID
	}
	return Expr{Kind: ExprCall, Callee: callee, Arguments: args}, nil
}

func (bl *bodyLowerer) lowerUnaryExpr(expr ast.Expr) (Expr, error) {
	operand, err := bl.lowerExpr(*expr.Operand)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprUnary, UnaryOp: expr.UnaryOp, Operand: operand}, nil
}

func (bl *bodyLowerer) lowerBinaryExpr(expr ast.Expr) (Expr, error) {
	lhs, err := bl.lowerExpr(*expr.Lhs)
	if err != nil {
		return Expr{}, err
	}
	rhs, err := bl.lowerExpr(*expr.Rhs)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprBinary, BinaryOp: expr.BinaryOp, Lhs: lhs, Rhs: rhs}, nil
}

// lowerAssignExpr lowers `lhs = rhs`. Assignment is an expression (spec §9
// "assignment-as-expression"): the MIR builder is responsible for giving it
// a Void value, not this layer.
func (bl *bodyLowerer) lowerAssignExpr(expr ast.Expr) (Expr, error) {
	lhs, err := bl.lowerExpr(*expr.Lhs)
	if err != nil {
		return Expr{}, err
	}
	rhs, err := bl.lowerExpr(*expr.Rhs)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprAssign, Lhs: lhs, Rhs: rhs}, nil
}

func (bl *bodyLowerer) lowerReturnExpr(expr ast.Expr) (Expr, error) {
	if expr.Operand == nil {
		return Expr{Kind: ExprReturn, HasValue: false}, nil
	}
	value, err := bl.lowerExpr(*expr.Operand)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprReturn, Operand: value, HasValue: true}, nil
}

func (bl *bodyLowerer) lowerBlockExpr(expr ast.Expr) (Expr, error) {
	id, err := bl.lowerBlock(*expr.Block)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprBlock, Block: id}, nil
}

func (bl *bodyLowerer) lowerIfExpr(expr ast.Expr) (Expr, error) {
	cond, err := bl.lowerExpr(*expr.Cond)
	if err != nil {
		return Expr{}, err
	}
	then, err := bl.lowerBlock(*expr.Then)
	if err != nil {
		return Expr{}, err
	}
	result := Expr{Kind: ExprIf, Cond: cond, Then: then}
	if expr.Else != nil {
		elseID, err := bl.lowerBlock(*expr.Else)
		if err != nil {
			return Expr{}, err
		}
		result.Else = &elseID
	}
	return result, nil
}

func (bl *bodyLowerer) lowerLoopExpr(expr ast.Expr) (Expr, error) {
	id, err := bl.lowerBlock(*expr.Body)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprLoop, Loop: id}, nil
}

// lowerWhileExpr desugars `while cond { body }` into
// `loop { if !cond { break } body }` at the AST level, then lowers the
// resulting loop (spec §8 "desugaring equivalence: while ≡ loop+if+break").
func (bl *bodyLowerer) lowerWhileExpr(expr ast.Expr) (Expr, error) {
	notCond := ast.Expr{
		Kind:    ast.ExprUnary,
		Span:    expr.Cond.Span,
		UnaryOp: ast.UnaryNot,
		Operand: expr.Cond,
	}
	breakExpr := ast.Expr{Kind: ast.ExprBreak, Span: expr.Span}
	guard := ast.Expr{
		Kind: ast.ExprIf,
		Span: expr.Span,
		Cond: &notCond,
		Then: &ast.Block{
			Span:  expr.Span,
			Stmts: []ast.Stmt{{Kind: ast.StmtExpr, Span: expr.Span, Expr: &breakExpr}},
		},
	}

	stmts := make([]ast.Stmt, 0, len(expr.Body.Stmts)+1)
	stmts = append(stmts, ast.Stmt{Kind: ast.StmtExpr, Span: expr.Cond.Span, Expr: &guard})
	stmts = append(stmts, expr.Body.Stmts...)

	loopBlock := ast.Block{Stmts: stmts, Span: expr.Body.Span}
	return bl.lowerLoopExpr(ast.Expr{Kind: ast.ExprLoop, Span: expr.Span, Body: &loopBlock})
}
