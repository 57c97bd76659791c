// Package mirbuild lowers one solved thir.Body at a time into a mir.Body:
// a control-flow graph of basic blocks built by walking statements in
// order and categorizing each expression as a place, an operand or a
// value (spec §4.4, generalizing ritec-mir-build's Builder/FunctionBuilder
// from its five-expression-kind source grammar up to this language's full
// one — calls, class construction, field access, branches and loops all
// needed new design work the original's shown snippets never covered; see
// DESIGN.md).
package mirbuild

import (
	"corefront/internal/arena"
	"corefront/internal/diag"
	"corefront/internal/hir"
	"corefront/internal/mir"
	"corefront/internal/thir"
)

// FunctionBuilder walks one function's thir.Body, emitting mir statements
// and terminators into a fresh mir.Body. currentBlock is nil until build
// opens the entry block, matching the original's Option<BlockId>.
// breakBlocks is this port's own addition: the original's source grammar
// had no loop construct, so there was nothing to ground a break-target
// stack on.
type FunctionBuilder struct {
	program *hir.Program
	thir    *thir.Body
	mir     *mir.Body

	currentBlock *mir.BlockID
	breakBlocks  []mir.BlockID
}

// NewFunctionBuilder seeds a fresh mir.Body's locals 1:1 from thir's
// already-resolved locals (ritec-mir-build's `self.mir.locals =
// self.thir.locals.clone()`), reusing the same dense indices via
// arena.Cast so a hir.LocalID and its mir.LocalID always agree. program is
// kept around so a class literal can look up its target class's fields by
// name (thir does not retain the owning hir.Program).
func NewFunctionBuilder(program *hir.Program, body *thir.Body) *FunctionBuilder {
	fb := &FunctionBuilder{program: program, thir: body, mir: mir.NewBody()}
	for id, local := range body.HIR.Locals.All {
		mirID := arena.Cast[hir.Local, mir.Local](id)
		fb.mir.Locals.Insert(mirID, mir.Local{Ident: local.Ident, Type: body.LocalType(id)})
	}
	return fb
}

// Build lowers the whole function body to a mir.Body, entering the entry
// block and falling back to a bare `return void` if control runs off the
// end without one (spec §4.4 "a function with no explicit return falls
// through to an implicit return of Void").
func (fb *FunctionBuilder) Build() (*mir.Body, error) {
	entryID, err := fb.buildBlock(fb.thir.HIR.Entry)
	if err != nil {
		return nil, err
	}
	fb.mir.Entry = entryID

	if !fb.isTerminated() {
		fb.terminate(mir.Return(mir.VoidOperand))
	}
	return fb.mir, nil
}

func (fb *FunctionBuilder) buildBlock(id hir.BlockID) (mir.BlockID, error) {
	blockID := fb.pushBlock()
	block, _ := fb.thir.HIR.Blocks.Get(id)
	for _, stmt := range block.Stmts {
		if err := fb.buildStmt(stmt); err != nil {
			return mir.BlockID{}, err
		}
	}
	return blockID, nil
}

func (fb *FunctionBuilder) buildStmt(stmt hir.Stmt) error {
	switch stmt.Kind {
	case hir.StmtLet:
		return fb.buildLetStmt(stmt)
	default:
		return fb.buildExprStmt(stmt)
	}
}

func (fb *FunctionBuilder) buildLetStmt(stmt hir.Stmt) error {
	if !stmt.HasInit {
		return nil
	}
	value, err := fb.asValue(stmt.Init)
	if err != nil {
		return err
	}
	local := arena.Cast[hir.Local, mir.Local](stmt.Local)
	fb.pushAssign(mir.PlaceOf(local), value)
	return nil
}

// buildExprStmt drops the value of any non-void expression statement (and
// a call regardless of its type, since a call's side effect must run even
// when its result is void) so the statement's temporary is never silently
// kept alive (ritec-mir-build's build_expr_stmt).
func (fb *FunctionBuilder) buildExprStmt(stmt hir.Stmt) error {
	value, err := fb.asValue(stmt.Expr)
	if err != nil {
		return err
	}
	expr, _ := fb.thir.HIR.Exprs.Get(stmt.Expr)
	ty := fb.thir.TypeOf(stmt.Expr)
	if !ty.IsVoid() || expr.Kind == hir.ExprCall {
		fb.pushDrop(value)
	}
	return nil
}

func (fb *FunctionBuilder) block() mir.Block {
	b, _ := fb.mir.Blocks.Get(*fb.currentBlock)
	return b
}

func (fb *FunctionBuilder) setBlockValue(b mir.Block) {
	fb.mir.Blocks.Insert(*fb.currentBlock, b)
}

func (fb *FunctionBuilder) isTerminated() bool {
	return fb.currentBlock != nil && fb.block().Terminator != nil
}

// blockMut returns the currently open, not-yet-terminated block, pushing a
// fresh one first if the current block already has a terminator (the
// original's block_mut auto-reopen invariant).
func (fb *FunctionBuilder) blockMut() mir.BlockID {
	if fb.currentBlock == nil || fb.block().Terminator != nil {
		fb.pushBlock()
	}
	return *fb.currentBlock
}

func (fb *FunctionBuilder) reserveBlock() mir.BlockID {
	return fb.mir.Blocks.Push(mir.Block{})
}

func (fb *FunctionBuilder) pushBlock() mir.BlockID {
	id := fb.reserveBlock()
	fb.setBlock(id)
	return id
}

func (fb *FunctionBuilder) setBlock(id mir.BlockID) {
	fb.currentBlock = &id
}

func (fb *FunctionBuilder) terminate(term mir.Terminator) mir.BlockID {
	id := fb.blockMut()
	b := fb.block()
	b.Terminator = &term
	fb.setBlockValue(b)
	return id
}

func (fb *FunctionBuilder) pushStatement(stmt mir.Statement) {
	fb.blockMut()
	b := fb.block()
	b.Stmts = append(b.Stmts, stmt)
	fb.setBlockValue(b)
}

func (fb *FunctionBuilder) pushAssign(place mir.Place, value mir.Value) {
	fb.pushStatement(mir.Assign(place, value))
}

func (fb *FunctionBuilder) pushDrop(value mir.Value) {
	fb.pushStatement(mir.Drop(value))
}

func (fb *FunctionBuilder) pushTemp(ty mir.Type) mir.Place {
	local := fb.mir.Locals.Push(mir.Local{Type: ty})
	return mir.PlaceOf(local)
}

func notAPlace(expr hir.Expr) error {
	return diag.Error(diag.Mismatch, "expression does not name a place", expr.Span,
		diag.Hint{Message: "only a local, a dereference or a field access can be addressed", Span: expr.Span})
}
