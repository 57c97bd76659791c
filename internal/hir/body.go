package hir

import (
	"corefront/internal/arena"
	"corefront/internal/ast"
	"corefront/internal/source"
)

// Local is a function parameter or `let`-bound variable. Its declared/
// inferred type lives alongside it so the inference table can be seeded
// from it directly (spec §4.2 "Local: type equals the local's declared/
// inferred type").
type Local struct {
	ID    NodeID
	Ident source.Ident
	Type  Type
}

// ExprKind mirrors ast.ExprKind after name resolution: a surface Path now
// resolves to either ExprLocal or ExprFunction.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprLocal
	ExprFunction
	ExprCall
	ExprUnary
	ExprBinary
	ExprAssign
	ExprInit
	ExprField
	ExprBlock
	ExprIf
	ExprLoop
	ExprReturn
	ExprBreak
	ExprRef   // &e, desugared address-of used by MIR's Value::Address
	ExprDeref // *e
)

// FieldInit is one `field: expr` entry of an Init expression.
type FieldInit struct {
	Ident source.Ident
	Value ExprID
	Span  source.Span
}

// Expr is a HIR expression node. As in the AST, every consumer switches
// exhaustively over Kind; only the fields relevant to Kind are populated.
type Expr struct {
	ID   NodeID
	Kind ExprKind
	Span source.Span

	Literal ast.Literal // ExprLiteral

	Local LocalID // ExprLocal

	Function FunctionInstance // ExprFunction

	Callee    ExprID   // ExprCall
	Arguments []ExprID // ExprCall

	UnaryOp ast.UnaryOp // ExprUnary
	Operand ExprID      // ExprUnary, ExprRef, ExprDeref, ExprReturn(non-nil case)

	BinaryOp ast.BinaryOp // ExprBinary
	Lhs      ExprID       // ExprBinary, ExprAssign
	Rhs      ExprID       // ExprBinary, ExprAssign

	Class       ClassID    // ExprInit
	GenericArgs []Type     // ExprInit (elided args become Inferred, bound by inference)
	Fields      []FieldInit // ExprInit

	FieldBase  ExprID       // ExprField
	FieldIdent source.Ident // ExprField

	Block BlockID // ExprBlock

	Cond ExprID   // ExprIf
	Then BlockID  // ExprIf
	Else *BlockID // ExprIf, nil when there is no else branch

	Loop BlockID // ExprLoop

	HasValue bool // ExprReturn: whether Operand is meaningful
}

// StmtKind tags a Stmt.
type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
)

// Stmt is `Let{local, init?}` or `Expr{expr}` (spec §3 "Bodies").
type Stmt struct {
	ID    NodeID
	Kind  StmtKind
	Span  source.Span
	Local LocalID // StmtLet
	Init  ExprID  // StmtLet
	HasInit bool
	Expr  ExprID // StmtExpr
}

// Block is an ordered sequence of statements.
type Block struct {
	Stmts []Stmt
}

// Body is a function body: arenas of locals, expressions and blocks, plus
// the dense universe-id counter used to index the inference table.
type Body struct {
	Locals *arena.Arena[Local]
	Exprs  *arena.Arena[Expr]
	Blocks *arena.Arena[Block]
	Entry  BlockID
	nextID NodeID
}

// NewBody returns an empty body whose universe-id counter starts at 1 (0
// is reserved to mean "not yet registered").
func NewBody() Body {
	return Body{
		Locals: arena.New[Local](),
		Exprs:  arena.New[Expr](),
		Blocks: arena.New[Block](),
		nextID: 1,
	}
}

// NextID mints a fresh universe id.
func (b *Body) NextID() NodeID {
	id := b.nextID
	b.nextID++
	return id
}

// NewLocal creates and stores a local, returning its id.
func (b *Body) NewLocal(ident source.Ident, ty Type) LocalID {
	id := b.NextID()
	return b.Locals.Push(Local{ID: id, Ident: ident, Type: ty})
}

// PushExpr stamps e with a fresh universe id (if it doesn't have one) and
// stores it, returning its id.
func (b *Body) PushExpr(e Expr) ExprID {
	if e.ID == NoNodeID {
		e.ID = b.NextID()
	}
	return b.Exprs.Push(e)
}

// PushBlock stores a block, returning its id.
func (b *Body) PushBlock(block Block) BlockID {
	return b.Blocks.Push(block)
}
