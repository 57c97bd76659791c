package ast

import "corefront/internal/source"

// ExprKind tags the variant carried by an Expr.
type ExprKind uint8

const (
	ExprParen ExprKind = iota
	ExprPath
	ExprLiteral
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
	ExprWhile
)

// FieldInit is one `field: expr` entry in a class Init expression.
type FieldInit struct {
	Ident source.Ident
	Value Expr
	Span  source.Span
}

// Expr is the closed set of surface expression forms (spec §3 "Bodies").
// As with Type, every consumer is expected to switch over Kind
// exhaustively rather than grow an open hierarchy.
type Expr struct {
	Kind ExprKind
	Span source.Span

	// ExprParen, ExprUnary, ExprField, ExprReturn (value)
	Operand *Expr

	// ExprPath
	Path Path

	// ExprLiteral
	Literal Literal

	// ExprCall
	Callee    *Expr
	Arguments []Expr

	// ExprUnary
	UnaryOp UnaryOp

	// ExprBinary
	BinaryOp BinaryOp
	Lhs      *Expr
	Rhs      *Expr

	// ExprAssign reuses Lhs/Rhs above.

	// ExprInit
	ClassPath Path
	Fields    []FieldInit

	// ExprField reuses Operand above; field name below.
	FieldIdent source.Ident

	// ExprBlock
	Block *Block

	// ExprIf
	Cond *Expr
	Then *Block
	Else *Block // nil when there is no else branch

	// ExprLoop, ExprWhile
	Body *Block

	// ExprReturn reuses Operand above (nil means bare `return;`).

	// ExprBreak has no payload.

	// ExprWhile reuses Cond above; desugared away during HIR lowering.
}
