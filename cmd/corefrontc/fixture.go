package main

import (
	"corefront/internal/ast"
	"corefront/internal/source"
	"corefront/internal/types"
)

// buildFixture constructs a small hand-built ast.Program: a Point class
// with two i32 fields, an origin() constructor, and an add() function
// that reads two locals and returns their sum. It stands in for a real
// parser's output (spec §1/§6 "lexing, parsing... remain external
// collaborators"), just enough surface to exercise the HIR/MIR constructs
// this pipeline supports: classes, fields, calls, binary ops, and a
// class-literal initializer.
func buildFixture() *ast.Program {
	in := source.NewInterner()
	ident := func(name string) source.Ident { return source.NewIdent(in, name, source.Dummy) }

	prog := ast.NewProgram()

	pointID := prog.Classes.Reserve()
	prog.Classes.Insert(pointID, ast.Class{
		Ident: ident("Point"),
		Fields: []ast.Field{
			{Ident: ident("x"), Type: intType()},
			{Ident: ident("y"), Type: intType()},
		},
		Module: prog.RootModule,
	})

	pointPath := pathTo(ident("Point"))

	originID := prog.Functions.Reserve()
	prog.Functions.Insert(originID, ast.Function{
		Ident:      ident("origin"),
		ReturnType: &ast.Type{Kind: ast.TypePath, Path: pointPath},
		Body: ast.Block{
			Stmts: []ast.Stmt{
				{
					Kind: ast.StmtExpr,
					Expr: &ast.Expr{
						Kind: ast.ExprReturn,
						Operand: &ast.Expr{
							Kind:      ast.ExprInit,
							ClassPath: pointPath,
							Fields: []ast.FieldInit{
								{Ident: ident("x"), Value: intLiteral(0)},
								{Ident: ident("y"), Value: intLiteral(0)},
							},
						},
					},
				},
			},
		},
		Module: prog.RootModule,
	})

	addID := prog.Functions.Reserve()
	prog.Functions.Insert(addID, ast.Function{
		Ident: ident("add"),
		Arguments: []ast.FunctionArgument{
			{Ident: ident("a"), Type: intType()},
			{Ident: ident("b"), Type: intType()},
		},
		ReturnType: intTypePtr(),
		Body: ast.Block{
			Stmts: []ast.Stmt{
				{
					Kind: ast.StmtExpr,
					Expr: &ast.Expr{
						Kind: ast.ExprReturn,
						Operand: &ast.Expr{
							Kind:     ast.ExprBinary,
							BinaryOp: ast.BinaryAdd,
							Lhs:      pathExpr(ident("a")),
							Rhs:      pathExpr(ident("b")),
						},
					},
				},
			},
		},
		Module: prog.RootModule,
	})

	root, _ := prog.Modules.Get(prog.RootModule)
	root.Classes = append(root.Classes, pointID)
	root.Functions = append(root.Functions, originID, addID)
	prog.Modules.Insert(prog.RootModule, root)

	return prog
}

func intType() ast.Type {
	size := types.I32
	return ast.Type{Kind: ast.TypeInt, IntSigned: true, IntSize: &size}
}

func intTypePtr() *ast.Type {
	t := intType()
	return &t
}

func pathTo(name source.Ident) ast.Path {
	return ast.Path{Segments: []ast.PathSegment{{Kind: ast.SegmentItem, Ident: name}}}
}

func pathExpr(name source.Ident) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprPath, Path: pathTo(name)}
}

func intLiteral(v uint64) ast.Expr {
	return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralInt, Int: v}}
}
