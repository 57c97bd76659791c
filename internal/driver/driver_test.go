package driver

import (
	"context"
	"testing"

	"corefront/internal/ast"
	"corefront/internal/source"
	"corefront/internal/types"
)

func buildAddFixture() *ast.Program {
	in := source.NewInterner()
	ident := func(name string) source.Ident { return source.NewIdent(in, name, source.Dummy) }
	intSize := types.I32
	intType := func() ast.Type { return ast.Type{Kind: ast.TypeInt, IntSigned: true, IntSize: &intSize} }

	prog := ast.NewProgram()

	addID := prog.Functions.Reserve()
	prog.Functions.Insert(addID, ast.Function{
		Ident: ident("add"),
		Arguments: []ast.FunctionArgument{
			{Ident: ident("a"), Type: intType()},
			{Ident: ident("b"), Type: intType()},
		},
		ReturnType: func() *ast.Type { t := intType(); return &t }(),
		Body: ast.Block{
			Stmts: []ast.Stmt{
				{
					Kind: ast.StmtExpr,
					Expr: &ast.Expr{
						Kind: ast.ExprReturn,
						Operand: &ast.Expr{
							Kind:     ast.ExprBinary,
							BinaryOp: ast.BinaryAdd,
							Lhs:      &ast.Expr{Kind: ast.ExprPath, Path: ast.Path{Segments: []ast.PathSegment{{Kind: ast.SegmentItem, Ident: ident("a")}}}},
							Rhs:      &ast.Expr{Kind: ast.ExprPath, Path: ast.Path{Segments: []ast.PathSegment{{Kind: ast.SegmentItem, Ident: ident("b")}}}},
						},
					},
				},
			},
		},
		Module: prog.RootModule,
	})

	root, _ := prog.Modules.Get(prog.RootModule)
	root.Functions = append(root.Functions, addID)
	prog.Modules.Insert(prog.RootModule, root)

	return prog
}

func TestRunBuildsAddFunctionToMIR(t *testing.T) {
	astProgram := buildAddFixture()

	result, err := Run(context.Background(), astProgram, Options{Jobs: 2, MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed {
		for _, d := range result.Bag.Items() {
			t.Logf("diagnostic: %s", d)
		}
		t.Fatalf("expected a successful run")
	}
	if result.MIR == nil {
		t.Fatalf("expected a non-nil MIR program")
	}
	if result.MIR.Functions.Len() != 1 {
		t.Fatalf("functions = %d, want 1", result.MIR.Functions.Len())
	}
}

func TestRunReportsLoweringFailureWithoutPanicking(t *testing.T) {
	prog := ast.NewProgram()
	// A function whose body references an undeclared path should fail
	// lowering/resolution rather than panicking.
	in := source.NewInterner()
	ident := func(name string) source.Ident { return source.NewIdent(in, name, source.Dummy) }

	fnID := prog.Functions.Reserve()
	prog.Functions.Insert(fnID, ast.Function{
		Ident: ident("broken"),
		Body: ast.Block{
			Stmts: []ast.Stmt{
				{
					Kind: ast.StmtExpr,
					Expr: &ast.Expr{
						Kind: ast.ExprReturn,
						Operand: &ast.Expr{
							Kind: ast.ExprPath,
							Path: ast.Path{Segments: []ast.PathSegment{{Kind: ast.SegmentItem, Ident: ident("missing")}}},
						},
					},
				},
			},
		},
		Module: prog.RootModule,
	})
	root, _ := prog.Modules.Get(prog.RootModule)
	root.Functions = append(root.Functions, fnID)
	prog.Modules.Insert(prog.RootModule, root)

	result, err := Run(context.Background(), prog, Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("Run should report failure via Result, not an error: %v", err)
	}
	if !result.Failed {
		t.Fatalf("expected a failed result for an unresolved path reference")
	}
}
