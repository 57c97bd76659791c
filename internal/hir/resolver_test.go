package hir

import (
	"testing"

	"corefront/internal/ast"
	"corefront/internal/source"
	"corefront/internal/types"
)

func TestResolveTypePrimitives(t *testing.T) {
	r := &Resolver{Program: NewProgram(), Generics: GenericScope{}}

	ty, err := r.ResolveType(ast.Type{Kind: ast.TypeVoid})
	if err != nil {
		t.Fatalf("ResolveType(void): %v", err)
	}
	if ty.Kind != KindVoid {
		t.Fatalf("kind = %v, want KindVoid", ty.Kind)
	}

	size := types.I64
	ty, err = r.ResolveType(ast.Type{Kind: ast.TypeInt, IntSigned: true, IntSize: &size})
	if err != nil {
		t.Fatalf("ResolveType(int): %v", err)
	}
	if ty.Kind != KindInt || ty.IntSize != types.I64 || !ty.IntSigned {
		t.Fatalf("unexpected int type: %+v", ty)
	}
}

func TestResolveTypePointerAndArray(t *testing.T) {
	r := &Resolver{Program: NewProgram(), Generics: GenericScope{}}
	elem := ast.Type{Kind: ast.TypeBool}

	ptr, err := r.ResolveType(ast.Type{Kind: ast.TypePointer, Elem: &elem})
	if err != nil {
		t.Fatalf("ResolveType(pointer): %v", err)
	}
	if ptr.Kind != KindPointer || ptr.Elem == nil || ptr.Elem.Kind != KindBool {
		t.Fatalf("unexpected pointer type: %+v", ptr)
	}

	arr, err := r.ResolveType(ast.Type{Kind: ast.TypeArray, Elem: &elem, ArrayLen: 4})
	if err != nil {
		t.Fatalf("ResolveType(array): %v", err)
	}
	if arr.Kind != KindArray || arr.ArrayLen != 4 {
		t.Fatalf("unexpected array type: %+v", arr)
	}
}

func TestResolvePathTypeUnknownClassFails(t *testing.T) {
	r := &Resolver{Program: NewProgram(), Generics: GenericScope{}}
	in := source.NewInterner()
	ident := source.NewIdent(in, "Missing", source.Dummy)
	path := ast.Path{Segments: []ast.PathSegment{{Kind: ast.SegmentItem, Ident: ident}}}

	if _, err := r.ResolveType(ast.Type{Kind: ast.TypePath, Path: path}); err == nil {
		t.Fatalf("expected an error resolving a path to an unregistered class")
	}
}
