package mirenc

import (
	"testing"

	"corefront/internal/mir"
	"corefront/internal/source"
	"corefront/internal/types"
)

func buildSampleProgram() *mir.Program {
	in := source.NewInterner()
	ident := func(name string) source.Ident { return source.NewIdent(in, name, source.Dummy) }

	prog := mir.NewProgram()

	classID := prog.Classes.Push(mir.Class{
		Ident: ident("Point"),
		Fields: []mir.Field{
			{Ident: ident("x"), Type: mir.Int(true, types.I32)},
			{Ident: ident("y"), Type: mir.Int(true, types.I32)},
		},
	})

	body := mir.NewBody()
	aLocal := body.Locals.Push(mir.Local{Ident: ident("a"), Type: mir.Int(true, types.I32)})
	bLocal := body.Locals.Push(mir.Local{Ident: ident("b"), Type: mir.Int(true, types.I32)})
	resultLocal := body.Locals.Push(mir.Local{Ident: ident("result"), Type: mir.Int(true, types.I32)})

	entry := body.Blocks.Push(mir.Block{
		Stmts: []mir.Statement{
			mir.Assign(mir.PlaceOf(resultLocal), mir.Use(mir.Copy(mir.PlaceOf(aLocal)))),
		},
		Terminator: terminatorPtr(mir.Return(mir.Copy(mir.PlaceOf(resultLocal)))),
	})
	body.Entry = entry

	funcID := prog.Functions.Push(mir.Function{
		Ident: ident("add"),
		Arguments: []mir.FunctionArgument{
			{Ident: ident("a"), Type: mir.Int(true, types.I32), Local: aLocal},
			{Ident: ident("b"), Type: mir.Int(true, types.I32), Local: bLocal},
		},
		ReturnType: mir.Int(true, types.I32),
		Body:       body,
	})

	_ = classID
	_ = funcID
	return prog
}

func terminatorPtr(t mir.Terminator) *mir.Terminator { return &t }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	prog := buildSampleProgram()

	data, err := EncodeBytes(prog)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}

	decoded, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	if decoded.Classes.Len() != prog.Classes.Len() {
		t.Fatalf("classes: got %d, want %d", decoded.Classes.Len(), prog.Classes.Len())
	}
	if decoded.Functions.Len() != prog.Functions.Len() {
		t.Fatalf("functions: got %d, want %d", decoded.Functions.Len(), prog.Functions.Len())
	}

	var gotFn mir.Function
	for _, fn := range decoded.Functions.All {
		gotFn = fn
	}
	if gotFn.Ident.Name() != "add" {
		t.Fatalf("function ident = %q, want add", gotFn.Ident.Name())
	}
	if len(gotFn.Arguments) != 2 {
		t.Fatalf("arguments = %d, want 2", len(gotFn.Arguments))
	}
	if gotFn.Body == nil || gotFn.Body.Blocks.Len() != 1 {
		t.Fatalf("expected one decoded block")
	}
}

func TestDecodeRejectsTruncatedPayload(t *testing.T) {
	prog := buildSampleProgram()
	data, err := EncodeBytes(prog)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}

	if _, err := DecodeBytes(data[:len(data)/2]); err == nil {
		t.Fatalf("expected error decoding truncated payload")
	}
}
