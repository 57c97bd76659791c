package mirenc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"corefront/internal/arena"
	"corefront/internal/ast"
	"corefront/internal/mir"
	"corefront/internal/source"
	"corefront/internal/types"
)

// Encode writes p to w as a msgpack Program payload (spec §6 wire format).
func Encode(w io.Writer, p *mir.Program) error {
	payload := ToProgram(p)
	return msgpack.NewEncoder(w).Encode(payload)
}

// Decode reads a Program payload from r and rebuilds a mir.Program.
func Decode(r io.Reader) (*mir.Program, error) {
	var payload Program
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Schema != SchemaVersion {
		return nil, fmt.Errorf("mirenc: unsupported schema version %d (want %d)", payload.Schema, SchemaVersion)
	}
	return FromProgram(payload)
}

// EncodeBytes/DecodeBytes are convenience wrappers for callers that hold a
// whole payload in memory rather than streaming it (e.g. the CLI's build
// subcommand, which encodes the finished program to report its size).
func EncodeBytes(p *mir.Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeBytes(data []byte) (*mir.Program, error) {
	return Decode(bytes.NewReader(data))
}

// encoder carries the state needed to turn arena handles and Generic
// tokens into wire-stable values: a dense class/function index and,
// while walking one item's types, that item's declared Generics list so
// a Generic leaf can be written as its declaration position rather than
// its process-local identity.
type encoder struct {
	classIndex    map[mir.ClassID]uint32
	functionIndex map[mir.FunctionID]uint32
	generics      types.Generics
}

// ToProgram flattens p into a Program payload.
func ToProgram(p *mir.Program) Program {
	enc := &encoder{
		classIndex:    make(map[mir.ClassID]uint32),
		functionIndex: make(map[mir.FunctionID]uint32),
	}
	for id := range p.Classes.All {
		enc.classIndex[id] = uint32(len(enc.classIndex))
	}
	for id := range p.Functions.All {
		enc.functionIndex[id] = uint32(len(enc.functionIndex))
	}

	out := Program{Schema: SchemaVersion}
	// Stable order: index assignment above walked All in arena order, so
	// a second walk in the same order reproduces it.
	classes := make([]Class, len(enc.classIndex))
	for id, class := range p.Classes.All {
		classes[enc.classIndex[id]] = enc.toClass(class)
	}
	out.Classes = classes

	functions := make([]Function, len(enc.functionIndex))
	for id, function := range p.Functions.All {
		functions[enc.functionIndex[id]] = enc.toFunction(function)
	}
	out.Functions = functions

	return out
}

func (enc *encoder) toClass(class mir.Class) Class {
	enc.generics = class.Generics
	fields := make([]Field, len(class.Fields))
	for i, f := range class.Fields {
		fields[i] = enc.toField(f)
	}
	return Class{Ident: class.Ident.Name(), Generics: genericNames(class.Generics), Fields: fields}
}

func (enc *encoder) toField(f mir.Field) Field {
	init := int32(-1)
	if f.Init != nil {
		init = int32(enc.functionIndex[*f.Init])
	}
	return Field{Ident: f.Ident.Name(), Type: enc.toType(f.Type), Init: init}
}

func (enc *encoder) toFunction(fn mir.Function) Function {
	enc.generics = fn.Generics
	args := make([]FunctionArgument, len(fn.Arguments))
	for i, a := range fn.Arguments {
		args[i] = FunctionArgument{Ident: a.Ident.Name(), Type: enc.toType(a.Type), Local: a.Local.RawIndex()}
	}
	return Function{
		Ident:      fn.Ident.Name(),
		Generics:   genericNames(fn.Generics),
		Arguments:  args,
		ReturnType: enc.toType(fn.ReturnType),
		Body:       enc.toBody(fn.Body),
	}
}

func genericNames(gs types.Generics) []string {
	names := make([]string, len(gs))
	for i, g := range gs {
		names[i] = g.Name
	}
	return names
}

func (enc *encoder) toType(t mir.Type) Type {
	out := Type{Kind: TypeKind(t.Kind)}
	switch t.Kind {
	case mir.KindInt:
		out.IntSigned = t.IntSigned
		out.IntSize = uint8(t.IntSize)
	case mir.KindFloat:
		out.FloatSize = uint8(t.FloatSize)
	case mir.KindPointer, mir.KindArray, mir.KindSlice:
		elem := enc.toType(*t.Elem)
		out.Elem = &elem
		out.ArrayLen = t.ArrayLen
	case mir.KindFunction:
		out.Params = enc.toTypes(t.Params)
		result := enc.toType(*t.Result)
		out.Result = &result
	case mir.KindTuple:
		out.Fields = enc.toTypes(t.Fields)
	case mir.KindClass:
		out.Class = enc.classIndex[t.Class]
		out.ClassIdent = t.ClassIdent.Name()
		out.GenericArgs = enc.toTypes(t.GenericArgs)
	case mir.KindGeneric:
		out.GenericIndex = enc.generics.Position(t.Generic)
		out.GenericName = t.Generic.Name
	}
	return out
}

func (enc *encoder) toTypes(ts []mir.Type) []Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = enc.toType(t)
	}
	return out
}

func (enc *encoder) toBody(body *mir.Body) Body {
	locals := make([]Local, 0, body.Locals.Len())
	for local := range body.Locals.Values {
		locals = append(locals, Local{Ident: local.Ident.Name(), Type: enc.toType(local.Type)})
	}
	blocks := make([]Block, 0, body.Blocks.Len())
	for block := range body.Blocks.Values {
		blocks = append(blocks, enc.toBlock(block))
	}
	return Body{Locals: locals, Blocks: blocks, Entry: body.Entry.RawIndex()}
}

func (enc *encoder) toBlock(block mir.Block) Block {
	stmts := make([]Statement, len(block.Stmts))
	for i, s := range block.Stmts {
		stmts[i] = enc.toStatement(s)
	}
	out := Block{Stmts: stmts}
	if block.Terminator != nil {
		term := enc.toTerminator(*block.Terminator)
		out.Terminator = &term
	}
	return out
}

func (enc *encoder) toStatement(s mir.Statement) Statement {
	return Statement{Kind: StatementKind(s.Kind), Place: enc.toPlace(s.Place), Value: enc.toValue(s.Value)}
}

func (enc *encoder) toPlace(p mir.Place) Place {
	proj := make([]Projection, len(p.Proj))
	for i, pr := range p.Proj {
		proj[i] = Projection{Kind: ProjectionKind(pr.Kind), Class: enc.classIndex[pr.Class], Field: pr.Field.RawIndex()}
	}
	return Place{Local: p.Local.RawIndex(), Proj: proj}
}

func (enc *encoder) toConstant(c mir.Constant) Constant {
	out := Constant{Kind: ConstantKind(c.Kind), Integer: c.Integer, Float: c.Float, Bool: c.Bool}
	switch c.Kind {
	case mir.ConstInteger:
		out.IntType = enc.toType(c.IntType)
	case mir.ConstFloat:
		out.FloatType = enc.toType(c.FloatType)
	case mir.ConstFunction:
		out.Function = enc.functionIndex[c.Function]
		out.Generics = enc.toTypes(c.Generics)
	}
	return out
}

func (enc *encoder) toOperand(o mir.Operand) Operand {
	out := Operand{Kind: OperandKind(o.Kind)}
	switch o.Kind {
	case mir.OperandCopy, mir.OperandMove:
		out.Place = enc.toPlace(o.Place)
	case mir.OperandConstant:
		out.Constant = enc.toConstant(o.Constant)
	}
	return out
}

func (enc *encoder) toValue(v mir.Value) Value {
	out := Value{Kind: ValueKind(v.Kind)}
	switch v.Kind {
	case mir.ValueUse:
		out.Operand = enc.toOperand(v.Operand)
	case mir.ValueAddress:
		out.Place = enc.toPlace(v.Place)
	case mir.ValueUnaryOp:
		out.UnaryOp = uint8(v.UnaryOp)
		out.UnaryValue = enc.toOperand(v.UnaryValue)
	case mir.ValueBinaryOp:
		out.BinaryOp = uint8(v.BinaryOp)
		out.Lhs = enc.toOperand(v.Lhs)
		out.Rhs = enc.toOperand(v.Rhs)
	case mir.ValueCall:
		out.Callee = enc.toOperand(v.Callee)
		out.Arguments = enc.toOperands(v.Arguments)
	case mir.ValueAggregate:
		out.Class = enc.classIndex[v.Class]
		out.ClassGenerics = enc.toTypes(v.ClassGenerics)
		fields := make([]AggregateField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = AggregateField{Field: f.Field.RawIndex(), Value: enc.toOperand(f.Value)}
		}
		out.Fields = fields
	}
	return out
}

func (enc *encoder) toOperands(os []mir.Operand) []Operand {
	if len(os) == 0 {
		return nil
	}
	out := make([]Operand, len(os))
	for i, o := range os {
		out[i] = enc.toOperand(o)
	}
	return out
}

func (enc *encoder) toTerminator(t mir.Terminator) Terminator {
	out := Terminator{Kind: TerminatorKind(t.Kind)}
	switch t.Kind {
	case mir.TermReturn:
		out.Operand = enc.toOperand(t.Operand)
	case mir.TermGoto:
		out.Goto = t.Goto.RawIndex()
	case mir.TermSwitch:
		out.SwitchOperand = enc.toOperand(t.SwitchOperand)
		out.SwitchTargets = enc.toSwitchTargets(t.SwitchTargets)
	}
	return out
}

func (enc *encoder) toSwitchTargets(st mir.SwitchTargets) SwitchTargets {
	targets := make([]SwitchTarget, len(st.Targets))
	for i, t := range st.Targets {
		targets[i] = SwitchTarget{Value: t.Value, Target: t.Target.RawIndex()}
	}
	return SwitchTargets{Targets: targets, Default: st.Default.RawIndex()}
}

// decoder is the inverse of encoder: it mints fresh Generic tokens per
// owning item (position-matched against the wire's Generics name list, so
// a GenericIndex on the wire resolves to the same token within one item)
// and resolves class/function wire indices back to freshly-minted arena
// ids, since a decoded Program's handles need not numerically match the
// ones the encoding process originally held.
type decoder struct {
	classIDs    []mir.ClassID
	functionIDs []mir.FunctionID
	generics    []types.Generic
	interner    *source.Interner
}

// FromProgram rebuilds a mir.Program from its wire payload. Decoded idents
// carry a dummy span: a deserialized Program is never used for
// diagnostics, only as backend input, so span fidelity is not part of the
// wire contract (spec §6).
func FromProgram(p Program) (*mir.Program, error) {
	out := mir.NewProgram()
	dec := &decoder{
		classIDs:    make([]mir.ClassID, len(p.Classes)),
		functionIDs: make([]mir.FunctionID, len(p.Functions)),
		interner:    source.NewInterner(),
	}
	for i := range p.Classes {
		dec.classIDs[i] = arena.FromRawIndex[mir.Class](uint32(i))
	}
	for i := range p.Functions {
		dec.functionIDs[i] = arena.FromRawIndex[mir.Function](uint32(i))
	}

	for i, class := range p.Classes {
		mirClass, err := dec.fromClass(class)
		if err != nil {
			return nil, err
		}
		out.Classes.Insert(dec.classIDs[i], mirClass)
	}
	for i, fn := range p.Functions {
		mirFn, err := dec.fromFunction(fn)
		if err != nil {
			return nil, err
		}
		out.Functions.Insert(dec.functionIDs[i], mirFn)
	}
	return out, nil
}

func (dec *decoder) ident(name string) source.Ident {
	return source.NewIdent(dec.interner, name, source.Dummy)
}

func mintGenerics(names []string) []types.Generic {
	out := make([]types.Generic, len(names))
	for i, name := range names {
		out[i] = types.NewGeneric(name)
	}
	return out
}

func (dec *decoder) fromClass(c Class) (mir.Class, error) {
	dec.generics = mintGenerics(c.Generics)
	fields := make([]mir.Field, len(c.Fields))
	for i, f := range c.Fields {
		field, err := dec.fromField(f)
		if err != nil {
			return mir.Class{}, err
		}
		fields[i] = field
	}
	return mir.Class{Ident: dec.ident(c.Ident), Generics: dec.generics, Fields: fields}, nil
}

func (dec *decoder) fromField(f Field) (mir.Field, error) {
	ty, err := dec.fromType(f.Type)
	if err != nil {
		return mir.Field{}, err
	}
	out := mir.Field{Ident: dec.ident(f.Ident), Type: ty}
	if f.Init >= 0 {
		id := dec.functionIDs[f.Init]
		out.Init = &id
	}
	return out, nil
}

func (dec *decoder) fromFunction(fn Function) (mir.Function, error) {
	dec.generics = mintGenerics(fn.Generics)
	args := make([]mir.FunctionArgument, len(fn.Arguments))
	for i, a := range fn.Arguments {
		ty, err := dec.fromType(a.Type)
		if err != nil {
			return mir.Function{}, err
		}
		args[i] = mir.FunctionArgument{
			Ident: dec.ident(a.Ident),
			Type:  ty,
			Local: arena.FromRawIndex[mir.Local](a.Local),
		}
	}
	returnType, err := dec.fromType(fn.ReturnType)
	if err != nil {
		return mir.Function{}, err
	}
	body, err := dec.fromBody(fn.Body)
	if err != nil {
		return mir.Function{}, err
	}
	return mir.Function{
		Ident:      dec.ident(fn.Ident),
		Generics:   dec.generics,
		Arguments:  args,
		ReturnType: returnType,
		Body:       body,
	}, nil
}

func (dec *decoder) fromType(t Type) (mir.Type, error) {
	out := mir.Type{Kind: mir.TypeKind(t.Kind)}
	switch t.Kind {
	case KindInt:
		out.IntSigned = t.IntSigned
		out.IntSize = types.IntSize(t.IntSize)
	case KindFloat:
		out.FloatSize = types.FloatSize(t.FloatSize)
	case KindPointer, KindArray, KindSlice:
		elem, err := dec.fromType(*t.Elem)
		if err != nil {
			return mir.Type{}, err
		}
		out.Elem = &elem
		out.ArrayLen = t.ArrayLen
	case KindFunction:
		params, err := dec.fromTypes(t.Params)
		if err != nil {
			return mir.Type{}, err
		}
		result, err := dec.fromType(*t.Result)
		if err != nil {
			return mir.Type{}, err
		}
		out.Params = params
		out.Result = &result
	case KindTuple:
		fields, err := dec.fromTypes(t.Fields)
		if err != nil {
			return mir.Type{}, err
		}
		out.Fields = fields
	case KindClass:
		if int(t.Class) >= len(dec.classIDs) {
			return mir.Type{}, fmt.Errorf("mirenc: class index %d out of range", t.Class)
		}
		args, err := dec.fromTypes(t.GenericArgs)
		if err != nil {
			return mir.Type{}, err
		}
		out.Class = dec.classIDs[t.Class]
		out.ClassIdent = dec.ident(t.ClassIdent)
		out.GenericArgs = args
	case KindGeneric:
		if t.GenericIndex < 0 || t.GenericIndex >= len(dec.generics) {
			return mir.Type{}, fmt.Errorf("mirenc: generic index %d out of range for %q", t.GenericIndex, t.GenericName)
		}
		out.Generic = dec.generics[t.GenericIndex]
	}
	return out, nil
}

func (dec *decoder) fromTypes(ts []Type) ([]mir.Type, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	out := make([]mir.Type, len(ts))
	for i, t := range ts {
		ty, err := dec.fromType(t)
		if err != nil {
			return nil, err
		}
		out[i] = ty
	}
	return out, nil
}

func (dec *decoder) fromBody(b Body) (*mir.Body, error) {
	out := mir.NewBody()
	for i, l := range b.Locals {
		ty, err := dec.fromType(l.Type)
		if err != nil {
			return nil, err
		}
		out.Locals.Insert(arena.FromRawIndex[mir.Local](uint32(i)), mir.Local{Ident: dec.ident(l.Ident), Type: ty})
	}
	for i, blk := range b.Blocks {
		block, err := dec.fromBlock(blk)
		if err != nil {
			return nil, err
		}
		out.Blocks.Insert(arena.FromRawIndex[mir.Block](uint32(i)), block)
	}
	out.Entry = arena.FromRawIndex[mir.Block](b.Entry)
	return out, nil
}

func (dec *decoder) fromBlock(b Block) (mir.Block, error) {
	stmts := make([]mir.Statement, len(b.Stmts))
	for i, s := range b.Stmts {
		stmt, err := dec.fromStatement(s)
		if err != nil {
			return mir.Block{}, err
		}
		stmts[i] = stmt
	}
	out := mir.Block{Stmts: stmts}
	if b.Terminator != nil {
		term, err := dec.fromTerminator(*b.Terminator)
		if err != nil {
			return mir.Block{}, err
		}
		out.Terminator = &term
	}
	return out, nil
}

func (dec *decoder) fromStatement(s Statement) (mir.Statement, error) {
	value, err := dec.fromValue(s.Value)
	if err != nil {
		return mir.Statement{}, err
	}
	return mir.Statement{Kind: mir.StatementKind(s.Kind), Place: dec.fromPlace(s.Place), Value: value}, nil
}

func (dec *decoder) fromPlace(p Place) mir.Place {
	proj := make([]mir.Projection, len(p.Proj))
	for i, pr := range p.Proj {
		var class mir.ClassID
		if int(pr.Class) < len(dec.classIDs) {
			class = dec.classIDs[pr.Class]
		}
		proj[i] = mir.Projection{
			Kind:  mir.ProjectionKind(pr.Kind),
			Class: class,
			Field: arena.FromRawIndex[mir.Field](pr.Field),
		}
	}
	return mir.Place{Local: arena.FromRawIndex[mir.Local](p.Local), Proj: proj}
}

func (dec *decoder) fromConstant(c Constant) (mir.Constant, error) {
	out := mir.Constant{Kind: mir.ConstantKind(c.Kind), Integer: c.Integer, Float: c.Float, Bool: c.Bool}
	switch c.Kind {
	case ConstInteger:
		ty, err := dec.fromType(c.IntType)
		if err != nil {
			return mir.Constant{}, err
		}
		out.IntType = ty
	case ConstFloat:
		ty, err := dec.fromType(c.FloatType)
		if err != nil {
			return mir.Constant{}, err
		}
		out.FloatType = ty
	case ConstFunction:
		if int(c.Function) >= len(dec.functionIDs) {
			return mir.Constant{}, fmt.Errorf("mirenc: function index %d out of range", c.Function)
		}
		generics, err := dec.fromTypes(c.Generics)
		if err != nil {
			return mir.Constant{}, err
		}
		out.Function = dec.functionIDs[c.Function]
		out.Generics = generics
	}
	return out, nil
}

func (dec *decoder) fromOperand(o Operand) (mir.Operand, error) {
	out := mir.Operand{Kind: mir.OperandKind(o.Kind)}
	switch o.Kind {
	case OperandCopy, OperandMove:
		out.Place = dec.fromPlace(o.Place)
	case OperandConstant:
		c, err := dec.fromConstant(o.Constant)
		if err != nil {
			return mir.Operand{}, err
		}
		out.Constant = c
	}
	return out, nil
}

func (dec *decoder) fromOperands(os []Operand) ([]mir.Operand, error) {
	if len(os) == 0 {
		return nil, nil
	}
	out := make([]mir.Operand, len(os))
	for i, o := range os {
		operand, err := dec.fromOperand(o)
		if err != nil {
			return nil, err
		}
		out[i] = operand
	}
	return out, nil
}

func (dec *decoder) fromValue(v Value) (mir.Value, error) {
	out := mir.Value{Kind: mir.ValueKind(v.Kind)}
	var err error
	switch v.Kind {
	case ValueUse:
		out.Operand, err = dec.fromOperand(v.Operand)
	case ValueAddress:
		out.Place = dec.fromPlace(v.Place)
	case ValueUnaryOp:
		out.UnaryValue, err = dec.fromOperand(v.UnaryValue)
		out.UnaryOp = ast.UnaryOp(v.UnaryOp)
	case ValueBinaryOp:
		out.Lhs, err = dec.fromOperand(v.Lhs)
		if err == nil {
			out.Rhs, err = dec.fromOperand(v.Rhs)
		}
		out.BinaryOp = ast.BinaryOp(v.BinaryOp)
	case ValueCall:
		out.Callee, err = dec.fromOperand(v.Callee)
		if err == nil {
			out.Arguments, err = dec.fromOperands(v.Arguments)
		}
	case ValueAggregate:
		if int(v.Class) >= len(dec.classIDs) {
			return mir.Value{}, fmt.Errorf("mirenc: class index %d out of range", v.Class)
		}
		out.Class = dec.classIDs[v.Class]
		out.ClassGenerics, err = dec.fromTypes(v.ClassGenerics)
		if err == nil {
			fields := make([]mir.AggregateField, len(v.Fields))
			for i, f := range v.Fields {
				var fv mir.Operand
				fv, err = dec.fromOperand(f.Value)
				if err != nil {
					break
				}
				fields[i] = mir.AggregateField{Field: arena.FromRawIndex[mir.Field](f.Field), Value: fv}
			}
			out.Fields = fields
		}
	}
	if err != nil {
		return mir.Value{}, err
	}
	return out, nil
}

func (dec *decoder) fromTerminator(t Terminator) (mir.Terminator, error) {
	out := mir.Terminator{Kind: mir.TerminatorKind(t.Kind)}
	var err error
	switch t.Kind {
	case TermReturn:
		out.Operand, err = dec.fromOperand(t.Operand)
	case TermGoto:
		out.Goto = arena.FromRawIndex[mir.Block](t.Goto)
	case TermSwitch:
		out.SwitchOperand, err = dec.fromOperand(t.SwitchOperand)
		out.SwitchTargets = dec.fromSwitchTargets(t.SwitchTargets)
	}
	if err != nil {
		return mir.Terminator{}, err
	}
	return out, nil
}

func (dec *decoder) fromSwitchTargets(st SwitchTargets) mir.SwitchTargets {
	targets := make([]mir.SwitchTarget, len(st.Targets))
	for i, t := range st.Targets {
		targets[i] = mir.SwitchTarget{Value: t.Value, Target: arena.FromRawIndex[mir.Block](t.Target)}
	}
	return mir.SwitchTargets{Targets: targets, Default: arena.FromRawIndex[mir.Block](st.Default)}
}
