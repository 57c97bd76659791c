// Package mirenc serializes a finished mir.Program to the compact binary
// form a backend collaborator consumes (spec §6), grounded on the
// teacher's internal/driver.DiskCache: a flat, msgpack-tagged payload type
// per domain type, a schema-version byte guarding format drift, and
// to/from converters that keep the wire shapes independent of the
// in-memory arena/handle representation (arena.Id and types.Generic both
// carry fields msgpack cannot usefully round-trip across processes).
package mirenc

import "github.com/vmihailenco/msgpack/v5"

// SchemaVersion is bumped whenever a Payload shape changes incompatibly.
const SchemaVersion uint8 = 1

// Program is the root wire payload.
type Program struct {
	Schema    uint8      `msgpack:"schema"`
	Classes   []Class    `msgpack:"classes"`
	Functions []Function `msgpack:"functions"`
}

type Class struct {
	Ident    string   `msgpack:"ident"`
	Generics []string `msgpack:"generics"`
	Fields   []Field  `msgpack:"fields"`
}

type Field struct {
	Ident string `msgpack:"ident"`
	Type  Type   `msgpack:"type"`
	// Init names the initializing function by wire-local function index,
	// -1 when the field has no default.
	Init int32 `msgpack:"init"`
}

// Type mirrors mir.Type's tagged-struct shape with every handle replaced
// by a value msgpack can encode directly: ClassID becomes a plain index
// into Program.Classes, and a Generic becomes its declaring item's
// generics-list position rather than its in-process identity.
type Type struct {
	Kind TypeKind `msgpack:"kind"`

	IntSigned bool  `msgpack:"int_signed,omitempty"`
	IntSize   uint8 `msgpack:"int_size,omitempty"`

	FloatSize uint8 `msgpack:"float_size,omitempty"`

	Elem *Type `msgpack:"elem,omitempty"`

	ArrayLen uint64 `msgpack:"array_len,omitempty"`

	Params []Type `msgpack:"params,omitempty"`
	Result *Type  `msgpack:"result,omitempty"`

	Fields []Type `msgpack:"fields,omitempty"`

	Class       uint32 `msgpack:"class,omitempty"`
	ClassIdent  string `msgpack:"class_ident,omitempty"`
	GenericArgs []Type `msgpack:"generic_args,omitempty"`

	GenericIndex int    `msgpack:"generic_index,omitempty"`
	GenericName  string `msgpack:"generic_name,omitempty"`
}

type TypeKind uint8

const (
	KindVoid TypeKind = iota
	KindBool
	KindInt
	KindFloat
	KindPointer
	KindArray
	KindSlice
	KindFunction
	KindTuple
	KindClass
	KindGeneric
)

type Function struct {
	Ident      string             `msgpack:"ident"`
	Generics   []string           `msgpack:"generics"`
	Arguments  []FunctionArgument `msgpack:"arguments"`
	ReturnType Type               `msgpack:"return_type"`
	Body       Body               `msgpack:"body"`
}

type FunctionArgument struct {
	Ident string `msgpack:"ident"`
	Type  Type   `msgpack:"type"`
	Local uint32 `msgpack:"local"`
}

type Body struct {
	Locals []Local `msgpack:"locals"`
	Blocks []Block `msgpack:"blocks"`
	Entry  uint32  `msgpack:"entry"`
}

type Local struct {
	Ident string `msgpack:"ident"`
	Type  Type   `msgpack:"type"`
}

type Block struct {
	Stmts      []Statement `msgpack:"stmts"`
	Terminator *Terminator `msgpack:"terminator,omitempty"`
}

type Statement struct {
	Kind  StatementKind `msgpack:"kind"`
	Place Place         `msgpack:"place,omitempty"`
	Value Value         `msgpack:"value"`
}

type StatementKind uint8

const (
	StmtAssign StatementKind = iota
	StmtDrop
)

type Place struct {
	Local uint32       `msgpack:"local"`
	Proj  []Projection `msgpack:"proj,omitempty"`
}

type Projection struct {
	Kind  ProjectionKind `msgpack:"kind"`
	Class uint32         `msgpack:"class,omitempty"`
	Field uint32         `msgpack:"field,omitempty"`
}

type ProjectionKind uint8

const (
	ProjDeref ProjectionKind = iota
	ProjField
)

type Constant struct {
	Kind ConstantKind `msgpack:"kind"`

	Integer int64   `msgpack:"integer,omitempty"`
	Float   float64 `msgpack:"float,omitempty"`
	Bool    bool    `msgpack:"bool,omitempty"`

	IntType   Type `msgpack:"int_type,omitempty"`
	FloatType Type `msgpack:"float_type,omitempty"`

	Function uint32 `msgpack:"function,omitempty"`
	Generics []Type `msgpack:"generics,omitempty"`
}

type ConstantKind uint8

const (
	ConstVoid ConstantKind = iota
	ConstNull
	ConstFunction
	ConstInteger
	ConstFloat
	ConstBool
)

type Operand struct {
	Kind     OperandKind `msgpack:"kind"`
	Place    Place       `msgpack:"place,omitempty"`
	Constant Constant    `msgpack:"constant,omitempty"`
}

type OperandKind uint8

const (
	OperandCopy OperandKind = iota
	OperandMove
	OperandConstant
)

type Value struct {
	Kind ValueKind `msgpack:"kind"`

	Operand Operand `msgpack:"operand,omitempty"`
	Place   Place   `msgpack:"place,omitempty"`

	BinaryOp uint8   `msgpack:"binary_op,omitempty"`
	Lhs, Rhs Operand `msgpack:"lhs,omitempty"`

	UnaryOp    uint8   `msgpack:"unary_op,omitempty"`
	UnaryValue Operand `msgpack:"unary_value,omitempty"`

	Callee    Operand   `msgpack:"callee,omitempty"`
	Arguments []Operand `msgpack:"arguments,omitempty"`

	Class         uint32           `msgpack:"class,omitempty"`
	ClassGenerics []Type           `msgpack:"class_generics,omitempty"`
	Fields        []AggregateField `msgpack:"fields,omitempty"`
}

type AggregateField struct {
	Field uint32  `msgpack:"field"`
	Value Operand `msgpack:"value"`
}

type ValueKind uint8

const (
	ValueUse ValueKind = iota
	ValueAddress
	ValueUnaryOp
	ValueBinaryOp
	ValueCall
	ValueAggregate
)

type Terminator struct {
	Kind TerminatorKind `msgpack:"kind"`

	Operand Operand `msgpack:"operand,omitempty"`

	Goto uint32 `msgpack:"goto,omitempty"`

	SwitchOperand Operand       `msgpack:"switch_operand,omitempty"`
	SwitchTargets SwitchTargets `msgpack:"switch_targets,omitempty"`
}

type TerminatorKind uint8

const (
	TermReturn TerminatorKind = iota
	TermGoto
	TermSwitch
)

type SwitchTargets struct {
	Targets []SwitchTarget `msgpack:"targets,omitempty"`
	Default uint32         `msgpack:"default"`
}

type SwitchTarget struct {
	Value  uint64 `msgpack:"value"`
	Target uint32 `msgpack:"target"`
}

var _ = msgpack.Marshal
