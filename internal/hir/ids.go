// Package hir provides the High-level Intermediate Representation: a
// name-resolved tree with item references bound but types possibly still
// Inferred (spec §3/§4.1). Cross-node references within a program are
// arena handles; within a body they are additionally tagged with a dense
// per-body "universe id" used to index the inference table (spec §3
// "Inference table").
package hir

import "corefront/internal/arena"

type (
	ModuleID   = arena.Id[Module]
	ClassID    = arena.Id[Class]
	FieldID    = arena.Id[Field]
	FunctionID = arena.Id[Function]
	LocalID    = arena.Id[Local]
	ExprID     = arena.Id[Expr]
	BlockID    = arena.Id[Block]
)

// NodeID is the per-body universe id stamped on every local, statement and
// expression, used to key lookups into the inference table.
type NodeID uint32

// NoNodeID is never issued by Body.nextID; a zero value signals "not yet
// registered" where that distinction matters.
const NoNodeID NodeID = 0
