package types

import "sync/atomic"

// counter mints globally fresh Generic ids. Created on first use, no
// teardown: two syntactically identical type parameters declared on
// different items must never compare equal, even across separately-lowered
// programs within the same process.
var counter uint64

// Generic is a unique opaque token for a type parameter, carrying only a
// display name for diagnostics. Identity is the token itself, not the name:
// two declarations both spelled "T" mint two distinct Generics.
type Generic struct {
	id   uint64
	Name string
}

// NewGeneric mints a fresh Generic token with the given display name.
func NewGeneric(name string) Generic {
	id := atomic.AddUint64(&counter, 1)
	return Generic{id: id, Name: name}
}

// Equal reports whether two Generics are the same token.
func (g Generic) Equal(other Generic) bool { return g.id == other.id }

func (g Generic) String() string { return g.Name }

// Generics is an ordered list of type parameters, as declared on a class or
// function.
type Generics []Generic

// Position returns the index of g within gs, or -1 if absent.
func (gs Generics) Position(g Generic) int {
	for i, cand := range gs {
		if cand.Equal(g) {
			return i
		}
	}
	return -1
}

// GenericMap associates each position of a Generics list with a concrete
// type for substitution. It is intentionally untyped over T so that both
// HIR types and MIR types can reuse the same map shape.
type GenericMap[T any] struct {
	Params Generics
	Args   []T
}

// NewGenericMap pairs params with args positionally. len(args) must equal
// len(params); callers are expected to have already checked arity (see
// ArgCountMismatch in the resolver).
func NewGenericMap[T any](params Generics, args []T) GenericMap[T] {
	return GenericMap[T]{Params: params, Args: args}
}

// Lookup returns the concrete type bound to g, if any.
func (m GenericMap[T]) Lookup(g Generic) (T, bool) {
	pos := m.Params.Position(g)
	if pos < 0 || pos >= len(m.Args) {
		var zero T
		return zero, false
	}
	return m.Args[pos], true
}

// Empty is a GenericMap with no bindings, used at the root of a program
// where nothing has been instantiated yet.
func Empty[T any]() GenericMap[T] { return GenericMap[T]{} }
