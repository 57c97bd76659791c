package infer

import "corefront/internal/hir"

// nodeGenericKey addresses one generic-argument slot at one call/construction
// site: the hir node performing the instantiation plus the positional index
// of the generic parameter.
type nodeGenericKey struct {
	Node hir.NodeID
	Index int
}

// InferenceTable is the solver's mutable state: the substitution map built
// up by unification, plus memoization tables so every hir node, generic
// argument and field access is inferred exactly once (spec §4.2
// "InferenceTable").
type InferenceTable struct {
	substitutions map[string]InferType

	nodeTypes    map[hir.NodeID]InferType
	nodeGenerics map[nodeGenericKey]InferType
	nodeFields   map[hir.NodeID]hir.FieldID

	nextVar uint64
}

func NewTable() *InferenceTable {
	return &InferenceTable{
		substitutions: make(map[string]InferType),
		nodeTypes:     make(map[hir.NodeID]InferType),
		nodeGenerics:  make(map[nodeGenericKey]InferType),
		nodeFields:    make(map[hir.NodeID]hir.FieldID),
	}
}

// NewVariable mints a fresh, unbound type variable of the given kind.
func (t *InferenceTable) NewVariable(kind VariableKind) TypeVariable {
	idx := t.nextVar
	t.nextVar++
	return TypeVariable{Index: idx, Kind: kind}
}

// RegisterType memoizes the InferType computed for a hir node (an
// expression, a local, or similar), so re-encountering the same node during
// constraint generation reuses the same variable/application rather than
// minting a fresh one.
func (t *InferenceTable) RegisterType(id hir.NodeID, ty InferType) { t.nodeTypes[id] = ty }

func (t *InferenceTable) GetType(id hir.NodeID) (InferType, bool) {
	v, ok := t.nodeTypes[id]
	return v, ok
}

// RegisterGeneric memoizes the InferType bound to one generic parameter at
// one instantiation site.
func (t *InferenceTable) RegisterGeneric(node hir.NodeID, index int, ty InferType) {
	t.nodeGenerics[nodeGenericKey{node, index}] = ty
}

func (t *InferenceTable) GetGeneric(node hir.NodeID, index int) (InferType, bool) {
	v, ok := t.nodeGenerics[nodeGenericKey{node, index}]
	return v, ok
}

// RegisterField memoizes which hir field a `base.field` expression resolved
// to. Nothing in the pipeline calls it; the THIR builder resolves field
// accesses through ResolveFieldID instead.
func (t *InferenceTable) RegisterField(node hir.NodeID, field hir.FieldID) {
	t.nodeFields[node] = field
}

func (t *InferenceTable) GetField(node hir.NodeID) (hir.FieldID, bool) {
	v, ok := t.nodeFields[node]
	return v, ok
}

// NormalizeShallow looks up a direct substitution for ty, without recursing
// into its structure. Var(n) substitutes to whatever it was last unified
// with; Proj substitutes once a Normalize constraint has resolved it.
func (t *InferenceTable) NormalizeShallow(ty InferType) (InferType, bool) {
	v, ok := t.substitutions[key(ty)]
	return v, ok
}

// Substitute records that from now stands for to.
func (t *InferenceTable) Substitute(from, to InferType) {
	t.substitutions[key(from)] = to
}

// Normalize follows substitutions transitively until reaching a fixed
// point: a Var with no substitution, an Apply (whose arguments are left
// as-is — callers needing a fully normalized tree should recurse
// themselves), or a Proj with no substitution yet.
func (t *InferenceTable) Normalize(ty InferType) InferType {
	for {
		next, ok := t.NormalizeShallow(ty)
		if !ok {
			return ty
		}
		ty = next
	}
}
