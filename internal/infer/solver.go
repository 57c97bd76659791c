package infer

import (
	"corefront/internal/diag"
	"corefront/internal/hir"
	"corefront/internal/source"
)

// overflowBound caps how many times SolveAll will requeue a constraint that
// made no progress before giving up with an OverflowInSolver diagnostic
// (spec §5's "overflow bound ~256 on unifier recursion"). The original
// solver requeues indefinitely on non-progress; bounding it turns a latent
// infinite loop into a reported error, which is the behavior this port
// chooses to expose (see DESIGN.md).
const overflowBound = 256

// Solver drains a FIFO queue of constraints to a fixed point, tracking a
// recursion stack so a constraint that depends on itself (directly or
// through a chain of Normalize constraints) is recognized rather than
// recursed into forever (spec §4.2 "Solver").
type Solver struct {
	program    *hir.Program
	table      *InferenceTable
	returnType InferType

	queue []Constraint

	stack   []Constraint
	onStack map[string]bool
}

func NewSolver(program *hir.Program, table *InferenceTable) *Solver {
	return &Solver{program: program, table: table, onStack: make(map[string]bool)}
}

// Table exposes the shared inference table, e.g. so a caller can register
// hir types before queueing the constraints that relate them.
func (s *Solver) Table() *InferenceTable { return s.table }

// ReturnType exposes the solved-for function's declared return type, for
// callers (SolveBody's caller) that need to resolve it after SolveAll.
func (s *Solver) ReturnType() InferType { return s.returnType }

// Push enqueues a constraint to be processed by a later SolveAll.
func (s *Solver) Push(c Constraint) { s.queue = append(s.queue, c) }

// Solve processes one constraint immediately: a direct Unify always
// succeeds or fails outright (any follow-up Normalize constraints it
// produces are queued for later); a Normalize succeeds only once its base
// type is concrete, and otherwise reports itself unsolved so the caller can
// retry after other substitutions land.
func (s *Solver) Solve(c Constraint) (bool, error) {
	k := constraintKey(c)
	if s.onStack[k] || len(s.stack) >= overflowBound {
		return false, nil
	}

	s.stack = append(s.stack, c)
	s.onStack[k] = true

	var solved bool
	var err error
	switch c.Kind {
	case ConstraintUnify:
		solved, err = s.solveUnify(c)
	default:
		solved, err = s.solveNormalize(c)
	}

	s.stack = s.stack[:len(s.stack)-1]
	delete(s.onStack, k)
	return solved, err
}

// SolveAll drains the queue to a fixed point. A constraint that cannot be
// solved yet is requeued at the back; if overflowBound consecutive
// constraints come back unsolved with no intervening progress, the whole
// run aborts with OverflowInSolver rather than spinning forever.
func (s *Solver) SolveAll() error {
	stale := 0
	for len(s.queue) > 0 {
		c := s.queue[0]
		s.queue = s.queue[1:]

		solved, err := s.Solve(c)
		if err != nil {
			return err
		}
		if solved {
			stale = 0
			continue
		}

		stale++
		if stale >= overflowBound {
			return diag.Error(diag.OverflowInSolver, "type inference did not converge", source.Dummy,
				diag.Hint{Message: "a constraint repeatedly failed to resolve; this usually indicates an unresolvable type"})
		}
		s.queue = append(s.queue, c)
	}
	return nil
}

func (s *Solver) solveUnify(c Constraint) (bool, error) {
	u := newUnifier(s.table)
	if err := u.Unify(c.UnifyA, c.UnifyB); err != nil {
		return false, err
	}
	s.queue = append(s.queue, u.Constraints...)
	return true, nil
}

func (s *Solver) solveNormalize(c Constraint) (bool, error) {
	resolved, err := s.normalizeProjection(c.NormalizeProj)
	if err != nil {
		return false, err
	}
	if resolved == nil {
		return false, nil
	}
	s.table.Substitute(InferType{Kind: KindProj, Proj: c.NormalizeProj}, *resolved)
	solved, err := s.Solve(UnifyConstraint(*resolved, c.NormalizeExpected))
	if err != nil {
		return false, err
	}
	if !solved {
		s.queue = append(s.queue, UnifyConstraint(*resolved, c.NormalizeExpected))
	}
	return true, nil
}

// normalizeProjection resolves base.field once base is concrete, returning
// nil (not an error) when base is still an unresolved variable or
// projection — the caller requeues in that case.
func (s *Solver) normalizeProjection(proj TypeProjection) (*InferType, error) {
	whole := InferType{Kind: KindProj, Proj: proj}
	if ty, ok := s.table.NormalizeShallow(whole); ok {
		return &ty, nil
	}
	base := s.table.Normalize(*proj.Base)
	if base.Kind != KindApply {
		return nil, nil
	}
	return s.normalizeField(base, proj.Field)
}

func (s *Solver) normalizeField(base InferType, field source.Ident) (*InferType, error) {
	if base.Apply.Item.Kind != ItemClass {
		return nil, diag.Error(diag.InvalidFieldAccess, "value has no fields", base.Apply.Span,
			diag.Hint{Message: "field access requires a class type", Span: base.Apply.Span})
	}
	class, ok := s.program.Classes.Get(base.Apply.Item.Class)
	if !ok {
		return nil, diag.Error(diag.InvalidFieldAccess, "unknown class", base.Apply.Span)
	}
	fieldID, ok := class.FindField(field)
	if !ok {
		return nil, diag.Error(diag.InvalidFieldAccess, "no field named "+field.Name(), base.Apply.Span,
			diag.Hint{Message: "class " + class.Ident.Name() + " has no such field", Span: base.Apply.Span})
	}
	hirField, _ := class.Fields.Get(fieldID)
	instance := Instance{Params: class.Generics, Args: base.Apply.Arguments}
	ty := InferHIR(s.table, hirField.Type, instance)
	return &ty, nil
}
