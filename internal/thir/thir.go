// Package thir is the typed re-walk of one function body after inference
// has solved it (spec §4.3 "THIR: every node is stamped with a resolved
// mir.Type"). Rather than rebuilding a parallel tree indexed by fresh ids
// (the approach the original's thir::Body takes), this port keeps the
// hir.Body itself and its existing hir.ExprID/hir.LocalID indices, adding
// resolved side-tables: the two trees have identical shape, so duplicating
// the tree would only double bookkeeping without changing what gets
// checked — see DESIGN.md.
package thir

import (
	"fmt"

	"corefront/internal/hir"
	"corefront/internal/infer"
	"corefront/internal/mir"
	"corefront/internal/source"
)

// FieldRef names the concrete class and field a `base.field` access
// resolved to, once its base type is known.
type FieldRef struct {
	Class mir.ClassID
	Field mir.FieldID
}

// Body pairs a solved hir.Body with the resolved mir.Type of every local
// and expression in it, plus the field identity of every field-access
// expression. A THIR Body is read-only: the MIR builder consumes it
// without mutating it.
type Body struct {
	HIR        *hir.Body
	ReturnType mir.Type
	Table      *infer.InferenceTable

	exprTypes  map[hir.ExprID]mir.Type
	localTypes map[hir.LocalID]mir.Type
	fields     map[hir.ExprID]FieldRef
}

// FunctionGenerics resolves the concrete generic arguments a bare function
// reference (an ExprFunction node) was instantiated with, once inference
// has solved every implicitly-minted variable (spec §9 "implicit
// instantiation"). node is the node id of that ExprFunction expression;
// count is the number of generics the referenced function declares.
func (b *Body) FunctionGenerics(node hir.NodeID, count int) ([]mir.Type, error) {
	out := make([]mir.Type, count)
	for i := 0; i < count; i++ {
		ty, ok := b.Table.GetGeneric(node, i)
		if !ok {
			panic(fmt.Sprintf("thir: node %v has no resolved generic %d", node, i))
		}
		resolved, err := infer.Resolve(b.Table, ty, source.Dummy)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func (b *Body) TypeOf(id hir.ExprID) mir.Type {
	ty, ok := b.exprTypes[id]
	if !ok {
		panic(fmt.Sprintf("thir: %v has no resolved type", id))
	}
	return ty
}

func (b *Body) LocalType(id hir.LocalID) mir.Type {
	ty, ok := b.localTypes[id]
	if !ok {
		panic(fmt.Sprintf("thir: %v has no resolved type", id))
	}
	return ty
}

func (b *Body) FieldOf(id hir.ExprID) FieldRef {
	ref, ok := b.fields[id]
	if !ok {
		panic(fmt.Sprintf("thir: %v is not a field access", id))
	}
	return ref
}

// Build resolves every local, expression and field-access in body against
// solver's now-fixed-point inference table. solver.SolveBody (and
// solver.SolveAll) must already have run; any node whose type never made
// it into the table is treated as a compiler bug, not a user-facing
// diagnostic — inference is expected to register every node it visits.
func Build(program *hir.Program, solver *infer.Solver, body *hir.Body, returnSpan source.Span) (*Body, error) {
	table := solver.Table()

	result := &Body{
		HIR:        body,
		Table:      table,
		exprTypes:  make(map[hir.ExprID]mir.Type),
		localTypes: make(map[hir.LocalID]mir.Type),
		fields:     make(map[hir.ExprID]FieldRef),
	}

	for id, local := range body.Locals.All {
		ty, ok := table.GetType(local.ID)
		if !ok {
			panic(fmt.Sprintf("thir: local %v never registered during inference", id))
		}
		resolved, err := infer.Resolve(table, ty, local.Type.Span)
		if err != nil {
			return nil, err
		}
		result.localTypes[id] = resolved
	}

	for id, expr := range body.Exprs.All {
		ty, ok := table.GetType(expr.ID)
		if !ok {
			panic(fmt.Sprintf("thir: expr %v never registered during inference", id))
		}
		resolved, err := infer.Resolve(table, ty, expr.Span)
		if err != nil {
			return nil, err
		}
		result.exprTypes[id] = resolved

		if expr.Kind == hir.ExprField {
			baseExpr, _ := body.Exprs.Get(expr.FieldBase)
			baseTy, ok := table.GetType(baseExpr.ID)
			if !ok {
				panic(fmt.Sprintf("thir: field base of %v never registered during inference", id))
			}
			class, field, err := infer.ResolveFieldID(table, program, baseTy, expr.FieldIdent)
			if err != nil {
				return nil, err
			}
			result.fields[id] = FieldRef{Class: class, Field: field}
		}
	}

	returnTy, err := infer.Resolve(table, solver.ReturnType(), returnSpan)
	if err != nil {
		return nil, err
	}
	result.ReturnType = returnTy

	return result, nil
}
