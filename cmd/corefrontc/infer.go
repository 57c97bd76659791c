package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"corefront/internal/diag"
	"corefront/internal/hir"
	"corefront/internal/infer"
	"corefront/internal/mir"
)

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Lower the fixture and solve each function's types without building MIR",
	RunE: func(cmd *cobra.Command, _ []string) error {
		maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if err != nil {
			return err
		}

		astProgram := buildFixture()
		hirProgram := hir.NewProgram()
		bag := diag.NewBag(maxDiag)
		lowerer := hir.NewProgramLowerer(astProgram, hirProgram, bag)

		out := cmd.OutOrStdout()
		if err := lowerer.Lower(); err != nil {
			fmt.Fprintf(out, "lowering failed: %v\n", err)
			printDiagnostics(out, bag)
			return nil
		}

		for id, function := range hirProgram.Functions.All {
			ret, err := inferFunction(hirProgram, function)
			if err != nil {
				bag.Emit(diag.Error(diag.Mismatch, err.Error(), function.Span))
				continue
			}
			fmt.Fprintf(out, "%s (#%d): -> %s\n", function.Ident.Name(), id.RawIndex(), ret)
		}

		printDiagnostics(out, bag)
		return nil
	},
}

// inferFunction solves function's body in isolation and reports its
// resolved return type, stopping short of lowering to MIR.
func inferFunction(program *hir.Program, function hir.Function) (mir.Type, error) {
	table := infer.NewTable()
	solver := infer.NewSolver(program, table)
	instance := infer.EmptyInstance()

	returnTy := infer.InferHIR(table, function.ReturnType, instance)
	solver.SetReturnType(returnTy)

	if err := solver.SolveBody(&function.Body, instance); err != nil {
		return mir.Type{}, err
	}
	if err := solver.SolveAll(); err != nil {
		return mir.Type{}, err
	}

	return infer.Resolve(table, returnTy, function.Span)
}
