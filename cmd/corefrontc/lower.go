package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"corefront/internal/diag"
	"corefront/internal/hir"
)

var lowerCmd = &cobra.Command{
	Use:   "lower",
	Short: "Lower the built-in fixture program from AST to HIR and report diagnostics",
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

		fmt.Fprintf(out, "lowered %d module(s), %d class(es), %d function(s)\n",
			hirProgram.Modules.Len(), hirProgram.Classes.Len(), hirProgram.Functions.Len())
		printDiagnostics(out, bag)
		return nil
	},
}
