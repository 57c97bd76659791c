package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"corefront/internal/driver"
	"corefront/internal/mirenc"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the fixture program through the full AST-to-MIR pipeline",
	RunE: func(cmd *cobra.Command, _ []string) error {
		maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if err != nil {
			return err
		}
		jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
		if err != nil {
			return err
		}
		colorMode, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}

		astProgram := buildFixture()
		result, err := driver.Run(cmd.Context(), astProgram, driver.Options{
			Jobs:           jobs,
			MaxDiagnostics: maxDiag,
		})
		out := cmd.OutOrStdout()
		if err != nil {
			return fmt.Errorf("build aborted: %w", err)
		}

		printDiagnostics(out, result.Bag)

		useColor := shouldColorize(colorMode)
		if result.Failed || result.MIR == nil {
			printStatus(out, useColor, errorColor, "BUILD FAILED")
			return nil
		}

		encoded, err := mirenc.EncodeBytes(result.MIR)
		if err != nil {
			return fmt.Errorf("encoding mir: %w", err)
		}

		fmt.Fprintf(out, "classes: %d, functions: %d, encoded: %d bytes\n",
			result.MIR.Classes.Len(), result.MIR.Functions.Len(), len(encoded))
		printStatus(out, useColor, color.New(color.FgGreen, color.Bold), "BUILD OK")
		return nil
	},
}

func shouldColorize(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func printStatus(out io.Writer, useColor bool, c *color.Color, msg string) {
	if useColor {
		fmt.Fprintln(out, c.Sprint(msg))
		return
	}
	fmt.Fprintln(out, msg)
}
