// Command corefrontc drives the AST→HIR→THIR→MIR pipeline over a small
// built-in fixture program, exercising internal/driver end-to-end the way
// a real frontend's parser output would (spec §1 "a thin driver to
// exercise the pipeline end-to-end with a fixture AST builder").
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"corefront/internal/corelog"
)

var rootCmd = &cobra.Command{
	Use:   "corefrontc",
	Short: "corefront AST-to-MIR pipeline driver",
	Long:  `corefrontc lowers a fixture program through inference and MIR construction, the way a real parser's output would.`,
}

var (
	timeoutCancel context.CancelFunc
)

func main() {
	rootCmd.Version = versionString()
	rootCmd.PersistentPreRunE = applyTimeout
	rootCmd.PersistentPostRun = cleanupTimeout

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	rootCmd.PersistentFlags().Int("jobs", 0, "bounded worker count for MIR construction (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds")
	rootCmd.PersistentFlags().Bool("verbose", false, "emit internal phase/timing log lines")
	rootCmd.PersistentFlags().String("color", "auto", "colorize summary output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyTimeout(cmd *cobra.Command, _ []string) error {
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		corelog.SetDefault(corelog.New(os.Stderr, corelog.LevelDebug))
	}

	secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
	if err != nil {
		return fmt.Errorf("failed to read timeout flag: %w", err)
	}
	if secs <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(secs)*time.Second)
	timeoutCancel = cancel
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(os.Stderr, "corefrontc: command timed out\n")
			os.Exit(1)
		}
	}()

	return nil
}

func cleanupTimeout(*cobra.Command, []string) {
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
}
