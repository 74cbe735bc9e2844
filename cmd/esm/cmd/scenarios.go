package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xgx-io/esm"
	"github.com/xgx-io/esm/internal/scenario"
)

var (
	divideNumerators   []int
	divideDenominators []int
	traceSize          int
	traceIndex         int
	propagateFile      string
	finallyExit        bool
	resourcesFile      string
	bankBalance        int
	bankAmount         int
)

var divideCmd = &cobra.Command{
	Use:   "divide",
	Short: "Divide pairs of numbers, handling division by zero per pair",
	Run: func(cmd *cobra.Command, args []string) {
		nums, dens := app.cfg.Divide.Numerators, app.cfg.Divide.Denominators
		if cmd.Flags().Changed("numerators") {
			nums = divideNumerators
		}
		if cmd.Flags().Changed("denominators") {
			dens = divideDenominators
		}
		runScenario("divide", func() { scenario.Divide(cmd.OutOrStdout(), nums, dens) })
	},
}

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Show that the most specific handler wins",
	Run: func(cmd *cobra.Command, args []string) {
		runScenario("hierarchy", func() { scenario.Hierarchy(cmd.OutOrStdout()) })
	},
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the origin trace of a failure three calls deep",
	Run: func(cmd *cobra.Command, args []string) {
		size, index := app.cfg.Trace.Size, app.cfg.Trace.Index
		if cmd.Flags().Changed("size") {
			size = traceSize
		}
		if cmd.Flags().Changed("index") {
			index = traceIndex
		}
		runScenario("trace", func() { scenario.StackTrace(cmd.OutOrStdout(), size, index) })
	},
}

var propagateCmd = &cobra.Command{
	Use:   "propagate",
	Short: "Let a missing-file error propagate to the terminal handler",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := app.cfg.Propagate.File
		if cmd.Flags().Changed("file") {
			name = propagateFile
		}
		fsys, err := filesystem(nil)
		if err != nil {
			return err
		}
		runScenario("propagate", func() { scenario.Propagate(fsys, name) })
		return nil
	},
}

var finallyCmd = &cobra.Command{
	Use:   "finally",
	Short: "Walk through the cleanup guarantee",
	Run: func(cmd *cobra.Command, args []string) {
		var exitFn func(int)
		if finallyExit {
			exitFn = app.term.Exit
		}
		runScenario("finally", func() { scenario.Finally(cmd.OutOrStdout(), exitFn) })
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Bind resources to a scope and release them in reverse order",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := app.cfg.Resources.File
		if cmd.Flags().Changed("file") {
			name = resourcesFile
		}
		fsys, err := filesystem(map[string]string{name: "first line of " + name + "\n"})
		if err != nil {
			return err
		}
		delay := app.cfg.Resources.ReleaseDelay.Duration
		runScenario("resources", func() { scenario.Resources(cmd.OutOrStdout(), fsys, name, delay) })
		return nil
	},
}

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Withdraw from an account, raising insufficient_funds on a shortfall",
	Run: func(cmd *cobra.Command, args []string) {
		balance, amount := app.cfg.Bank.Balance, app.cfg.Bank.Amount
		if cmd.Flags().Changed("balance") {
			balance = bankBalance
		}
		if cmd.Flags().Changed("amount") {
			amount = bankAmount
		}
		runScenario("bank", func() {
			final := scenario.Bank(cmd.OutOrStdout(), balance, amount)
			fmt.Fprintf(cmd.OutOrStdout(), "final balance %d\n", final)
		})
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every scenario; the propagation error is reported without exiting",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := app.cfg
		fsys, err := filesystem(map[string]string{cfg.Resources.File: "first line of " + cfg.Resources.File + "\n"})
		if err != nil {
			return err
		}

		steps := []struct {
			name string
			fn   func()
		}{
			{"divide", func() { scenario.Divide(out, cfg.Divide.Numerators, cfg.Divide.Denominators) }},
			{"hierarchy", func() { scenario.Hierarchy(out) }},
			{"trace", func() { scenario.StackTrace(out, cfg.Trace.Size, cfg.Trace.Index) }},
			{"finally", func() { scenario.Finally(out, nil) }},
			{"resources", func() { scenario.Resources(out, fsys, cfg.Resources.File, cfg.Resources.ReleaseDelay.Duration) }},
			{"bank", func() { scenario.Bank(out, cfg.Bank.Balance, cfg.Bank.Amount) }},
		}
		for _, s := range steps {
			fmt.Fprintf(out, "== %s ==\n", s.name)
			runScenario(s.name, s.fn)
		}

		fmt.Fprintln(out, "== propagate ==")
		if err := esm.Try(func() { scenario.Propagate(fsys, cfg.Propagate.File) }); err != nil {
			app.term.Report(esm.From(err))
		}
		return nil
	},
}

func init() {
	divideCmd.Flags().IntSliceVar(&divideNumerators, "numerators", nil, "numerators (default from config)")
	divideCmd.Flags().IntSliceVar(&divideDenominators, "denominators", nil, "denominators (default from config)")
	traceCmd.Flags().IntVar(&traceSize, "size", 0, "slice size (default from config)")
	traceCmd.Flags().IntVar(&traceIndex, "index", 0, "index written (default from config)")
	propagateCmd.Flags().StringVar(&propagateFile, "file", "", "file to open (default from config)")
	finallyCmd.Flags().BoolVar(&finallyExit, "exit", false, "really exit in the fourth example")
	resourcesCmd.Flags().StringVar(&resourcesFile, "file", "", "file to read (default from config)")
	bankCmd.Flags().IntVar(&bankBalance, "balance", 0, "opening balance (default from config)")
	bankCmd.Flags().IntVar(&bankAmount, "amount", 0, "withdrawal amount (default from config)")

	rootCmd.AddCommand(divideCmd, hierarchyCmd, traceCmd, propagateCmd, finallyCmd, resourcesCmd, bankCmd, allCmd)
}
