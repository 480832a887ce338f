// Command gridtransfer generates random gridworld maps and runs transfer
// learning experiments between them.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/samuelfneumann/gridtransfer/experiment"
	"github.com/spf13/cobra"
)

// Flags shared by all commands
var (
	configPath string
	seed       uint64
	maxSteps   int
	resultsDir string
	noPlot     bool
	verbose    bool
	colour     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridtransfer",
		Short: "Transfer learning between gridworld maps",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "JSON experiment config file")
	flags.Uint64Var(&seed, "seed", 0, "base random seed (map generation "+
		"uses the clock when unset)")
	flags.IntVar(&maxSteps, "max-steps", 0, "training steps per run")
	flags.StringVar(&resultsDir, "results", "", "results directory")
	flags.BoolVar(&noPlot, "no-plot", false, "do not plot learning curves")
	flags.BoolVarP(&verbose, "verbose", "v", false, "show progress bars")
	flags.BoolVar(&colour, "colour", true, "colour console output")

	rootCmd.AddCommand(GenerateCommand())
	rootCmd.AddCommand(GenerateManyCommand())
	rootCmd.AddCommand(ShowCommand())
	rootCmd.AddCommand(TransferCommand())
	rootCmd.AddCommand(BatchCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig returns the experiment config from the --config file, or
// the default config, with command line flags applied on top
func loadConfig(cmd *cobra.Command) (experiment.Config, error) {
	cfg := experiment.Default()
	if configPath != "" {
		var err error
		cfg, err = experiment.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("results") {
		cfg.ResultsDir = resultsDir
	}
	if noPlot {
		cfg.Plot = false
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("loadConfig: %w", err)
	}
	return cfg, nil
}

// progress returns the writer progress bars are displayed on
func progress() io.Writer {
	if verbose {
		return os.Stderr
	}
	return nil
}
