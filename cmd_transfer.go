package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/gridtransfer/report"
	"github.com/samuelfneumann/gridtransfer/transfer"
	"github.com/spf13/cobra"
)

// TransferCommand returns the command running a single transfer
// experiment between two maps
func TransferCommand() *cobra.Command {
	var batchID int

	cmd := &cobra.Command{
		Use:   "transfer <source map> <target map>",
		Short: "Run one transfer experiment from a source to a target map",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			result, err := transfer.RunTransfer(cfg, batchID, args[0],
				args[1], progress())
			if err != nil {
				return err
			}

			ratio, err := transfer.NewRatio(cfg.EvaluationTrials, args[1],
				result)
			if err != nil {
				return err
			}
			return report.Print(os.Stdout, []transfer.Ratio{ratio}, colour)
		},
	}
	cmd.Flags().IntVar(&batchID, "batch", 0, "batch ID of the experiment")
	return cmd
}

// BatchCommand returns the command running transfer experiments from a
// source map to every map of a directory
func BatchCommand() *cobra.Command {
	var batchID int

	cmd := &cobra.Command{
		Use:   "batch <source map> <map dir>",
		Short: "Run transfer experiments from a source map to every map in " +
			"a directory",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ratios, runErr := transfer.RunBatch(cfg, batchID, args[0],
				args[1], progress())
			if runErr != nil {
				fmt.Fprintf(os.Stderr, "batch stopped after %d maps: %v\n",
					len(ratios), runErr)
			}
			if len(ratios) == 0 {
				return runErr
			}

			dir := transfer.ExperimentDir(cfg.ResultsDir, batchID)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			if err := report.WriteJSON(filepath.Join(dir, "ratios.json"),
				ratios); err != nil {
				return err
			}
			if err := report.WriteHTML(filepath.Join(dir, "ratios.html"),
				ratios); err != nil {
				return err
			}
			log.Printf("Saved ratios to %v", dir)

			if err := report.Print(os.Stdout, ratios, colour); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().IntVar(&batchID, "batch", 0, "batch ID of the experiment")
	return cmd
}
