package transfer

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/samuelfneumann/gridtransfer/experiment"
	"github.com/samuelfneumann/gridtransfer/gridmap"
)

// Ratio is the transfer ratio of one target map of a batch
type Ratio struct {
	Target          string
	WithTransfer    float64
	WithoutTransfer float64
	Value           float64
}

// MapFiles returns the paths of all map files in dir, sorted by name
func MapFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("mapFiles: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !gridmap.IsMapFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// RunBatch runs a transfer experiment from the map at sourcePath to each
// map in dir, in order of filename. For each map, the transfer ratio of
// the runs with and without transfer is computed from cfg.EvaluationTrials
// evaluation episodes. If an error occurs, the ratios computed so far
// are returned along with the error.
func RunBatch(cfg experiment.Config, batchID int, sourcePath, dir string,
	progress io.Writer) ([]Ratio, error) {
	targets, err := MapFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("runBatch: %w", err)
	}

	ratios := make([]Ratio, 0, len(targets))
	for _, target := range targets {
		result, err := RunTransfer(cfg, batchID, sourcePath, target, progress)
		if err != nil {
			return ratios, fmt.Errorf("runBatch: %v: %w", target, err)
		}

		ratio, err := NewRatio(cfg.EvaluationTrials, target, result)
		if err != nil {
			return ratios, fmt.Errorf("runBatch: %v: %w", target, err)
		}
		ratios = append(ratios, ratio)
		log.Printf("Transfer Ratio: %f", ratio.Value)
	}
	return ratios, nil
}

// NewRatio evaluates the target runs of a transfer experiment for trials
// greedy episodes each and returns their transfer ratio
func NewRatio(trials int, target string, result Result) (Ratio, error) {
	with, err := result.Transfer.Evaluate(trials)
	if err != nil {
		return Ratio{}, err
	}
	without, err := result.NoTransfer.Evaluate(trials)
	if err != nil {
		return Ratio{}, err
	}

	value, err := TransferRatio(with, without)
	if err != nil {
		return Ratio{}, err
	}
	return Ratio{
		Target:          target,
		WithTransfer:    with,
		WithoutTransfer: without,
		Value:           value,
	}, nil
}
