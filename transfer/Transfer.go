package transfer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/samuelfneumann/gridtransfer/experiment"
	"github.com/samuelfneumann/gridtransfer/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// ErrZeroBaseline is returned when a transfer ratio cannot be computed
// because the run without transfer has an evaluation score of 0
var ErrZeroBaseline = errors.New("baseline evaluation score is zero")

// Phase names one run of a transfer experiment
type Phase string

const (
	// PhaseSource trains from scratch on the source map
	PhaseSource Phase = "source"

	// PhaseNoTransfer trains from scratch on the target map
	PhaseNoTransfer Phase = "target-no-transfer"

	// PhaseTransfer trains on the target map starting from the weights
	// learned on the source map
	PhaseTransfer Phase = "target-transfer"
)

// RunID returns the run ID of the phase
func (p Phase) RunID() int {
	switch p {
	case PhaseSource:
		return 1
	case PhaseNoTransfer:
		return 2
	case PhaseTransfer:
		return 3
	}
	return 0
}

// Result holds the finished runs of a transfer experiment and the
// weights learned on the source map
type Result struct {
	Source     *experiment.Online
	NoTransfer *experiment.Online
	Transfer   *experiment.Online

	// Learned is a copy of the source run's weights taken after training.
	// It does not share memory with any run.
	Learned map[string]*mat.Dense
}

// RunTransfer runs a transfer experiment from the map at sourcePath to
// the map at targetPath. The phases are run in order: PhaseSource, then
// PhaseNoTransfer, then PhaseTransfer. Each run is built, trained, saved
// in TargetDir(cfg.ResultsDir, batchID, targetPath) and plotted if
// cfg.Plot is set. The first error aborts the experiment. If progress is
// not nil, progress bars are displayed on it.
func RunTransfer(cfg experiment.Config, batchID int, sourcePath,
	targetPath string, progress io.Writer) (Result, error) {
	var result Result

	dir := TargetDir(cfg.ResultsDir, batchID, targetPath)

	source, err := runPhase(cfg, PhaseSource, dir, sourcePath, nil,
		progress)
	if err != nil {
		return result, fmt.Errorf("runTransfer: %w", err)
	}
	result.Source = source
	result.Learned = matutils.CloneWeights(source.Agent.Weights())

	noTransfer, err := runPhase(cfg, PhaseNoTransfer, dir, targetPath,
		nil, progress)
	if err != nil {
		return result, fmt.Errorf("runTransfer: %w", err)
	}
	result.NoTransfer = noTransfer

	transfer, err := runPhase(cfg, PhaseTransfer, dir, targetPath,
		result.Learned, progress)
	if err != nil {
		return result, fmt.Errorf("runTransfer: %w", err)
	}
	result.Transfer = transfer

	return result, nil
}

// runPhase builds, runs, saves and plots a single phase in dir
func runPhase(cfg experiment.Config, phase Phase, dir string,
	gridPath string, initial map[string]*mat.Dense,
	progress io.Writer) (*experiment.Online, error) {
	runID := phase.RunID()
	log.Printf("%v | %v | map %v | %d steps", dir, phase, gridPath,
		cfg.MaxSteps)

	exp, err := BuildIn(cfg, dir, runID, gridPath, initial)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", phase, err)
	}
	exp.SetProgress(progress)

	if err := exp.Run(); err != nil {
		return nil, fmt.Errorf("%v: %w", phase, err)
	}
	if err := exp.Save(); err != nil {
		return nil, fmt.Errorf("%v: %w", phase, err)
	}

	if cfg.Plot {
		plotPath := filepath.Join(exp.Path(), fmt.Sprintf("%03d-plot.png",
			runID))
		if err := exp.Plot(plotPath); err != nil {
			return nil, fmt.Errorf("%v: %w", phase, err)
		}
	}
	return exp, nil
}

// TransferRatio returns the ratio of the evaluation score with transfer
// to the evaluation score without transfer
func TransferRatio(with, without float64) (float64, error) {
	if without == 0 {
		return 0, fmt.Errorf("transferRatio: %v / %v: %w", with, without,
			ErrZeroBaseline)
	}
	return with / without, nil
}
