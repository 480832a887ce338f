// Package transfer runs transfer learning experiments between gridworld
// maps. An agent is trained on a source map, and its learned weights are
// used to initialize an agent on a target map. Comparing this agent to
// an agent trained from scratch on the target map gives a transfer
// ratio.
package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/environment/wrappers"
	"github.com/samuelfneumann/gridtransfer/experiment"
	"github.com/samuelfneumann/gridtransfer/experiment/checkpointer"
	"github.com/samuelfneumann/gridtransfer/experiment/tracker"
	"github.com/samuelfneumann/gridtransfer/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// ErrIncompatibleWeights is returned when initial weights do not fit the
// agent built for a map, for example when maps have different sizes
var ErrIncompatibleWeights = agent.ErrIncompatibleWeights

// evalSeedOffset separates the seeds of training and evaluation
// environments of the same run
const evalSeedOffset uint64 = 1 << 32

// ExperimentDir returns the directory that results of batch batchID are
// saved in
func ExperimentDir(resultsDir string, batchID int) string {
	return filepath.Join(resultsDir, fmt.Sprintf("Experiment%d", batchID))
}

// TargetDir returns the directory that the runs of batch batchID on the
// target map at targetPath are saved in. Each target map of a batch gets
// its own directory, named after the map file.
func TargetDir(resultsDir string, batchID int, targetPath string) string {
	name := filepath.Base(targetPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(ExperimentDir(resultsDir, batchID), name)
}

// Build constructs an experiment on the map at gridPath without running
// it, saving results in ExperimentDir(cfg.ResultsDir, batchID). See
// BuildIn.
func Build(cfg experiment.Config, batchID, runID int, gridPath string,
	initial map[string]*mat.Dense) (*experiment.Online, error) {
	return BuildIn(cfg, ExperimentDir(cfg.ResultsDir, batchID), runID,
		gridPath, initial)
}

// BuildIn constructs an experiment on the map at gridPath without running
// it, saving results in path. The environment, tabular representation,
// policy and agent are constructed in that order. If initial is not nil,
// the agent's weights are initialized to a copy of initial; otherwise
// they are initialized to zero. Run runID is seeded with
// cfg.Seed + runID.
func BuildIn(cfg experiment.Config, path string, runID int, gridPath string,
	initial map[string]*mat.Dense) (*experiment.Online, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	seed := cfg.Seed + uint64(runID)

	env, err := newTabular(cfg, gridPath, seed)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	evalEnv, err := newTabular(cfg, gridPath, seed+evalSeedOffset)
	if err != nil {
		return nil, fmt.Errorf("build: evaluation environment: %w", err)
	}

	var init weights.Initializer = weights.NewZero()
	if initial != nil {
		w, ok := initial[policy.WeightsKey]
		if !ok {
			return nil, fmt.Errorf("build: no initial weights named %q: %w",
				policy.WeightsKey, ErrIncompatibleWeights)
		}
		init = weights.NewCopy(w)
	}

	a, err := cfg.AgentConfig().CreateAgent(env, init, seed)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	trackers := []tracker.Tracker{
		tracker.NewReturn(filepath.Join(path,
			fmt.Sprintf("%03d-return.bin", runID))),
		tracker.NewEpisodeLength(filepath.Join(path,
			fmt.Sprintf("%03d-length.bin", runID))),
	}

	exp, err := experiment.NewOnline(env, evalEnv, a, cfg.MaxSteps, runID,
		path, trackers...)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if err := exp.SetPolicyChecks(cfg.NumPolicyChecks,
		cfg.ChecksPerPolicy); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	if cfg.CheckpointEvery > 0 {
		saver, ok := a.(checkpointer.Serializable)
		if !ok {
			return nil, fmt.Errorf("build: agent %v cannot be checkpointed",
				cfg.Algorithm)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}

		filename := filepath.Join(path, fmt.Sprintf("%03d-weights-", runID))
		c, err := checkpointer.NewNStep(cfg.CheckpointEvery, saver,
			checkpointer.FilenameEnumerator(0, filename, ".bin"))
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		exp.AddCheckpointer(c)
	}

	return exp, nil
}

// newTabular creates the tabular environment on the map at gridPath
func newTabular(cfg experiment.Config, gridPath string,
	seed uint64) (environment.Environment, error) {
	env, _, err := cfg.EnvConf.Create(gridPath, seed)
	if err != nil {
		return nil, err
	}

	tab, _, err := wrappers.NewTabular(env, cfg.Discretization)
	if err != nil {
		return nil, err
	}
	return tab, nil
}
