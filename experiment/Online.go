package experiment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/gridtransfer/agent"
	env "github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/experiment/checkpointer"
	"github.com/samuelfneumann/gridtransfer/experiment/tracker"
	ts "github.com/samuelfneumann/gridtransfer/timestep"
	"github.com/samuelfneumann/gridtransfer/utils/progressbar"
	"gonum.org/v1/gonum/stat"
)

// ResultsFormat is the format of the name of the results file of a run,
// given its ID
const ResultsFormat = "%03d-results.json"

// Check holds the outcome of a performance check: the greedy policy is
// run for a number of episodes on a separate evaluation environment
// and the outcome of these episodes is averaged.
type Check struct {
	Steps            int     `json:"learning_steps"`
	Episodes         int     `json:"learning_episodes"`
	Return           float64 `json:"return"`
	DiscountedReturn float64 `json:"discounted_return"`
	Length           float64 `json:"steps"`
	Terminated       float64 `json:"terminated"`
}

// Results are the results of an Online experiment saved to disk
type Results struct {
	ID       int     `json:"id"`
	Steps    int     `json:"steps"`
	Episodes int     `json:"episodes"`
	Checks   []Check `json:"checks"`
}

// Online is an Experiment that runs an agent online. The greedy policy
// of the agent is periodically evaluated on a separate evaluation
// environment.
type Online struct {
	env.Environment
	agent.Agent
	evalEnv env.Environment

	id   int
	path string

	maxSteps        int
	currentSteps    int
	episodes        int
	numPolicyChecks int
	checksPerPolicy int
	checks          []Check

	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	progress      io.Writer
}

// NewOnline creates and returns a new online experiment with a given
// agent, training on e and evaluating on evalEnv. The steps parameter
// determines how many timesteps the experiment is run for. Results are
// saved in the directory path under the run id. By default the policy
// is checked once during training, with 10 episodes per check.
func NewOnline(e, evalEnv env.Environment, a agent.Agent, steps int,
	id int, path string, t ...tracker.Tracker) (*Online, error) {
	if steps < 0 {
		return nil, fmt.Errorf("newOnline: steps cannot be negative, got %d",
			steps)
	}
	if e == evalEnv {
		return nil, fmt.Errorf("newOnline: training and evaluation " +
			"environments must be separate instances")
	}

	return &Online{
		Environment:     e,
		Agent:           a,
		evalEnv:         evalEnv,
		id:              id,
		path:            path,
		maxSteps:        steps,
		numPolicyChecks: 1,
		checksPerPolicy: 10,
		trackers:        t,
	}, nil
}

// SetPolicyChecks sets the number of performance checks during training
// and the number of evaluation episodes per check
func (o *Online) SetPolicyChecks(num, perCheck int) error {
	if num <= 0 || perCheck <= 0 {
		return fmt.Errorf("setPolicyChecks: checks must be positive, got "+
			"(%d, %d)", num, perCheck)
	}
	o.numPolicyChecks = num
	o.checksPerPolicy = perCheck
	return nil
}

// SetProgress sets the writer that a progress bar is displayed on. A nil
// writer disables the progress bar.
func (o *Online) SetProgress(w io.Writer) {
	o.progress = w
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// AddCheckpointer adds a checkpointer.Checkpointer to the experiment
func (o *Online) AddCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// checkInterval returns the number of steps between performance checks
func (o *Online) checkInterval() int {
	interval := o.maxSteps / o.numPolicyChecks
	if interval == 0 {
		return 1
	}
	return interval
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (bool, error) {
	return o.runEpisode(nil)
}

func (o *Online) runEpisode(bar *progressbar.ManualProgressBar) (bool,
	error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	interval := o.checkInterval()
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		// Cache the environment step in each Tracker
		o.track(step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		if err := o.checkpoint(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		if o.currentSteps%interval == 0 {
			if err := o.performanceCheck(); err != nil {
				return false, fmt.Errorf("runEpisode: %w", err)
			}
		}

		if bar != nil {
			bar.Increment()
			bar.Display()
		}
	}

	if step.Last() {
		o.Agent.EndEpisode()
		o.episodes++
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps. The greedy policy is
// checked before training starts and after every MaxSteps /
// NumPolicyChecks steps.
func (o *Online) Run() error {
	if err := o.performanceCheck(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	var bar *progressbar.ManualProgressBar
	if o.progress != nil {
		bar = progressbar.NewManualProgressBar(o.progress, 40, o.maxSteps)
		defer bar.Close()
	}

	ended := o.currentSteps >= o.maxSteps
	for !ended {
		var err error
		ended, err = o.runEpisode(bar)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	return nil
}

// performanceCheck evaluates the greedy policy and records the outcome
func (o *Online) performanceCheck() error {
	check, err := o.evaluate(o.checksPerPolicy)
	if err != nil {
		return fmt.Errorf("performanceCheck: %w", err)
	}
	o.checks = append(o.checks, check)
	return nil
}

// Evaluate runs trials greedy episodes on the evaluation environment and
// returns their mean return
func (o *Online) Evaluate(trials int) (float64, error) {
	if trials <= 0 {
		return 0, fmt.Errorf("evaluate: trials must be positive, got %d",
			trials)
	}
	check, err := o.evaluate(trials)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}
	return check.Return, nil
}

func (o *Online) evaluate(trials int) (Check, error) {
	if !o.Agent.IsEval() {
		o.Agent.Eval()
		defer o.Agent.Train()
	}

	returns := make([]float64, trials)
	discounted := make([]float64, trials)
	lengths := make([]float64, trials)
	terminated := make([]float64, trials)

	for i := 0; i < trials; i++ {
		step, err := o.evalEnv.Reset()
		if err != nil {
			return Check{}, err
		}

		discount := 1.0
		for !step.Last() {
			action := o.Agent.SelectAction(step)
			step, _, err = o.evalEnv.Step(action)
			if err != nil {
				return Check{}, err
			}

			returns[i] += step.Reward
			discounted[i] += discount * step.Reward
			discount *= step.Discount
		}

		lengths[i] = float64(step.Number)
		if step.EndType() == ts.TerminalStateReached {
			terminated[i] = 1.0
		}
	}

	return Check{
		Steps:            o.currentSteps,
		Episodes:         o.episodes,
		Return:           stat.Mean(returns, nil),
		DiscountedReturn: stat.Mean(discounted, nil),
		Length:           stat.Mean(lengths, nil),
		Terminated:       stat.Mean(terminated, nil),
	}, nil
}

// Save saves the results of the experiment and all the data cached by
// the Trackers to disk
func (o *Online) Save() error {
	if err := os.MkdirAll(o.path, 0o755); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	data, err := json.MarshalIndent(o.Results(), "", "\t")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(o.ResultsPath(), data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// LoadResults loads results saved by an Online experiment
func LoadResults(path string) (Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Results{}, fmt.Errorf("loadResults: %w", err)
	}

	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return Results{}, fmt.Errorf("loadResults: %w", err)
	}
	return r, nil
}

// Results returns the results of the experiment so far
func (o *Online) Results() Results {
	return Results{
		ID:       o.id,
		Steps:    o.currentSteps,
		Episodes: o.episodes,
		Checks:   o.Checks(),
	}
}

// ResultsPath returns the path of the results file of the experiment
func (o *Online) ResultsPath() string {
	return filepath.Join(o.path, fmt.Sprintf(ResultsFormat, o.id))
}

// Checks returns the performance checks performed so far
func (o *Online) Checks() []Check {
	return append([]Check(nil), o.checks...)
}

// ID returns the run ID of the experiment
func (o *Online) ID() int {
	return o.id
}

// Path returns the directory that results are saved in
func (o *Online) Path() string {
	return o.path
}

// Steps returns the number of training steps taken so far
func (o *Online) Steps() int {
	return o.currentSteps
}

// Episodes returns the number of training episodes finished so far
func (o *Online) Episodes() int {
	return o.episodes
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// checkpoint informs each Checkpointer that a step was taken
func (o *Online) checkpoint() error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(); err != nil {
			return err
		}
	}
	return nil
}
