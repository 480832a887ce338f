package esarsa

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/learningrate"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gridtransfer/timestep"
	"gonum.org/v1/gonum/mat"
)

// ESarsaLearner implements the update functionality for the Expected
// Sarsa algorithm.
type ESarsaLearner struct {
	target   *policy.EGreedy
	weights  *mat.Dense
	step     timestep.TimeStep
	action   int
	nextStep timestep.TimeStep
	schedule learningrate.Schedule
}

// NewESarsaLearner creates a new ESarsaLearner struct which updates the
// weights of the target policy towards its expected action values
func NewESarsaLearner(target *policy.EGreedy,
	schedule learningrate.Schedule) (*ESarsaLearner, error) {
	weights, ok := target.Weights()[policy.WeightsKey]
	if !ok {
		return nil, fmt.Errorf("newESarsaLearner: policy has no weights "+
			"named %q", policy.WeightsKey)
	}

	return &ESarsaLearner{
		target:   target,
		weights:  weights,
		schedule: schedule,
	}, nil
}

// ObserveFirst observes and records the first episodic timestep
func (e *ESarsaLearner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "Warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)\n",
			t.Number)
	}
	e.step = timestep.TimeStep{}
	e.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first timestep
func (e *ESarsaLearner) Observe(action mat.Vector,
	nextStep timestep.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods cannot have "+
			"multi-dimensional actions (action dim = %d)", action.Len())
	}
	e.step = e.nextStep
	e.action = int(action.AtVec(0))
	e.nextStep = nextStep
	return nil
}

// Step updates the weights of the Agent's Learner and Policy
func (e *ESarsaLearner) Step() error {
	if e.step.Observation == nil || e.nextStep.Observation == nil {
		return fmt.Errorf("step: no transition observed")
	}

	// Calculate the expected value of the next state under the target
	// policy. Terminal states have a value of 0.
	var expectedQ float64
	if !e.nextStep.Terminal() {
		nextState := e.nextStep.Observation
		actionValues := e.target.ActionValues(nextState)
		targetProbs := mat.NewVecDense(actionValues.Len(),
			e.target.Probabilities(nextState))
		expectedQ = mat.Dot(targetProbs, actionValues)
	}

	// Create the update target
	discount := e.nextStep.Discount
	target := e.nextStep.Reward + discount*expectedQ

	// Find the current estimate of the taken action
	weights := e.weights.RowView(e.action).(*mat.VecDense)
	state := e.step.Observation
	currentEstimate := mat.Dot(weights, state)

	// Perform gradient descent: ∇weights = scale * state
	scale := e.schedule.Rate(state) * (target - currentEstimate)
	weights.AddScaledVec(weights, scale, state)

	return nil
}

// EndEpisode decays the learning rate
func (e *ESarsaLearner) EndEpisode() {
	e.schedule.EndEpisode()
}

// Weights gets and returns the weights of the learner
func (e *ESarsaLearner) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[policy.WeightsKey] = e.weights

	return weights
}

// SetWeights copies the values of weights into the weights of the
// learner, which are shared with the policies
func (e *ESarsaLearner) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[policy.WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named %q: %w",
			policy.WeightsKey, agent.ErrIncompatibleWeights)
	}

	r, c := newWeights.Dims()
	wantR, wantC := e.weights.Dims()
	if r != wantR || c != wantC {
		return fmt.Errorf("setWeights: want (%d x %d) weights, have "+
			"(%d x %d): %w", wantR, wantC, r, c, agent.ErrIncompatibleWeights)
	}

	e.weights.Copy(newWeights)
	return nil
}
