package qlearning

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/learningrate"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gridtransfer/timestep"
	"gonum.org/v1/gonum/mat"
)

// QLearner implements the update functionality for the Q-Learning
// algorithm.
//
// When lambda > 0, Watkins accumulating eligibility traces are kept.
// Traces are cleared at the start and end of each episode and whenever
// an exploratory action is taken.
type QLearner struct {
	behaviour *policy.EGreedy
	weights   *mat.Dense
	trace     *mat.Dense

	step     timestep.TimeStep
	action   int
	nextStep timestep.TimeStep

	schedule learningrate.Schedule
	lambda   float64
}

// NewQLearner creates a new QLearner struct which updates the weights
// of the behaviour policy
func NewQLearner(behaviour *policy.EGreedy, schedule learningrate.Schedule,
	lambda float64) (*QLearner, error) {
	if lambda < 0 || lambda > 1 {
		return nil, fmt.Errorf("newQLearner: lambda must be in [0, 1], "+
			"got %v", lambda)
	}

	weights, ok := behaviour.Weights()[policy.WeightsKey]
	if !ok {
		return nil, fmt.Errorf("newQLearner: policy has no weights named %q",
			policy.WeightsKey)
	}

	var trace *mat.Dense
	if lambda > 0 {
		trace = mat.NewDense(weights.RawMatrix().Rows,
			weights.RawMatrix().Cols, nil)
	}

	return &QLearner{
		behaviour: behaviour,
		weights:   weights,
		trace:     trace,
		schedule:  schedule,
		lambda:    lambda,
	}, nil
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "Warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)\n",
			t.Number)
	}
	q.step = timestep.TimeStep{}
	q.nextStep = t
	q.clearTrace()
	return nil
}

// Observe observes and records any timestep other than the first timestep
func (q *QLearner) Observe(action mat.Vector,
	nextStep timestep.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods cannot have "+
			"multi-dimensional actions (action dim = %d)", action.Len())
	}
	q.step = q.nextStep
	q.action = int(action.AtVec(0))
	q.nextStep = nextStep
	return nil
}

// TdError returns the TD error of the last observed transition
func (q *QLearner) TdError() (float64, error) {
	if q.step.Observation == nil || q.nextStep.Observation == nil {
		return 0, fmt.Errorf("tdError: no transition observed")
	}

	// Find the maximum action value in the next state. Terminal states
	// have a value of 0.
	var maxVal float64
	if !q.nextStep.Terminal() {
		maxVal = mat.Max(q.behaviour.ActionValues(q.nextStep.Observation))
	}

	// Create the update target
	discount := q.nextStep.Discount
	target := q.nextStep.Reward + discount*maxVal

	// Find the current estimate of the taken action
	weights := q.weights.RowView(q.action)
	currentEstimate := mat.Dot(weights, q.step.Observation)

	return target - currentEstimate, nil
}

// Step updates the weights of the Agent's Learner and Policy
func (q *QLearner) Step() error {
	tdError, err := q.TdError()
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	state := q.step.Observation
	scale := q.schedule.Rate(state) * tdError

	if q.trace == nil {
		// Perform gradient descent: ∇weights = scale * state
		row := q.weights.RowView(q.action).(*mat.VecDense)
		row.AddScaledVec(row, scale, state)
		return nil
	}

	// An exploratory action cuts the trace before it is credited, so
	// earlier state-action pairs are not updated through it
	actionValues := q.behaviour.ActionValues(state)
	if actionValues.AtVec(q.action) == mat.Max(actionValues) {
		q.trace.Scale(q.nextStep.Discount*q.lambda, q.trace)
	} else {
		q.clearTrace()
	}
	traceRow := q.trace.RowView(q.action).(*mat.VecDense)
	traceRow.AddVec(traceRow, state)

	q.weights.Add(q.weights, scaled(scale, q.trace))

	if q.nextStep.Last() {
		q.clearTrace()
	}
	return nil
}

// EndEpisode decays the learning rate and clears eligibility traces
func (q *QLearner) EndEpisode() {
	q.schedule.EndEpisode()
	q.clearTrace()
}

// Weights gets and returns the weights of the learner
func (q *QLearner) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[policy.WeightsKey] = q.weights

	return weights
}

// SetWeights copies the values of weights into the weights of the
// learner, which are shared with the policy
func (q *QLearner) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[policy.WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named %q: %w",
			policy.WeightsKey, agent.ErrIncompatibleWeights)
	}

	r, c := newWeights.Dims()
	wantR, wantC := q.weights.Dims()
	if r != wantR || c != wantC {
		return fmt.Errorf("setWeights: want (%d x %d) weights, have "+
			"(%d x %d): %w", wantR, wantC, r, c, agent.ErrIncompatibleWeights)
	}

	q.weights.Copy(newWeights)
	return nil
}

func (q *QLearner) clearTrace() {
	if q.trace != nil {
		q.trace.Zero()
	}
}

func scaled(s float64, m mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Scale(s, m)
	return &out
}
