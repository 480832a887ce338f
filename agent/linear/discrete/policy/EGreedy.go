// Package policy implements policies using linear function
// approximation
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/timestep"
	"github.com/samuelfneumann/gridtransfer/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	WeightsKey string = "weights"
)

// EGreedy implements an ε-greedy policy using linear function
// approximation. Ties between greedy actions are broken uniformly at
// random. In evaluation mode the policy acts greedily.
type EGreedy struct {
	weights *mat.Dense
	epsilon float64
	eval    bool

	source rand.Source
	rng    *rand.Rand
}

// NewEGreedy constructs a new EGreedy policy, where e=epislon is the
// probability with which a random action is selected. The policy has one
// row of weights per action of env and one column per feature of env's
// observations.
func NewEGreedy(e float64, seed uint64,
	env environment.Environment) (*EGreedy, error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon must be in [0, 1], "+
			"got %v", e)
	}

	actions, err := env.ActionSpec().NumActions()
	if err != nil {
		return nil, fmt.Errorf("newEGreedy: %w", err)
	}
	features := env.ObservationSpec().Shape.Len()

	// Create the weight matrix: rows = actions, cols = features
	weights := mat.NewDense(actions, features, nil)

	source := rand.NewSource(seed)
	return &EGreedy{
		weights: weights,
		epsilon: e,
		source:  source,
		rng:     rand.New(source),
	}, nil
}

// NewSharedEGreedy returns an ε-greedy policy with exploration
// probability e which acts on the same weight matrix as shared. Updates
// to the weights of either policy are seen by both.
func NewSharedEGreedy(e float64, seed uint64, shared *EGreedy) (*EGreedy,
	error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newSharedEGreedy: epsilon must be in "+
			"[0, 1], got %v", e)
	}

	source := rand.NewSource(seed)
	return &EGreedy{
		weights: shared.weights,
		epsilon: e,
		source:  source,
		rng:     rand.New(source),
	}, nil
}

// Weights gets and returns the weights of the EGreedy policy as a
// string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SetWeights copies the values of weights into the weights of the
// policy. The policy never keeps a reference to the argument matrices.
func (p *EGreedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named %q: %w", WeightsKey,
			agent.ErrIncompatibleWeights)
	}

	r, c := newWeights.Dims()
	wantR, wantC := p.weights.Dims()
	if r != wantR || c != wantC {
		return fmt.Errorf("setWeights: want (%d x %d) weights, have "+
			"(%d x %d): %w", wantR, wantC, r, c, agent.ErrIncompatibleWeights)
	}

	p.weights.Copy(newWeights)
	return nil
}

// ActionValues returns the value of each action for observation obs
func (p *EGreedy) ActionValues(obs mat.Vector) *mat.VecDense {
	numActions, _ := p.weights.Dims()
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, obs)
	return actionValues
}

// Greedy returns a greedy action for observation obs, breaking ties
// uniformly at random
func (p *EGreedy) Greedy(obs mat.Vector) int {
	actionValues := p.ActionValues(obs)
	_, greedy := floatutils.MaxSlice(actionValues.RawVector().Data)

	if len(greedy) == 1 {
		return greedy[0]
	}
	return greedy[p.rng.Intn(len(greedy))]
}

// Probabilities returns the probability of selecting each action in
// observation obs. All greedy actions share the greedy probability mass.
func (p *EGreedy) Probabilities(obs mat.Vector) []float64 {
	e := p.Epsilon()
	actionValues := p.ActionValues(obs)
	numActions := actionValues.Len()
	_, greedy := floatutils.MaxSlice(actionValues.RawVector().Data)

	// Calculate the ε probability of choosing any action at random
	prob := e / float64(numActions)
	actionProbabilities := make([]float64, numActions)
	for i := range actionProbabilities {
		actionProbabilities[i] = prob
	}

	greedyProb := (1.0 - e) / float64(len(greedy))
	for _, i := range greedy {
		actionProbabilities[i] += greedyProb
	}
	return actionProbabilities
}

// SelectAction selects and action from an ε-greedy policy
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := t.Observation

	greedy := p.Greedy(obs)
	e := p.Epsilon()
	if e == 0 {
		return mat.NewVecDense(1, []float64{float64(greedy)})
	}

	numActions, _ := p.weights.Dims()

	// Calculate the ε probability of choosing any action at random
	prob := e / float64(numActions)
	actionProbabilites := make([]float64, numActions)
	for i := 0; i < numActions; i++ {
		actionProbabilites[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilites[greedy] += (1.0 - e)

	// Construct a categorical distribution over actions using action
	// probabilities
	dist := distuv.NewCategorical(actionProbabilites, p.source)

	// Sample an action given the action probabilites and return
	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Epsilon returns the exploration probability currently in use
func (p *EGreedy) Epsilon() float64 {
	if p.eval {
		return 0.0
	}
	return p.epsilon
}

// Eval sets the policy to evaluation mode, in which it acts greedily
func (p *EGreedy) Eval() {
	p.eval = true
}

// Train sets the policy to training mode
func (p *EGreedy) Train() {
	p.eval = false
}

// IsEval indicates whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool {
	return p.eval
}
