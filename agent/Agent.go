// Package agent defines an agent interface
package agent

import (
	"errors"

	"github.com/samuelfneumann/gridtransfer/timestep"
	"gonum.org/v1/gonum/mat"
)

// ErrIncompatibleWeights is returned when weights cannot be set on an
// agent because they are missing or have the wrong shape, for example
// when transferring weights between maps of different sizes
var ErrIncompatibleWeights = errors.New("incompatible weights")

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
//
// A Learner determines how weights are changed, and therefore how a Policy
// changes over time. The Learner and Policy of an Agent should have pointers
// to the same weights so that the Learner can use the transitions chosen by
// the Policy to update the weights appropriately.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action mat.Vector, nextObs timestep.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode()

	// Weights returns the weights of the learner. Changes to the returned
	// matrices change the weights of the learner.
	Weights() map[string]*mat.Dense

	// SetWeights copies the values of weights into the learner's weights
	SetWeights(weights map[string]*mat.Dense) error
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Agents usually have a
// target and behaviour policy. For a given agent, the Policy and Learner
// should have pointers to the same weights so that any changes the learner
// makes to the weights are reflected in the actions the Policy chooses
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// Saver is an Agent whose weights can be saved to a file
type Saver interface {
	Agent
	Save(path string) error
}
