// Package qlearning implements the linear Q-Learning algorithm with
// optional Watkins eligibility traces
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/utils/matutils"
	"github.com/samuelfneumann/gridtransfer/utils/matutils/initializers/weights"
)

// QLearning implements the Q-Learning algorithm. Actions selected by
// this algorithm will always be enumerated as (0, 1, 2, ... N) where
// N is the maximum possible action.
type QLearning struct {
	agent.Learner
	agent.Policy // Behaviour
	seed         uint64
}

// New creates a new QLearning struct with weights initialized by init
func New(env environment.Environment, config Config,
	init weights.Initializer, seed uint64) (*QLearning, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("qlearning: %w", err)
	}

	behaviour, err := policy.NewEGreedy(config.Epsilon, seed, env)
	if err != nil {
		return nil, fmt.Errorf("qlearning: invalid behaviour policy: %w",
			err)
	}

	// Initialize weights before the learner sees them
	for name, w := range behaviour.Weights() {
		if err := init.Initialize(w); err != nil {
			return nil, fmt.Errorf("qlearning: cannot initialize %q: %v: %w",
				name, err, agent.ErrIncompatibleWeights)
		}
	}

	schedule, err := config.Schedule()
	if err != nil {
		return nil, fmt.Errorf("qlearning: %w", err)
	}

	learner, err := NewQLearner(behaviour, schedule, config.Lambda)
	if err != nil {
		return nil, fmt.Errorf("qlearning: cannot create learner: %w", err)
	}

	return &QLearning{learner, behaviour, seed}, nil
}

// Save saves the weights of the agent to a gob file at path
func (q *QLearning) Save(path string) error {
	return matutils.SaveWeights(path, q.Weights())
}
