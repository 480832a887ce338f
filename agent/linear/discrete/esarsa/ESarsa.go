// Package esarsa implements the Expected Sarsa algorithm
package esarsa

import (
	"fmt"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/learningrate"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/utils/matutils"
	"github.com/samuelfneumann/gridtransfer/utils/matutils/initializers/weights"
)

// ESarsa implements the online Expected Sarsa algorithm. Actions selected by
// this algorithm will always be enumerated as (0, 1, 2, ... N) where
// N is the maximum possible action.
type ESarsa struct {
	agent.Learner
	agent.Policy // Behaviour
	Target       agent.Policy
	seed         uint64
}

// New creates a new ESarsa struct with weights initialized by init
func New(env environment.Environment, config Config,
	init weights.Initializer, seed uint64) (*ESarsa, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("esarsa: %w", err)
	}

	behaviour, err := policy.NewEGreedy(config.BehaviourE, seed, env)
	if err != nil {
		return nil, fmt.Errorf("esarsa: invalid behaviour policy: %w", err)
	}

	// Both policies and the learner act on the same weights
	target, err := policy.NewSharedEGreedy(config.TargetE, seed, behaviour)
	if err != nil {
		return nil, fmt.Errorf("esarsa: invalid target policy: %w", err)
	}

	for name, w := range behaviour.Weights() {
		if err := init.Initialize(w); err != nil {
			return nil, fmt.Errorf("esarsa: cannot initialize %q: %v: %w",
				name, err, agent.ErrIncompatibleWeights)
		}
	}

	schedule, err := learningrate.New(config.DecayMode, config.LearningRate,
		config.BoyanN0)
	if err != nil {
		return nil, fmt.Errorf("esarsa: %w", err)
	}

	learner, err := NewESarsaLearner(target, schedule)
	if err != nil {
		return nil, fmt.Errorf("esarsa: cannot create learner: %w", err)
	}

	return &ESarsa{learner, behaviour, target, seed}, nil
}

// Save saves the weights of the agent to a gob file at path
func (e *ESarsa) Save(path string) error {
	return matutils.SaveWeights(path, e.Weights())
}
