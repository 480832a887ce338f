package esarsa

import (
	"fmt"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/learningrate"
	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/utils/matutils/initializers/weights"
)

// Config represents a configuration for the ESarsa agent.
type Config struct {
	BehaviourE   float64 // epislon for behaviour policy
	TargetE      float64 // epsilon for target policy
	LearningRate float64

	DecayMode learningrate.Mode
	BoyanN0   float64
}

// CreateAgent creates the agent from the Config, with weights
// initialized by init. If init is nil, weights are initialized to zero.
func (c Config) CreateAgent(env environment.Environment,
	init weights.Initializer, seed uint64) (agent.Agent, error) {
	if init == nil {
		init = weights.NewZero()
	}
	return New(env, c, init, seed)
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.BehaviourE < 0 || c.BehaviourE > 1 {
		return fmt.Errorf("validate: behaviour epsilon must be in [0, 1], "+
			"got %v", c.BehaviourE)
	}
	if c.TargetE < 0 || c.TargetE > 1 {
		return fmt.Errorf("validate: target epsilon must be in [0, 1], "+
			"got %v", c.TargetE)
	}
	if _, err := learningrate.New(c.DecayMode, c.LearningRate,
		c.BoyanN0); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.EGreedyESarsaLinear
}
