package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/learningrate"
	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/utils/matutils/initializers/weights"
)

// Config represents a configuration for the QLearning agent
type Config struct {
	Epsilon      float64 // epislon for behaviour policy
	LearningRate float64 // initial learning rate

	// DecayMode selects the learning rate schedule, either "const" or
	// "boyan"
	DecayMode learningrate.Mode
	BoyanN0   float64

	// Lambda is the eligibility trace decay rate. Traces are disabled
	// when Lambda is 0.
	Lambda float64
}

// Default returns the default QLearning Config
func Default() Config {
	return Config{
		Epsilon:      0.2,
		LearningRate: 0.1,
		DecayMode:    learningrate.BoyanMode,
		BoyanN0:      100,
		Lambda:       0,
	}
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

// Schedule returns the learning rate schedule described by the Config
func (c Config) Schedule() (learningrate.Schedule, error) {
	return learningrate.New(c.DecayMode, c.LearningRate, c.BoyanN0)
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon must be in [0, 1], got %v",
			c.Epsilon)
	}
	if c.Lambda < 0 || c.Lambda > 1 {
		return fmt.Errorf("validate: lambda must be in [0, 1], got %v",
			c.Lambda)
	}
	if _, err := c.Schedule(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.EGreedyQLearningLinear
}
