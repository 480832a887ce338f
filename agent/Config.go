package agent

import (
	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/utils/matutils/initializers/weights"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes, with
	// weights initialized by init
	CreateAgent(env environment.Environment, init weights.Initializer,
		seed uint64) (Agent, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	EGreedyQLearningLinear Type = "EGreedyQLearning-Linear"
	EGreedyESarsaLinear    Type = "EGreedyESarsa-Linear"
)

// Valid returns whether t names a known agent type
func (t Type) Valid() bool {
	return t == EGreedyQLearningLinear || t == EGreedyESarsaLinear
}
