package experiment

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/esarsa"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/qlearning"
	"github.com/samuelfneumann/gridtransfer/environment/envconfig"
)

// Config represents a configuration of an online experiment. A Config
// holds every hyperparameter of the environment, representation, agent
// and experiment so that runs are fully described by it.
type Config struct {
	// Algorithm selects the agent, either Q-Learning or Expected Sarsa.
	// Both agents are configured through AgentConf.
	Algorithm agent.Type
	EnvConf   envconfig.Config
	AgentConf qlearning.Config

	// Discretization is the number of bins per continuous observation
	// dimension of the tabular representation
	Discretization int

	MaxSteps        int
	NumPolicyChecks int
	ChecksPerPolicy int

	// EvaluationTrials is the number of greedy episodes averaged when
	// computing transfer ratios
	EvaluationTrials int

	ResultsDir      string
	Plot            bool
	CheckpointEvery int // 0 disables checkpointing

	// Seed is the base seed. Each run is seeded with Seed + run ID.
	Seed uint64
}

// Default returns the default experiment Config
func Default() Config {
	return Config{
		Algorithm:        agent.EGreedyQLearningLinear,
		EnvConf:          envconfig.Default(),
		AgentConf:        qlearning.Default(),
		Discretization:   20,
		MaxSteps:         10000,
		NumPolicyChecks:  1,
		ChecksPerPolicy:  10,
		EvaluationTrials: 10,
		ResultsDir:       "./Results",
		Plot:             true,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if !c.Algorithm.Valid() {
		return fmt.Errorf("validate: no such algorithm %q", c.Algorithm)
	}
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("validate: environment: %w", err)
	}
	if err := c.AgentConfig().Validate(); err != nil {
		return fmt.Errorf("validate: agent: %w", err)
	}
	if c.Discretization <= 0 {
		return fmt.Errorf("validate: discretization must be positive, "+
			"got %d", c.Discretization)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("validate: max steps cannot be negative, got %d",
			c.MaxSteps)
	}
	if c.NumPolicyChecks <= 0 {
		return fmt.Errorf("validate: number of policy checks must be "+
			"positive, got %d", c.NumPolicyChecks)
	}
	if c.ChecksPerPolicy <= 0 {
		return fmt.Errorf("validate: checks per policy must be positive, "+
			"got %d", c.ChecksPerPolicy)
	}
	if c.EvaluationTrials <= 0 {
		return fmt.Errorf("validate: evaluation trials must be positive, "+
			"got %d", c.EvaluationTrials)
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("validate: checkpoint interval cannot be "+
			"negative, got %d", c.CheckpointEvery)
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("validate: no results directory")
	}
	return nil
}

// AgentConfig returns the agent Config for the configured Algorithm.
// Expected Sarsa uses the same ε for its behaviour and target policies.
func (c Config) AgentConfig() agent.Config {
	a := c.AgentConf
	if c.Algorithm == agent.EGreedyESarsaLinear {
		return esarsa.Config{
			BehaviourE:   a.Epsilon,
			TargetE:      a.Epsilon,
			LearningRate: a.LearningRate,
			DecayMode:    a.DecayMode,
			BoyanN0:      a.BoyanN0,
		}
	}
	return a
}

// LoadConfig loads a JSON Config from path. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	return c, nil
}

// Save saves the Config as JSON to path
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
