// Package envconfig provides configuration structs for configuring
// gridworld environments with default dynamics and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/environment/gridworld"
	ts "github.com/samuelfneumann/gridtransfer/timestep"
)

// Default environment parameters
const (
	DefaultNoise      float64 = 0.3
	DefaultDiscount   float64 = 0.9
	DefaultEpisodeCap int     = 1000
)

// Config implements a specific configuration of a gridworld environment
// with a Goal task
type Config struct {
	// Noise is the probability that a chosen action is replaced by a
	// random action
	Noise float64

	Discount   float64
	EpisodeCap int
}

// Default returns the default environment Config
func Default() Config {
	return Config{
		Noise:      DefaultNoise,
		Discount:   DefaultDiscount,
		EpisodeCap: DefaultEpisodeCap,
	}
}

// Validate checks that the Config describes a valid environment
func (c Config) Validate() error {
	if c.Noise < 0 || c.Noise > 1 {
		return fmt.Errorf("validate: noise must be in [0, 1], got %v",
			c.Noise)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	if c.EpisodeCap <= 0 {
		return fmt.Errorf("validate: episode cap must be positive, got %d",
			c.EpisodeCap)
	}
	return nil
}

// Create returns the environment described by the Config on the map
// stored at mapPath, as well as the first timestep of the environment.
func (c Config) Create(mapPath string, seed uint64) (env.Environment,
	ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	gw, step, err := gridworld.NewFromFile(mapPath, c.Noise, c.Discount,
		c.EpisodeCap, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return gw, step, nil
}
