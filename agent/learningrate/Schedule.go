// Package learningrate implements learning rate schedules for linear
// value-based learners
package learningrate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Mode names a learning rate schedule
type Mode string

const (
	ConstantMode Mode = "const"
	BoyanMode    Mode = "boyan"
)

// Schedule determines the step size of each update
type Schedule interface {
	// Rate returns the learning rate for an update on features
	Rate(features mat.Vector) float64

	// EndEpisode informs the schedule that an episode has ended
	EndEpisode()
}

// New returns the Schedule named by mode with initial learning rate
// initial. The n0 argument is only used by the Boyan schedule.
func New(mode Mode, initial, n0 float64) (Schedule, error) {
	if initial <= 0 {
		return nil, fmt.Errorf("new: learning rate must be positive, got %v",
			initial)
	}

	switch mode {
	case ConstantMode, "":
		return NewConstant(initial), nil

	case BoyanMode:
		if n0 <= 0 {
			return nil, fmt.Errorf("new: boyan N0 must be positive, got %v",
				n0)
		}
		return NewBoyan(initial, n0), nil
	}

	return nil, fmt.Errorf("new: no such learning rate schedule %q", mode)
}

// Constant is a Schedule with a fixed learning rate
type Constant struct {
	rate float64
}

// NewConstant returns a new Constant schedule
func NewConstant(rate float64) *Constant {
	return &Constant{rate}
}

// Rate returns the learning rate
func (c *Constant) Rate(mat.Vector) float64 {
	return c.rate
}

// EndEpisode does nothing for a Constant schedule
func (c *Constant) EndEpisode() {}

// Boyan decays the learning rate with the number of completed episodes:
//
//	α = α₀ (N₀ + 1) / (N₀ + (episodes + 1)^1.1)
//
// The learning rate of each update is further divided by the L1 norm of
// the features being updated.
type Boyan struct {
	initial  float64
	n0       float64
	episodes int
}

// NewBoyan returns a new Boyan schedule
func NewBoyan(initial, n0 float64) *Boyan {
	return &Boyan{initial: initial, n0: n0}
}

// Rate returns the learning rate for an update on features
func (b *Boyan) Rate(features mat.Vector) float64 {
	rate := b.initial * (b.n0 + 1) /
		(b.n0 + math.Pow(float64(b.episodes)+1, 1.1))

	norm := floats.Norm(mat.Col(nil, 0, features), 1)
	if norm == 0 {
		return rate
	}
	return rate / norm
}

// EndEpisode increments the episode count
func (b *Boyan) EndEpisode() {
	b.episodes++
}

// Episodes returns the number of episodes the schedule has seen
func (b *Boyan) Episodes() int {
	return b.episodes
}
