// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gridtransfer/environment"
	ts "github.com/samuelfneumann/gridtransfer/timestep"
	"github.com/samuelfneumann/gridtransfer/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Tabular wraps an environment and returns as observations one-hot
// vectors over the discretized observation space of the wrapped
// environment. Each state of the wrapped environment is mapped to
// exactly one feature.
//
// Discrete observation dimensions use one bin per integer value between
// their bounds. Continuous dimensions are split into a fixed number of
// equal-width bins.
//
// Tabular itself implements the environment.Environment interface and is
// therefore itself an environment.
type Tabular struct {
	environment.Environment
	lowerBound mat.Vector
	binLengths []float64
	bins       []int
	features   int
}

// NewTabular creates and returns a new Tabular environment wrapping env.
// The discretization argument is the number of bins used for each
// continuous observation dimension. The wrapped environment is reset.
func NewTabular(env environment.Environment,
	discretization int) (*Tabular, ts.TimeStep, error) {
	if discretization <= 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("newTabular: discretization "+
			"must be positive, got %d", discretization)
	}

	obsSpec := env.ObservationSpec()
	dims := obsSpec.Shape.Len()
	bins := make([]int, dims)
	binLengths := make([]float64, dims)
	features := 1

	for i := 0; i < dims; i++ {
		low, high := obsSpec.LowerBound.AtVec(i), obsSpec.UpperBound.AtVec(i)
		if math.IsInf(low, 0) || math.IsInf(high, 0) || high < low {
			return nil, ts.TimeStep{}, fmt.Errorf("newTabular: observation "+
				"dimension %d has invalid bounds [%v, %v]", i, low, high)
		}

		if obsSpec.Cardinality == environment.Discrete {
			bins[i] = int(high-low) + 1
			binLengths[i] = 1.0
		} else {
			bins[i] = discretization
			binLengths[i] = (high - low) / float64(discretization)
		}
		features *= bins[i]
	}

	t := &Tabular{
		Environment: env,
		lowerBound:  obsSpec.LowerBound,
		binLengths:  binLengths,
		bins:        bins,
		features:    features,
	}

	step, err := t.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newTabular: %w", err)
	}
	return t, step, nil
}

// Reset resets the environment to some starting state
func (t *Tabular) Reset() (ts.TimeStep, error) {
	step, err := t.Environment.Reset()
	if err != nil {
		return step, err
	}
	step.Observation = t.Encode(step.Observation)
	return step, nil
}

// Step takes one environmental step given action a and returns the next
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended
func (t *Tabular) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, last, err := t.Environment.Step(a)
	if err != nil {
		return step, last, err
	}
	step.Observation = t.Encode(step.Observation)
	return step, last, nil
}

// CurrentTimeStep returns the last TimeStep generated by the environment
func (t *Tabular) CurrentTimeStep() ts.TimeStep {
	step := t.Environment.CurrentTimeStep()
	step.Observation = t.Encode(step.Observation)
	return step
}

// AtGoal returns whether the one-hot encoded state is a goal state of
// the wrapped environment
func (t *Tabular) AtGoal(state mat.Matrix) bool {
	v, ok := state.(mat.Vector)
	if !ok || v.Len() != t.features {
		return false
	}
	return t.Environment.AtGoal(t.Decode(v))
}

// Index returns the index of the feature that obs maps to
func (t *Tabular) Index(obs mat.Vector) int {
	index := 0
	for i := range t.bins {
		bin := math.Floor((obs.AtVec(i) - t.lowerBound.AtVec(i)) /
			t.binLengths[i])

		// Clip bins to within bounds so that upper bounds of continuous
		// dimensions fall into the last bin
		bin = math.Min(bin, float64(t.bins[i]-1))
		bin = math.Max(bin, 0)

		index = index*t.bins[i] + int(bin)
	}
	return index
}

// Encode returns the one-hot representation of obs
func (t *Tabular) Encode(obs mat.Vector) *mat.VecDense {
	encoded := mat.NewVecDense(t.features, nil)
	encoded.SetVec(t.Index(obs), 1.0)
	return encoded
}

// Decode returns the lower corner of the bin that the one-hot vector v
// encodes
func (t *Tabular) Decode(v mat.Vector) *mat.VecDense {
	index := matutils.MaxVec(v)
	obs := mat.NewVecDense(len(t.bins), nil)

	for i := len(t.bins) - 1; i >= 0; i-- {
		bin := index % t.bins[i]
		index /= t.bins[i]
		obs.SetVec(i, t.lowerBound.AtVec(i)+float64(bin)*t.binLengths[i])
	}
	return obs
}

// Features returns the number of features in the tabular representation
func (t *Tabular) Features() int {
	return t.features
}

// ObservationSpec returns the observation specification of the
// environment
func (t *Tabular) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(t.features, nil)
	lowerBound := mat.NewVecDense(t.features, nil)
	upperBound := matutils.VecOnes(t.features)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// String returns a string representation of the Tabular environment
func (t *Tabular) String() string {
	return fmt.Sprintf("Tabular(%d features): %v", t.features, t.Environment)
}
