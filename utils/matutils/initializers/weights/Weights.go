// Package weights defines interfaces and implementations for weight
// initializations
package weights

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when an Initializer cannot fill a matrix of the
// given shape
var ErrShape = errors.New("incompatible weight shape")

// Initializer initializes weights
type Initializer interface {
	Initialize(weights *mat.Dense) error // initializes weights in place
}
