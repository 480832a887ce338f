package weights

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Copy initializes weights by copying the values of a fixed matrix.
// The source matrix is copied on construction, so later changes to it
// do not change the weights that Copy initializes.
type Copy struct {
	source *mat.Dense
}

// NewCopy returns a new Copy Initializer which initializes weights to
// the values of source
func NewCopy(source mat.Matrix) Copy {
	return Copy{mat.DenseCopyOf(source)}
}

// Initialize sets weights to the values of the source matrix. An error
// wrapping ErrShape is returned if the shapes differ.
func (c Copy) Initialize(weights *mat.Dense) error {
	if weights == nil {
		return nil
	}

	r, col := weights.Dims()
	sr, sc := c.source.Dims()
	if r != sr || col != sc {
		return fmt.Errorf("initialize: cannot copy (%d x %d) into "+
			"(%d x %d): %w", sr, sc, r, col, ErrShape)
	}

	weights.Copy(c.source)
	return nil
}
