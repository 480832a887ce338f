// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import "gonum.org/v1/gonum/mat"

// MaxVec finds and returns the index of the maximum value in a vector.
// If multiple equal max values exist, only the first one is returned.
func MaxVec(values mat.Vector) int {
	max, idx := values.AtVec(0), 0

	for i := 1; i < values.Len(); i++ {
		if values.AtVec(i) > max {
			max = values.AtVec(i)
			idx = i
		}
	}
	return idx
}

// VecOnes returns a vector of 1.0's
func VecOnes(length int) *mat.VecDense {
	oneSlice := make([]float64, length)
	for i := 0; i < length; i++ {
		oneSlice[i] = 1.0
	}
	return mat.NewVecDense(length, oneSlice)
}

// CloneWeights returns a deep copy of a map of named weights. Changes to
// the returned matrices do not affect the originals and vice versa.
func CloneWeights(weights map[string]*mat.Dense) map[string]*mat.Dense {
	if weights == nil {
		return nil
	}

	clone := make(map[string]*mat.Dense, len(weights))
	for name, w := range weights {
		clone[name] = mat.DenseCopyOf(w)
	}
	return clone
}

// EqualWeights returns whether two maps of named weights hold the same
// names with matrices of equal shape and values
func EqualWeights(a, b map[string]*mat.Dense) bool {
	if len(a) != len(b) {
		return false
	}
	for name, w := range a {
		other, ok := b[name]
		if !ok || !mat.Equal(w, other) {
			return false
		}
	}
	return true
}
