package matutils

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMaxVec(t *testing.T) {
	v := mat.NewVecDense(4, []float64{1, 5, 5, -2})
	if i := MaxVec(v); i != 1 {
		t.Errorf("maxVec: want 1, have %d", i)
	}
}

func TestCloneWeights(t *testing.T) {
	w := map[string]*mat.Dense{
		"weights": mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		"bias":    mat.NewDense(1, 2, []float64{5, 6}),
	}

	clone := CloneWeights(w)
	if !EqualWeights(w, clone) {
		t.Fatal("cloneWeights: clone should equal original")
	}

	clone["weights"].Set(0, 0, -1)
	if w["weights"].At(0, 0) != 1 {
		t.Error("cloneWeights: modifying clone modified original")
	}
	if EqualWeights(w, clone) {
		t.Error("equalWeights: modified clone should not equal original")
	}

	if CloneWeights(nil) != nil {
		t.Error("cloneWeights: clone of nil should be nil")
	}
}
