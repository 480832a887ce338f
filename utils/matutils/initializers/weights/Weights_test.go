package weights

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestZero(t *testing.T) {
	w := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})
	if err := NewZero().Initialize(w); err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(w, mat.NewDense(3, 4, nil)) {
		t.Errorf("initialize: want zeros, have %v", mat.Formatted(w))
	}
}

func TestLinearUV(t *testing.T) {
	src := rand.NewSource(1)
	init := NewLinearUV(distuv.Uniform{Min: 1, Max: 2, Src: src})

	w := mat.NewDense(2, 3, nil)
	if err := init.Initialize(w); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if v := w.At(i, j); v < 1 || v > 2 {
				t.Errorf("initialize: (%d, %d) = %v outside [1, 2]", i, j, v)
			}
		}
	}
}

func TestCopy(t *testing.T) {
	source := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	init := NewCopy(source)

	// Changing the source after construction has no effect
	source.Set(0, 0, 100)

	w := mat.NewDense(2, 2, nil)
	if err := init.Initialize(w); err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(w, mat.NewDense(2, 2, []float64{1, 2, 3, 4})) {
		t.Errorf("initialize: want copy of source, have %v", mat.Formatted(w))
	}

	// Initialized weights do not alias the snapshot
	w.Set(1, 1, -1)
	other := mat.NewDense(2, 2, nil)
	init.Initialize(other)
	if other.At(1, 1) != 4 {
		t.Error("initialize: weights alias the copied snapshot")
	}

	if err := init.Initialize(mat.NewDense(3, 2, nil)); !errors.Is(err,
		ErrShape) {
		t.Errorf("initialize: want ErrShape, have %v", err)
	}
}
