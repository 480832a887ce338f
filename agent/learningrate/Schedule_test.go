package learningrate

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestBoyan(t *testing.T) {
	b := NewBoyan(0.1, 100)
	oneHot := mat.NewVecDense(4, []float64{0, 1, 0, 0})

	// At episode 0: 0.1 * 101 / (100 + 1) = 0.1
	if r := b.Rate(oneHot); math.Abs(r-0.1) > 1e-12 {
		t.Errorf("rate: want 0.1, have %v", r)
	}

	b.EndEpisode()
	want := 0.1 * 101 / (100 + math.Pow(2, 1.1))
	if r := b.Rate(oneHot); math.Abs(r-want) > 1e-12 {
		t.Errorf("rate: want %v, have %v", want, r)
	}

	// Rates are divided by the L1 norm of the features
	twoHot := mat.NewVecDense(4, []float64{0, 1, -1, 0})
	if r := b.Rate(twoHot); math.Abs(r-want/2) > 1e-12 {
		t.Errorf("rate: want %v, have %v", want/2, r)
	}

	prev := b.Rate(oneHot)
	for i := 0; i < 50; i++ {
		b.EndEpisode()
		r := b.Rate(oneHot)
		if r >= prev {
			t.Fatalf("rate: should decay, episode %d had %v >= %v",
				b.Episodes(), r, prev)
		}
		prev = r
	}
}

func TestNew(t *testing.T) {
	s, err := New(ConstantMode, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	s.EndEpisode()
	if r := s.Rate(mat.NewVecDense(2, []float64{1, 1})); r != 0.5 {
		t.Errorf("rate: want 0.5, have %v", r)
	}

	if _, err := New(BoyanMode, 0.1, 100); err != nil {
		t.Error(err)
	}
	if _, err := New(BoyanMode, 0.1, 0); err == nil {
		t.Error("new: expected error for zero N0")
	}
	if _, err := New("dabney", 0.1, 100); err == nil {
		t.Error("new: expected error for unknown mode")
	}
	if _, err := New(ConstantMode, 0, 0); err == nil {
		t.Error("new: expected error for zero learning rate")
	}
}
