package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/gridmap"
	"gonum.org/v1/gonum/mat"
)

// SingleStart starts every episode in the same cell
type SingleStart struct {
	state gridmap.Coord
}

// NewSingleStart returns a Starter that always starts in cell c of g
func NewSingleStart(c gridmap.Coord, g *gridmap.Grid) (environment.Starter,
	error) {
	if !g.Contains(c) {
		rows, cols := g.Dims()
		return nil, fmt.Errorf("newSingleStart: start %v outside grid (%d, %d)",
			c, rows, cols)
	}
	if cell := g.At(c); cell == gridmap.Blocked {
		return nil, fmt.Errorf("newSingleStart: start %v is blocked", c)
	}
	return &SingleStart{c}, nil
}

// Start returns the starting state
func (s *SingleStart) Start() *mat.VecDense {
	return toVec(s.state)
}
