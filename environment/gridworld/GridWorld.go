// Package gridworld implements 2D gridworld environments read from
// gridmap map files.
//
// The agent moves between the cells of a map in one of four directions.
// Moves off the map or into blocked cells leave the agent where it is.
// With some probability (the noise of the gridworld) the chosen action
// is replaced by an action drawn uniformly at random. Episodes end when
// the agent reaches the goal or falls into a pit, or when the episode
// step limit is reached.
package gridworld

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/gridmap"
	ts "github.com/samuelfneumann/gridtransfer/timestep"
	"gonum.org/v1/gonum/mat"
)

// Actions available in a GridWorld
const (
	Up int = iota
	Down
	Left
	Right

	NumActions
)

// moves holds the (row, column) displacement of each action
var moves = [NumActions]gridmap.Coord{
	Up:    {Row: -1, Col: 0},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
	Right: {Row: 0, Col: 1},
}

// GridWorld represents a gridworld environment
//
// Observations are the (row, column) coordinates of the agent as a
// 2-dimensional vector.
type GridWorld struct {
	environment.Task
	grid *gridmap.Grid

	noise    float64
	discount float64
	rng      *rand.Rand

	position    gridmap.Coord
	currentStep ts.TimeStep
}

// New creates a new GridWorld on the map g with task t. The noise
// parameter is the probability with which a chosen action is replaced by
// a random action. The returned GridWorld is reset and ready to use.
func New(g *gridmap.Grid, t environment.Task, noise, discount float64,
	seed uint64) (*GridWorld, ts.TimeStep, error) {
	if noise < 0 || noise > 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: noise must be in "+
			"[0, 1], got %v", noise)
	}
	if discount < 0 || discount > 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: discount must be in "+
			"[0, 1], got %v", discount)
	}
	if err := g.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	gw := &GridWorld{
		Task:     t,
		grid:     g.Clone(),
		noise:    noise,
		discount: discount,
		rng:      rand.New(rand.NewSource(seed)),
	}

	step, err := gw.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return gw, step, nil
}

// Reset resets the environment to the start state of its Task
func (g *GridWorld) Reset() (ts.TimeStep, error) {
	start := g.Start()
	pos, err := g.toCoord(start)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: invalid start state: %w", err)
	}
	g.position = pos

	step := ts.New(ts.First, 0, g.discount, g.observation(), 0)
	g.currentStep = step
	return step, nil
}

// Step takes one environmental step given action a and returns the next
// timestep and whether or not the episode has ended
func (g *GridWorld) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions must be "+
			"1-dimensional, have %d dimensions", a.Len())
	}
	action := int(a.AtVec(0))
	if action < 0 || action >= NumActions {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %d",
			action)
	}

	// Environment noise replaces the chosen action
	if g.noise > 0 && g.rng.Float64() < g.noise {
		action = g.rng.Intn(NumActions)
	}

	state := g.observation()
	g.position = g.next(g.position, action)
	nextState := g.observation()

	reward := g.GetReward(state, a, nextState)
	step := ts.New(ts.Mid, reward, g.discount, nextState,
		g.currentStep.Number+1)
	last := g.End(&step)

	g.currentStep = step
	return step, last, nil
}

// next returns the cell reached by taking action from pos
func (g *GridWorld) next(pos gridmap.Coord, action int) gridmap.Coord {
	move := moves[action]
	next := gridmap.Coord{Row: pos.Row + move.Row, Col: pos.Col + move.Col}

	if !g.grid.Contains(next) || g.grid.At(next) == gridmap.Blocked {
		return pos
	}
	return next
}

// CurrentTimeStep returns the last TimeStep generated by the GridWorld
func (g *GridWorld) CurrentTimeStep() ts.TimeStep {
	return g.currentStep
}

// Position returns the current position of the agent
func (g *GridWorld) Position() gridmap.Coord {
	return g.position
}

// Grid returns a copy of the map the GridWorld was built on
func (g *GridWorld) Grid() *gridmap.Grid {
	return g.grid.Clone()
}

// Discount returns the discount factor of the GridWorld
func (g *GridWorld) Discount() float64 {
	return g.discount
}

// Noise returns the probability of a chosen action being replaced by a
// random one
func (g *GridWorld) Noise() float64 {
	return g.noise
}

// ActionSpec returns the action specification of the environment
func (g *GridWorld) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{float64(NumActions - 1)})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (g *GridWorld) ObservationSpec() environment.Spec {
	rows, cols := g.grid.Dims()

	shape := mat.NewVecDense(2, nil)
	lowerBound := mat.NewVecDense(2, []float64{0, 0})
	upperBound := mat.NewVecDense(2, []float64{
		float64(rows - 1),
		float64(cols - 1),
	})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// DiscountSpec returns the discount specification of the environment
func (g *GridWorld) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{g.discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Discrete)
}

func (g *GridWorld) String() string {
	rows, cols := g.grid.Dims()
	str := "GridWorld | At: %v  |  Bounds: (%d, %d)  |  Noise: %.2f"
	return fmt.Sprintf(str, g.position, rows, cols, g.noise)
}

func (g *GridWorld) observation() *mat.VecDense {
	return toVec(g.position)
}

func (g *GridWorld) toCoord(v mat.Vector) (gridmap.Coord, error) {
	c, err := toCoord(v)
	if err != nil {
		return c, err
	}
	if !g.grid.Contains(c) {
		return c, fmt.Errorf("%v outside grid", c)
	}
	return c, nil
}

// toVec converts coordinates to an observation vector
func toVec(c gridmap.Coord) *mat.VecDense {
	return mat.NewVecDense(2, []float64{float64(c.Row), float64(c.Col)})
}

// toCoord converts an observation vector to coordinates
func toCoord(v mat.Vector) (gridmap.Coord, error) {
	if v.Len() != 2 {
		return gridmap.Coord{}, fmt.Errorf("observation must be "+
			"2-dimensional, have %d dimensions", v.Len())
	}
	return gridmap.Coord{Row: int(v.AtVec(0)), Col: int(v.AtVec(1))}, nil
}
