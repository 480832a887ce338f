package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/gridtransfer/environment"
	"github.com/samuelfneumann/gridtransfer/gridmap"
	ts "github.com/samuelfneumann/gridtransfer/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default rewards of the Goal task
const (
	GoalReward float64 = 1.0
	PitReward  float64 = -1.0
	StepReward float64 = -0.001
)

// Goal represents the task of reaching the goal cell of a map without
// falling into a pit. Reaching the goal or a pit ends the episode in an
// absorbing state.
type Goal struct {
	environment.Starter
	grid      *gridmap.Grid
	stepLimit environment.Ender

	goalReward, pitReward, stepReward float64
}

// NewGoal returns a new Goal task on map g. Episodes start in the start
// cell of the map and are cut off after cutoff steps.
func NewGoal(g *gridmap.Grid, cutoff int) (*Goal, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("newGoal: cutoff must be positive, got %d",
			cutoff)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("newGoal: %w", err)
	}

	start, err := g.StartCell()
	if err != nil {
		return nil, fmt.Errorf("newGoal: %w", err)
	}
	starter, err := NewSingleStart(start, g)
	if err != nil {
		return nil, fmt.Errorf("newGoal: %w", err)
	}

	return &Goal{
		Starter:    starter,
		grid:       g.Clone(),
		stepLimit:  environment.NewStepLimit(cutoff),
		goalReward: GoalReward,
		pitReward:  PitReward,
		stepReward: StepReward,
	}, nil
}

// GetReward returns the reward for transitioning into nextState
func (g *Goal) GetReward(_, _, nextState mat.Vector) float64 {
	switch g.cellOf(nextState) {
	case gridmap.Goal:
		return g.goalReward
	case gridmap.Pit:
		return g.pitReward
	}
	return g.stepReward
}

// AtGoal returns whether state is the goal cell
func (g *Goal) AtGoal(state mat.Matrix) bool {
	v, ok := state.(mat.Vector)
	if !ok {
		return false
	}
	return g.cellOf(v) == gridmap.Goal
}

// End determines whether the episode has ended, either by reaching an
// absorbing goal or pit cell, or by reaching the step limit
func (g *Goal) End(t *ts.TimeStep) bool {
	if cell := g.cellOf(t.Observation); cell == gridmap.Goal ||
		cell == gridmap.Pit {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return g.stepLimit.End(t)
}

// Min returns the minimum reward attainable in the Task
func (g *Goal) Min() float64 {
	return floats.Min([]float64{g.goalReward, g.pitReward, g.stepReward})
}

// Max returns the maximum reward attainable in the Task
func (g *Goal) Max() float64 {
	return floats.Max([]float64{g.goalReward, g.pitReward, g.stepReward})
}

func (g *Goal) String() string {
	goal, _ := g.grid.GoalCell()
	return fmt.Sprintf("Goal | At: %v  |  Pits: %d", goal,
		g.grid.Count(gridmap.Pit))
}

// cellOf returns the cell type of an observation, or Empty if the
// observation lies outside the map
func (g *Goal) cellOf(v mat.Vector) gridmap.Cell {
	c, err := toCoord(v)
	if err != nil || !g.grid.Contains(c) {
		return gridmap.Empty
	}
	return g.grid.At(c)
}

// NewFromFile creates a GridWorld with a Goal task from the map file at
// path
func NewFromFile(path string, noise, discount float64, cutoff int,
	seed uint64) (*GridWorld, ts.TimeStep, error) {
	g, err := gridmap.ReadFile(path)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newFromFile: %w", err)
	}

	task, err := NewGoal(g, cutoff)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newFromFile: %w", err)
	}

	return New(g, task, noise, discount, seed)
}
