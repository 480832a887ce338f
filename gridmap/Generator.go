package gridmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/rand"
)

var (
	// ErrInsufficientCells is returned when more cells are requested
	// than there are empty cells left in the grid
	ErrInsufficientCells = errors.New("insufficient free cells")

	// ErrStartIsGoal is returned when the fixed start and goal cells
	// coincide
	ErrStartIsGoal = errors.New("start and goal cells coincide")
)

// attemptsPerCell bounds rejection sampling. After
// attemptsPerCell * (rows * cols) misses in a row, the next cell is drawn
// directly from the remaining free cells.
const attemptsPerCell = 8

// Params describes a random grid. Start and Goal are fixed positions;
// when nil they are chosen uniformly at random among empty cells.
//
// The generator does not guarantee that a path exists from start to
// goal. Keep the number of blocked cells and pits small with respect
// to the size of the grid so that one likely does.
type Params struct {
	Rows, Cols  int
	Start, Goal *Coord
	Blocked     int
	Pits        int
}

// Validate checks that the Params describe a grid that can be generated
func (p Params) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got (%d, %d)",
			p.Rows, p.Cols)
	}
	if p.Blocked < 0 || p.Pits < 0 {
		return fmt.Errorf("blocked (%d) and pit (%d) counts cannot be "+
			"negative", p.Blocked, p.Pits)
	}

	bounds := Coord{Row: p.Rows, Col: p.Cols}
	for name, c := range map[string]*Coord{"start": p.Start, "goal": p.Goal} {
		if c == nil {
			continue
		}
		if c.Row < 0 || c.Row >= bounds.Row || c.Col < 0 || c.Col >= bounds.Col {
			return fmt.Errorf("%v %v outside grid of shape (%d, %d)", name,
				*c, p.Rows, p.Cols)
		}
	}
	if p.Start != nil && p.Goal != nil && *p.Start == *p.Goal {
		return fmt.Errorf("%w at %v", ErrStartIsGoal, *p.Start)
	}

	if need := p.Blocked + p.Pits + 2; need > p.Rows*p.Cols {
		return fmt.Errorf("%w: need %d cells, grid has %d",
			ErrInsufficientCells, need, p.Rows*p.Cols)
	}
	return nil
}

// Placement records where the generator placed the special cells of a
// grid. LastBlocked and LastPit are the most recently placed blocked
// and pit cells, or nil if none were placed.
type Placement struct {
	Start, Goal          Coord
	LastBlocked, LastPit *Coord
}

// LaTeX returns the Placement as a row of a LaTeX table
func (p Placement) LaTeX() string {
	coord := func(c *Coord) string {
		if c == nil {
			return "-"
		}
		return c.String()
	}

	return fmt.Sprintf("%v & %v & %v & %v \\\\ \\hline", p.Start, p.Goal,
		coord(p.LastBlocked), coord(p.LastPit))
}

// NewRandom returns a new random grid described by p, using rng as the
// source of randomness
func NewRandom(p Params, rng *rand.Rand) (*Grid, Placement, error) {
	if err := p.Validate(); err != nil {
		return nil, Placement{}, fmt.Errorf("newRandom: %w", err)
	}

	g, err := New(p.Rows, p.Cols)
	if err != nil {
		return nil, Placement{}, fmt.Errorf("newRandom: %w", err)
	}

	var placement Placement

	// Place the start and goal cells. A fixed position is assigned
	// directly, a random one is drawn among the currently empty cells.
	for _, spec := range []struct {
		fixed *Coord
		cell  Cell
		out   *Coord
	}{
		{p.Start, Start, &placement.Start},
		{p.Goal, Goal, &placement.Goal},
	} {
		c := spec.fixed
		if c == nil {
			pos, err := g.sample(rng)
			if err != nil {
				return nil, Placement{}, fmt.Errorf("newRandom: %v: %w",
					spec.cell, err)
			}
			c = &pos
		} else if g.At(*c) != Empty {
			return nil, Placement{}, fmt.Errorf("newRandom: %v: %w",
				spec.cell, ErrStartIsGoal)
		}
		g.Set(*c, spec.cell)
		*spec.out = *c
	}

	// Obstacles go on cells that are empty at the time of placement
	placement.LastBlocked, err = g.fill(Blocked, p.Blocked, rng)
	if err != nil {
		return nil, Placement{}, fmt.Errorf("newRandom: %w", err)
	}
	placement.LastPit, err = g.fill(Pit, p.Pits, rng)
	if err != nil {
		return nil, Placement{}, fmt.Errorf("newRandom: %w", err)
	}

	return g, placement, nil
}

// Generate generates a random grid described by p and writes it to the
// file at path
func Generate(path string, p Params, rng *rand.Rand) (*Grid, Placement,
	error) {
	g, placement, err := NewRandom(p, rng)
	if err != nil {
		return nil, Placement{}, fmt.Errorf("generate: %w", err)
	}

	if err := g.WriteFile(path); err != nil {
		return nil, Placement{}, fmt.Errorf("generate: %w", err)
	}
	return g, placement, nil
}

// GenerateMany generates n independent random grids described by p,
// saving them in dir as grid0.txt, grid1.txt, ... grid<n-1>.txt. The
// directory is created if it does not exist. The Placements of all
// generated grids are returned in order.
func GenerateMany(dir string, n int, p Params, rng *rand.Rand) ([]Placement,
	error) {
	if n < 0 {
		return nil, fmt.Errorf("generateMany: cannot generate %d grids", n)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("generateMany: could not create directory: %w",
			err)
	}

	placements := make([]Placement, 0, n)
	for i := 0; i < n; i++ {
		_, placement, err := Generate(Filename(dir, i), p, rng)
		if err != nil {
			return placements, fmt.Errorf("generateMany: grid %d: %w", i, err)
		}
		placements = append(placements, placement)
	}
	return placements, nil
}

// Filename returns the name of the i-th grid generated in dir
func Filename(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("grid%d%v", i, Extension))
}

// Extension is the file extension of map files
const Extension = ".txt"

// IsMapFile returns whether name has the map file extension
func IsMapFile(name string) bool {
	return strings.HasSuffix(name, Extension)
}

// fill places n cells of type cell on empty cells of the grid, returning
// the position of the last one placed
func (g *Grid) fill(cell Cell, n int, rng *rand.Rand) (*Coord, error) {
	var last *Coord
	for i := 0; i < n; i++ {
		c, err := g.sample(rng)
		if err != nil {
			return last, fmt.Errorf("%v %d of %d: %w", cell, i+1, n, err)
		}
		g.Set(c, cell)
		last = &c
	}
	return last, nil
}

// sample draws a uniformly random empty cell by rejection sampling over
// all coordinates. The number of rejections is bounded; once the bound
// is reached the cell is drawn uniformly from the free cells, which
// yields the same distribution.
func (g *Grid) sample(rng *rand.Rand) (Coord, error) {
	if g.Count(Empty) == 0 {
		return Coord{}, ErrInsufficientCells
	}

	for attempt := 0; attempt < attemptsPerCell*g.Len(); attempt++ {
		c := Coord{Row: rng.Intn(g.rows), Col: rng.Intn(g.cols)}
		if g.At(c) == Empty {
			return c, nil
		}
	}

	free := g.Free()
	return free[rng.Intn(len(free))], nil
}
