// Package gridmap implements grid-world maps: the cell grid, its plain
// text file format, a random map generator, and renderers for maps.
//
// A map file holds one line per grid row with cells separated by single
// spaces. Each cell is one of the codes
//
//	0: empty
//	1: blocked
//	2: start
//	3: goal
//	4: pit
//
// A valid map has exactly one start cell and exactly one goal cell.
package gridmap

import (
	"fmt"
)

// Cell is the code stored in a single grid cell
type Cell byte

// Cell codes, as they appear in map files
const (
	Empty   Cell = '0'
	Blocked Cell = '1'
	Start   Cell = '2'
	Goal    Cell = '3'
	Pit     Cell = '4'
)

// Valid returns whether c is a known cell code
func (c Cell) Valid() bool {
	return c >= Empty && c <= Pit
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "Empty"
	case Blocked:
		return "Blocked"
	case Start:
		return "Start"
	case Goal:
		return "Goal"
	case Pit:
		return "Pit"
	}
	return fmt.Sprintf("Cell(%q)", byte(c))
}

// Coord is a (row, column) position in a Grid
type Coord struct {
	Row, Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is a rectangular grid of cells stored in row-major order. Rows is
// the length of the grid and Cols its width.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// New returns a new rows x cols Grid with all cells Empty
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("new: grid dimensions must be positive, "+
			"got (%d, %d)", rows, cols)
	}

	cells := make([]Cell, rows*cols)
	for i := range cells {
		cells[i] = Empty
	}
	return &Grid{rows: rows, cols: cols, cells: cells}, nil
}

// Dims returns the number of rows and columns in the Grid
func (g *Grid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// Len returns the total number of cells in the Grid
func (g *Grid) Len() int {
	return len(g.cells)
}

// Contains returns whether c lies within the Grid
func (g *Grid) Contains(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// At returns the cell at c. At panics if c is out of bounds.
func (g *Grid) At(c Coord) Cell {
	if !g.Contains(c) {
		panic(fmt.Sprintf("at: coordinate %v out of bounds (%d, %d)", c,
			g.rows, g.cols))
	}
	return g.cells[c.Row*g.cols+c.Col]
}

// Set stores cell at c. Set panics if c is out of bounds.
func (g *Grid) Set(c Coord, cell Cell) {
	if !g.Contains(c) {
		panic(fmt.Sprintf("set: coordinate %v out of bounds (%d, %d)", c,
			g.rows, g.cols))
	}
	g.cells[c.Row*g.cols+c.Col] = cell
}

// Index returns the row-major index of c
func (g *Grid) Index(c Coord) int {
	return c.Row*g.cols + c.Col
}

// Count returns the number of cells holding cell
func (g *Grid) Count(cell Cell) int {
	n := 0
	for _, c := range g.cells {
		if c == cell {
			n++
		}
	}
	return n
}

// Find returns the coordinates of all cells holding cell, in row-major
// order
func (g *Grid) Find(cell Cell) []Coord {
	var coords []Coord
	for i, c := range g.cells {
		if c == cell {
			coords = append(coords, Coord{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return coords
}

// Free returns the coordinates of all Empty cells
func (g *Grid) Free() []Coord {
	return g.Find(Empty)
}

// StartCell returns the coordinate of the single start cell
func (g *Grid) StartCell() (Coord, error) {
	return g.single(Start)
}

// GoalCell returns the coordinate of the single goal cell
func (g *Grid) GoalCell() (Coord, error) {
	return g.single(Goal)
}

func (g *Grid) single(cell Cell) (Coord, error) {
	coords := g.Find(cell)
	if len(coords) != 1 {
		return Coord{}, fmt.Errorf("want exactly one %v cell, have %d", cell,
			len(coords))
	}
	return coords[0], nil
}

// Validate checks that the Grid holds only known cell codes and exactly
// one start and one goal cell
func (g *Grid) Validate() error {
	for i, c := range g.cells {
		if !c.Valid() {
			return fmt.Errorf("validate: unknown cell code %q at %v",
				byte(c), Coord{Row: i / g.cols, Col: i % g.cols})
		}
	}
	if _, err := g.StartCell(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if _, err := g.GoalCell(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the Grid
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Equal returns whether two Grids have the same shape and cells
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String returns the Grid in its file format
func (g *Grid) String() string {
	return string(g.bytes())
}
