package gridmap

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// bytes encodes the Grid in the map file format
func (g *Grid) bytes() []byte {
	var buf bytes.Buffer
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteByte(byte(g.cells[r*g.cols+c]))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Write writes the Grid to w in the map file format
func (g *Grid) Write(w io.Writer) error {
	_, err := w.Write(g.bytes())
	return err
}

// WriteFile writes the Grid to the file at path, creating or truncating
// it
func (g *Grid) WriteFile(path string) error {
	if err := os.WriteFile(path, g.bytes(), 0o644); err != nil {
		return fmt.Errorf("writeFile: could not write grid: %w", err)
	}
	return nil
}

// Parse reads a Grid in the map file format from r. Blank lines are
// ignored and cells may be separated by any amount of whitespace. Parse
// only checks that the grid is rectangular and holds known cell codes;
// use Validate to check start and goal cells.
func Parse(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)

	var rows [][]Cell
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		row := make([]Cell, len(fields))
		for i, f := range fields {
			if len(f) != 1 || !Cell(f[0]).Valid() {
				return nil, fmt.Errorf("parse: line %d: unknown cell code %q",
					line, f)
			}
			row[i] = Cell(f[0])
		}

		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("parse: line %d: have %d cells, want %d",
				line, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse: empty grid")
	}

	g, err := New(len(rows), len(rows[0]))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	for r, row := range rows {
		copy(g.cells[r*g.cols:], row)
	}
	return g, nil
}

// ReadFile reads and validates the map file at path
func ReadFile(path string) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readFile: could not open map: %w", err)
	}
	defer file.Close()

	g, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("readFile: %v: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("readFile: %v: %w", path, err)
	}
	return g, nil
}
