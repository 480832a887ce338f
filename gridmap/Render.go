package gridmap

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"github.com/logrusorgru/aurora"
)

// CellSize is the side length in pixels of a single cell drawn by
// RenderPNG
const CellSize = 48

// colours of each cell type, as RGB triples in [0, 1]
var colours = map[Cell][3]float64{
	Empty:   {1.0, 1.0, 1.0},
	Blocked: {0.2, 0.2, 0.2},
	Start:   {0.2, 0.4, 0.9},
	Goal:    {0.1, 0.7, 0.2},
	Pit:     {0.8, 0.1, 0.1},
}

// Render draws the Grid onto a new drawing context, each cell a
// CellSize square coloured by its type
func (g *Grid) Render() *gg.Context {
	dc := gg.NewContext(g.cols*CellSize, g.rows*CellSize)

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			x, y := float64(c*CellSize), float64(r*CellSize)
			rgb := colours[g.At(Coord{Row: r, Col: c})]

			dc.DrawRectangle(x, y, CellSize, CellSize)
			dc.SetRGB(rgb[0], rgb[1], rgb[2])
			dc.FillPreserve()
			dc.SetRGB(0.5, 0.5, 0.5)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
	}
	return dc
}

// RenderPNG draws the Grid and saves it as a PNG image at path
func (g *Grid) RenderPNG(path string) error {
	if err := g.Render().SavePNG(path); err != nil {
		return fmt.Errorf("renderPNG: %w", err)
	}
	return nil
}

// Print writes the Grid to w, one row per line. If colour is true, each
// cell is coloured by its type.
func (g *Grid) Print(w io.Writer, colour bool) error {
	au := aurora.NewAurora(colour)

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cell := g.At(Coord{Row: r, Col: c})
			symbol := string(cell)

			var v aurora.Value
			switch cell {
			case Blocked:
				v = au.Gray(12, symbol)
			case Start:
				v = au.Blue(symbol)
			case Goal:
				v = au.Green(symbol)
			case Pit:
				v = au.Red(symbol)
			default:
				v = au.Reset(symbol)
			}

			sep := " "
			if c == g.cols-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprint(w, v, sep); err != nil {
				return err
			}
		}
	}
	return nil
}
