package experiment

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot saves a learning curve of the performance checks of the
// experiment to path. The image format is determined by the extension
// of path.
func (o *Online) Plot(path string) error {
	checks := o.Checks()
	if len(checks) == 0 {
		return fmt.Errorf("plot: no performance checks to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Run %03d", o.id)
	p.X.Label.Text = "Learning Steps"
	p.Y.Label.Text = "Average Return"

	pts := make(plotter.XYs, len(checks))
	for i, check := range checks {
		pts[i].X = float64(check.Steps)
		pts[i].Y = check.Return
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("plot: could not create line plotter: %w", err)
	}

	p.Add(line, points, plotter.NewGrid())
	p.Legend.Add("Return", line, points)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: could not save plot: %w", err)
	}
	return nil
}
