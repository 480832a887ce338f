// Package report summarizes the transfer ratios of a batch of transfer
// experiments as console tables, JSON and HTML charts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/gridtransfer/transfer"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the transfer ratios of a batch and their statistics
type Summary struct {
	Ratios []transfer.Ratio
	Mean   float64
	StdErr float64
	Better int // Number of targets where transfer helped
}

// Summarize computes the summary statistics of ratios
func Summarize(ratios []transfer.Ratio) Summary {
	s := Summary{Ratios: ratios}
	if len(ratios) == 0 {
		return s
	}

	values := make([]float64, len(ratios))
	for i, r := range ratios {
		values[i] = r.Value
		if r.Value > 1 {
			s.Better++
		}
	}

	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdErr = stat.StdErr(stat.StdDev(values, nil), float64(len(values)))
	}
	return s
}

// Print writes a table of the transfer ratios to w. Ratios above 1 are
// green and ratios below 1 are red if colour is true.
func Print(w io.Writer, ratios []transfer.Ratio, colour bool) error {
	au := aurora.NewAurora(colour)
	s := Summarize(ratios)

	if _, err := fmt.Fprintf(w, "%-30s %12s %12s %8s\n", "Target",
		"Transfer", "No Transfer", "Ratio"); err != nil {
		return fmt.Errorf("print: %w", err)
	}

	for _, r := range ratios {
		value := au.Reset(fmt.Sprintf("%8.3f", r.Value))
		if r.Value > 1 {
			value = au.Green(fmt.Sprintf("%8.3f", r.Value))
		} else if r.Value < 1 {
			value = au.Red(fmt.Sprintf("%8.3f", r.Value))
		}

		_, err := fmt.Fprintf(w, "%-30s %12.4f %12.4f %v\n",
			filepath.Base(r.Target), r.WithTransfer, r.WithoutTransfer, value)
		if err != nil {
			return fmt.Errorf("print: %w", err)
		}
	}

	_, err := fmt.Fprintf(w, "%v %.3f ± %.3f  (%d/%d improved)\n",
		au.Bold("Mean Transfer Ratio:"), s.Mean, s.StdErr, s.Better,
		len(ratios))
	if err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

// WriteJSON saves the summary of ratios as JSON to path
func WriteJSON(path string, ratios []transfer.Ratio) error {
	data, err := json.MarshalIndent(Summarize(ratios), "", "\t")
	if err != nil {
		return fmt.Errorf("writeJSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writeJSON: %w", err)
	}
	return nil
}

// LoadJSON loads a summary saved by WriteJSON
func LoadJSON(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("loadJSON: %w", err)
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("loadJSON: %w", err)
	}
	return s, nil
}

// WriteHTML renders bar charts of the transfer ratios and evaluation
// scores to an HTML page at path
func WriteHTML(path string, ratios []transfer.Ratio) error {
	targets := make([]string, len(ratios))
	values := make([]opts.BarData, len(ratios))
	with := make([]opts.BarData, len(ratios))
	without := make([]opts.BarData, len(ratios))
	for i, r := range ratios {
		targets[i] = filepath.Base(r.Target)
		values[i] = opts.BarData{Value: r.Value}
		with[i] = opts.BarData{Value: r.WithTransfer}
		without[i] = opts.BarData{Value: r.WithoutTransfer}
	}

	s := Summarize(ratios)
	ratioBar := charts.NewBar()
	ratioBar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Transfer Ratio",
			Subtitle: fmt.Sprintf("Mean %.3f ± %.3f", s.Mean, s.StdErr),
		}),
	)
	ratioBar.SetXAxis(targets).AddSeries("Ratio", values)

	scoreBar := charts.NewBar()
	scoreBar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Evaluation Return"}),
	)
	scoreBar.SetXAxis(targets).
		AddSeries("Transfer", with).
		AddSeries("No Transfer", without)

	page := components.NewPage()
	page.AddCharts(ratioBar, scoreBar)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writeHTML: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("writeHTML: %w", err)
	}
	return nil
}
