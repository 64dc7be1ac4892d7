// Package plots renders model analysis charts to image files using
// gonum/plot. Every function takes plain slices, computes the curve or
// summary it needs, and saves a PNG at the given path.
package plots

import (
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// Default canvas size for all charts.
const (
	defaultWidth  = 8 * vg.Inch
	defaultHeight = 6 * vg.Inch
)

var (
	trainColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	holdoutColor  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	baselineColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// newPlot builds a titled, labeled plot with a grid.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// save writes the plot as a PNG.
func save(p *plot.Plot, path string) error {
	if err := p.Save(defaultWidth, defaultHeight, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}

// xys pairs two equal-length slices into plotter points.
func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// addLine adds a named, colored line to the plot and its legend.
func addLine(p *plot.Plot, name string, pts plotter.XYs, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "build line")
	}
	line.Color = c
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

// addDiagonal adds the y=x reference line over [lo, hi].
func addDiagonal(p *plot.Plot, lo, hi float64) error {
	line, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "build reference line")
	}
	line.Color = baselineColor
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(line)
	return nil
}

// rankedByScore returns the indices of score sorted descending.
func rankedByScore(score []float64) []int {
	order := make([]int, len(score))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return score[order[a]] > score[order[b]]
	})
	return order
}

func validatePair(op string, yTrue, yScore []float64) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty input")
	}
	if len(yTrue) != len(yScore) {
		return errors.NewDimensionError(op, len(yTrue), len(yScore), 0)
	}
	return nil
}
