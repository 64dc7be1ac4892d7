package plots

import (
	"gonum.org/v1/plot/plotter"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// PredictionError renders predicted against actual values with the identity
// line as reference.
func PredictionError(yTrue, yPred []float64, path string) error {
	if err := validatePair("PredictionError", yTrue, yPred); err != nil {
		return err
	}

	lo, hi := yTrue[0], yTrue[0]
	for i := range yTrue {
		lo = min(lo, min(yTrue[i], yPred[i]))
		hi = max(hi, max(yTrue[i], yPred[i]))
	}

	scatter, err := plotter.NewScatter(xys(yTrue, yPred))
	if err != nil {
		return errors.Wrap(err, "build scatter")
	}
	scatter.Color = trainColor

	p := newPlot("Prediction Error", "Actual", "Predicted")
	if err := addDiagonal(p, lo, hi); err != nil {
		return err
	}
	p.Add(scatter)
	return save(p, path)
}

// Residuals renders residuals against predicted values.
func Residuals(yTrue, yPred []float64, path string) error {
	if err := validatePair("Residuals", yTrue, yPred); err != nil {
		return err
	}

	residuals := make([]float64, len(yTrue))
	for i := range yTrue {
		residuals[i] = yTrue[i] - yPred[i]
	}

	scatter, err := plotter.NewScatter(xys(yPred, residuals))
	if err != nil {
		return errors.Wrap(err, "build scatter")
	}
	scatter.Color = trainColor

	zero, err := plotter.NewLine(plotter.XYs{
		{X: minOf(yPred), Y: 0},
		{X: maxOf(yPred), Y: 0},
	})
	if err != nil {
		return errors.Wrap(err, "build zero line")
	}
	zero.Color = baselineColor

	p := newPlot("Residuals", "Predicted", "Residual")
	p.Add(zero, scatter)
	return save(p, path)
}

// CooksDistance renders the influence of each sample, with the conventional
// 4/n threshold line.
func CooksDistance(distances []float64, path string) error {
	if len(distances) == 0 {
		return errors.NewValueError("CooksDistance", "empty input")
	}

	pts := make(plotter.XYs, len(distances))
	for i, d := range distances {
		pts[i].X = float64(i)
		pts[i].Y = d
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "build scatter")
	}
	scatter.Color = trainColor

	threshold := 4.0 / float64(len(distances))
	limit, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: threshold},
		{X: float64(len(distances) - 1), Y: threshold},
	})
	if err != nil {
		return errors.Wrap(err, "build threshold line")
	}
	limit.Color = holdoutColor

	p := newPlot("Cooks Distance", "Sample Index", "Distance")
	p.Add(scatter, limit)
	p.Legend.Add("4/n threshold", limit)
	return save(p, path)
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v {
		m = min(m, x)
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v {
		m = max(m, x)
	}
	return m
}
