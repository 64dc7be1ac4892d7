package plots

import (
	"math"
	"sort"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// FeatureImportance renders feature importances as a bar chart, strongest
// first. topN limits the number of bars; zero or negative keeps them all.
func FeatureImportance(names []string, values []float64, topN int, path string) error {
	if len(values) == 0 {
		return errors.NewValueError("FeatureImportance", "empty input")
	}
	if len(names) != len(values) {
		return errors.NewDimensionError("FeatureImportance", len(values), len(names), 0)
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(values[order[a]]) > math.Abs(values[order[b]])
	})
	if topN > 0 && topN < len(order) {
		order = order[:topN]
	}

	bars := make(plotter.Values, len(order))
	labels := make([]string, len(order))
	for i, idx := range order {
		bars[i] = values[idx]
		labels[i] = names[idx]
	}

	chart, err := plotter.NewBarChart(bars, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "build bars")
	}
	chart.Color = trainColor

	p := newPlot("Feature Importance", "Feature", "Importance")
	p.Add(chart)
	p.NominalX(labels...)
	return save(p, path)
}
