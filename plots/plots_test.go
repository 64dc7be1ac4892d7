package plots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSaved(t *testing.T, path string, err error) {
	t.Helper()
	require.NoError(t, err)
	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Greater(t, info.Size(), int64(0))
}

func TestClassificationCurves(t *testing.T) {
	dir := t.TempDir()
	yTrue := []float64{0, 0, 0, 1, 1, 1}
	yScore := []float64{0.1, 0.3, 0.4, 0.6, 0.8, 0.9}

	tests := []struct {
		name   string
		render func(path string) error
	}{
		{"roc", func(p string) error { return ROCCurve(yTrue, yScore, p) }},
		{"pr", func(p string) error { return PrecisionRecallCurve(yTrue, yScore, p) }},
		{"threshold", func(p string) error { return ThresholdCurve(yTrue, yScore, p) }},
		{"calibration", func(p string) error { return CalibrationCurve(yTrue, yScore, p) }},
		{"lift", func(p string) error { return LiftCurve(yTrue, yScore, p) }},
		{"gain", func(p string) error { return GainCurve(yTrue, yScore, p) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".png")
			requireSaved(t, path, tt.render(path))
		})
	}
}

func TestClassificationSummaries(t *testing.T) {
	dir := t.TempDir()
	yTrue := []float64{0, 0, 1, 1, 2, 2}
	yPred := []float64{0, 1, 1, 1, 2, 0}

	path := filepath.Join(dir, "cm.png")
	requireSaved(t, path, ConfusionMatrix(yTrue, yPred, path))

	path = filepath.Join(dir, "report.png")
	requireSaved(t, path, ClassificationReport(yTrue, yPred, path))

	path = filepath.Join(dir, "error.png")
	requireSaved(t, path, ClassPredictionError(yTrue, yPred, path))
}

func TestRegressionPlots(t *testing.T) {
	dir := t.TempDir()
	yTrue := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	yPred := []float64{1.1, 1.9, 3.2, 3.8, 5.1}

	path := filepath.Join(dir, "error.png")
	requireSaved(t, path, PredictionError(yTrue, yPred, path))

	path = filepath.Join(dir, "residuals.png")
	requireSaved(t, path, Residuals(yTrue, yPred, path))

	path = filepath.Join(dir, "cooks.png")
	requireSaved(t, path, CooksDistance([]float64{0.01, 0.5, 0.02, 0.03}, path))
}

func TestFeatureImportancePlot(t *testing.T) {
	dir := t.TempDir()
	names := []string{"age", "income", "tenure", "clicks"}
	values := []float64{0.1, -0.9, 0.4, 0.05}

	path := filepath.Join(dir, "feature.png")
	requireSaved(t, path, FeatureImportance(names, values, 2, path))

	path = filepath.Join(dir, "feature_all.png")
	requireSaved(t, path, FeatureImportance(names, values, 0, path))

	err := FeatureImportance([]string{"a"}, []float64{1, 2}, 0, filepath.Join(dir, "bad.png"))
	assert.Error(t, err)
}

func TestLearningCurvePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learning.png")
	err := LearningCurve(
		[]int{10, 20, 30},
		[]float64{0.99, 0.97, 0.96},
		[]float64{0.80, 0.88, 0.92},
		path,
	)
	requireSaved(t, path, err)
}

func TestValidation(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, ROCCurve(nil, nil, filepath.Join(dir, "x.png")), "empty input")
	assert.Error(t, ROCCurve([]float64{0, 1}, []float64{0.5}, filepath.Join(dir, "x.png")), "length mismatch")
	assert.Error(t, GainCurve([]float64{0, 0}, []float64{0.1, 0.2}, filepath.Join(dir, "x.png")), "no positives")
}
