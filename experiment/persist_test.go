package experiment

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/estimators"
	"github.com/apurvsibal/pycaret/preprocessing"
	"github.com/apurvsibal/pycaret/tracking"
)

func TestSaveAndLoadModel(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(6, 1, []float64{2, 4, 6, 8, 10, 12})

	est := estimators.NewLinearRegression()
	require.NoError(t, est.Fit(X, y))

	s, err := NewSession(Config{UseCase: Regression, Seed: 42}, nil, WithTrainer(&stubTrainer{}))
	require.NoError(t, err)

	name := filepath.Join(t.TempDir(), "house-prices")
	path, err := s.SaveModel(est, name)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".model"))

	loaded, err := LoadModel(name)
	require.NoError(t, err)
	require.True(t, loaded.IsFitted())

	pred, err := loaded.Predict(mat.NewDense(1, 1, []float64{7}))
	require.NoError(t, err)
	assert.InDelta(t, 14.0, pred.At(0, 0), 1e-6)
}

func TestSaveModelBundlesPipeline(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(6, 1, []float64{2, 4, 6, 8, 10, 12})

	pipeline := model.NewPipeline(
		[]model.PipelineStep{{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()}},
		nil,
	)
	scaler := pipeline.Steps[0].Transformer
	require.NoError(t, scaler.Fit(X))

	Xt, err := scaler.Transform(X)
	require.NoError(t, err)
	est := estimators.NewLinearRegression()
	require.NoError(t, est.Fit(Xt, y))

	s, err := NewSession(Config{UseCase: Regression, Seed: 42}, nil,
		WithTrainer(&stubTrainer{}), WithPipeline(pipeline))
	require.NoError(t, err)

	name := filepath.Join(t.TempDir(), "scaled")
	_, err = s.SaveModel(est, name)
	require.NoError(t, err)

	loaded, err := LoadModel(name)
	require.NoError(t, err)

	// The loaded bundle must transform raw inputs itself.
	pred, err := loaded.Predict(mat.NewDense(1, 1, []float64{3}))
	require.NoError(t, err)
	assert.InDelta(t, 6.0, pred.At(0, 0), 1e-6)
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestCreateModelLogsExperiment(t *testing.T) {
	data := binaryDataset(t, 40)
	tracker := tracking.NewMemoryTracker()

	s, err := NewSession(
		Config{UseCase: Classification, Seed: 42, Folds: 4, LogExperiment: true, ExperimentName: "churn"},
		data,
		WithTracker(tracker),
	)
	require.NoError(t, err)

	_, scores, err := s.CreateModel(context.Background(), estimators.NewLogisticRegression(), nil)
	require.NoError(t, err)

	require.Equal(t, 1, tracker.Runs())
	run, ok := tracker.Run("run-1")
	require.True(t, ok)

	assert.Equal(t, "churn", run.Experiment)
	assert.Equal(t, tracking.RunStatusFinished, run.Status)
	assert.Equal(t, "create_model", run.Tags["Source"])
	assert.Equal(t, s.USI(), run.Tags["USI"])
	assert.Equal(t, "run-1", run.Tags["Run ID"])

	assert.Contains(t, run.Params, "max_iter")
	assert.Contains(t, run.Metrics, "TT")

	want, err := scores.Aggregate("Accuracy")
	require.NoError(t, err)
	assert.Equal(t, want, run.Metrics["Accuracy"])

	csv := string(run.Artifacts["Results.csv"])
	assert.True(t, strings.HasPrefix(csv, "Fold,"))
	assert.Contains(t, csv, "Mean,")

	// The serialized model bundle rides along as an artifact.
	found := false
	for name := range run.Artifacts {
		if strings.HasSuffix(name, ".model") {
			found = true
		}
	}
	assert.True(t, found)
}
