package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/estimators"
	"github.com/apurvsibal/pycaret/metrics"
	"github.com/apurvsibal/pycaret/pkg/errors"
)

// binaryDataset builds a linearly separable two-class problem.
func binaryDataset(t *testing.T, n int) *Dataset {
	t.Helper()
	require.True(t, n%2 == 0)

	build := func(rows int) (*mat.Dense, *mat.Dense) {
		X := mat.NewDense(rows, 2, nil)
		y := mat.NewDense(rows, 1, nil)
		for i := 0; i < rows; i++ {
			if i%2 == 0 {
				X.Set(i, 0, -2.0-float64(i%5)*0.1)
				X.Set(i, 1, -1.0)
				y.Set(i, 0, 0)
			} else {
				X.Set(i, 0, 2.0+float64(i%5)*0.1)
				X.Set(i, 1, 1.0)
				y.Set(i, 0, 1)
			}
		}
		return X, y
	}

	XTrain, yTrain := build(n)
	XTest, yTest := build(n / 2)
	return &Dataset{
		XTrain: XTrain, YTrain: yTrain,
		XTest: XTest, YTest: yTest,
		FeatureNames: []string{"x0", "x1"},
	}
}

func TestCVTrainerCreateModel(t *testing.T) {
	data := binaryDataset(t, 40)
	reg := metrics.DefaultClassification()
	trainer := NewCVTrainer(data, reg)

	s, err := NewSession(Config{UseCase: Classification, Seed: 42, Folds: 4}, data, WithTrainer(trainer))
	require.NoError(t, err)

	fitted, scores, err := trainer.CreateModel(estimators.NewLogisticRegression(), TrainOptions{
		CrossValidation: true,
		Splitter:        s.FoldGenerator(),
	})
	require.NoError(t, err)
	assert.True(t, fitted.IsFitted())

	// 4 fold rows plus Mean and Std.
	require.Equal(t, 6, scores.Len())
	assert.Equal(t, reg.Names(), scores.Columns)

	acc, err := scores.Aggregate("Accuracy")
	require.NoError(t, err)
	assert.Greater(t, acc, 0.9, "separable data must score high")

	auc, err := scores.Aggregate("AUC")
	require.NoError(t, err)
	assert.Greater(t, auc, 0.9)
}

func TestCVTrainerWithoutCrossValidation(t *testing.T) {
	data := binaryDataset(t, 20)
	trainer := NewCVTrainer(data, metrics.DefaultClassification())

	fitted, scores, err := trainer.CreateModel(estimators.NewLogisticRegression(), TrainOptions{})
	require.NoError(t, err)
	assert.True(t, fitted.IsFitted())
	assert.Nil(t, scores)
}

func TestCVTrainerPredictHoldout(t *testing.T) {
	data := binaryDataset(t, 20)
	trainer := NewCVTrainer(data, metrics.DefaultClassification())

	_, err := trainer.PredictHoldout(estimators.NewLogisticRegression())
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted))

	fitted, _, err := trainer.CreateModel(estimators.NewLogisticRegression(), TrainOptions{})
	require.NoError(t, err)

	table, err := trainer.PredictHoldout(fitted)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, HoldoutRowLabel, table.Rows[0].Label)

	acc, err := table.Value(0, "Accuracy")
	require.NoError(t, err)
	assert.Greater(t, acc, 0.9)
}

func TestSessionCreateModelRegistersEntry(t *testing.T) {
	data := binaryDataset(t, 40)
	s, err := NewSession(Config{UseCase: Classification, Seed: 42, Folds: 4}, data)
	require.NoError(t, err)

	fitted, scores, err := s.CreateModel(context.Background(), estimators.NewLogisticRegression(), nil)
	require.NoError(t, err)
	require.NotNil(t, scores)

	require.Equal(t, 1, s.Container().Len())
	entry := s.Container().At(0)
	assert.Same(t, fitted, entry.Model)
	assert.Same(t, scores, entry.Scores)

	// The default fold spec records the session's own generator.
	assert.Equal(t, s.FoldGenerator(), entry.CVGenerator)
}

func TestSessionCreateModelFoldSpecs(t *testing.T) {
	data := binaryDataset(t, 40)
	s, err := NewSession(Config{UseCase: Classification, Seed: 42}, data)
	require.NoError(t, err)

	_, scores, err := s.CreateModel(context.Background(), estimators.NewLogisticRegression(), 3)
	require.NoError(t, err)
	assert.Equal(t, 5, scores.Len(), "3 folds plus aggregates")

	_, _, err = s.CreateModel(context.Background(), estimators.NewLogisticRegression(), "five")
	var foldErr *errors.FoldSpecError
	assert.True(t, errors.As(err, &foldErr))
}
