package experiment

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/crossval"
	"github.com/apurvsibal/pycaret/metrics"
	"github.com/apurvsibal/pycaret/pkg/errors"
)

// HoldoutRowLabel labels the single row of a holdout score table.
const HoldoutRowLabel = "Holdout"

// TrainOptions controls a single training call.
type TrainOptions struct {
	// CrossValidation enables per-fold scoring. When false the estimator is
	// fitted once on the full training split and no score table is produced.
	CrossValidation bool

	// Splitter overrides the fold generator for this call.
	Splitter crossval.Splitter

	// Groups carries optional group labels for grouped splitters.
	Groups []int
}

// Trainer fits estimators and scores them. Implementations never touch the
// session's model container; registering results is the session's job.
type Trainer interface {
	// CreateModel trains a fresh clone of est. With cross-validation enabled
	// it scores every fold, returns the table with trailing [Mean, Std] rows
	// and refits the returned estimator on the full training split. With
	// cross-validation disabled the table is nil.
	CreateModel(est model.Estimator, opts TrainOptions) (model.Estimator, *ScoreTable, error)

	// PredictHoldout scores a fitted estimator on the holdout split and
	// returns a single-row table. Unfitted estimators fail with
	// NotFittedError.
	PredictHoldout(est model.Estimator) (*ScoreTable, error)
}

// CVTrainer is the default trainer: k-fold cross-validation over the train
// split, metric columns taken from the registry in registration order.
type CVTrainer struct {
	data     *Dataset
	registry *metrics.Registry
}

// NewCVTrainer creates a trainer over the given data and metric registry.
func NewCVTrainer(data *Dataset, registry *metrics.Registry) *CVTrainer {
	return &CVTrainer{data: data, registry: registry}
}

// CreateModel trains a clone of est per TrainOptions.
func (t *CVTrainer) CreateModel(est model.Estimator, opts TrainOptions) (model.Estimator, *ScoreTable, error) {
	if t.data == nil || t.data.XTrain == nil || t.data.YTrain == nil {
		return nil, nil, errors.NewValueError("CVTrainer.CreateModel", "trainer has no training data")
	}

	if !opts.CrossValidation {
		fitted := est.Clone()
		if err := fitted.Fit(t.data.XTrain, t.data.YTrain); err != nil {
			return nil, nil, err
		}
		return fitted, nil, nil
	}

	splitter := opts.Splitter
	if splitter == nil {
		return nil, nil, errors.NewValueError("CVTrainer.CreateModel", "cross-validation requested without a splitter")
	}

	folds := splitter.Split(t.data.XTrain, t.data.YTrain)
	if len(folds) == 0 {
		return nil, nil, errors.NewValueError("CVTrainer.CreateModel", "splitter produced no folds")
	}

	table := NewScoreTable(t.registry.Names())
	for i, fold := range folds {
		foldEst := est.Clone()

		XTrain, yTrain := subset(t.data.XTrain, t.data.YTrain, fold.TrainIndices)
		XTest, yTest := subset(t.data.XTrain, t.data.YTrain, fold.TestIndices)

		if err := foldEst.Fit(XTrain, yTrain); err != nil {
			return nil, nil, errors.Wrapf(err, "fit fold %d", i)
		}

		row, err := t.scoreAll(foldEst, XTest, yTest)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "score fold %d", i)
		}
		table.Append(foldLabel(i), row)
	}
	table.AppendAggregates()

	fitted := est.Clone()
	if err := fitted.Fit(t.data.XTrain, t.data.YTrain); err != nil {
		return nil, nil, errors.Wrap(err, "final refit")
	}

	return fitted, table, nil
}

// PredictHoldout scores est on the holdout split.
func (t *CVTrainer) PredictHoldout(est model.Estimator) (*ScoreTable, error) {
	if !est.IsFitted() {
		return nil, errors.NewNotFittedError(modelName(est), "PredictHoldout")
	}
	if t.data == nil || t.data.XTest == nil || t.data.YTest == nil {
		return nil, errors.NewValueError("CVTrainer.PredictHoldout", "trainer has no holdout data")
	}

	row, err := t.scoreAll(est, t.data.XTest, t.data.YTest)
	if err != nil {
		return nil, err
	}

	table := NewScoreTable(t.registry.Names())
	table.Append(HoldoutRowLabel, row)
	return table, nil
}

// scoreAll computes every registry metric for est on X, y. A metric whose
// scorer fails, or that needs probabilities the estimator cannot produce,
// scores 0 and emits a warning.
func (t *CVTrainer) scoreAll(est model.Estimator, X, y mat.Matrix) (map[string]float64, error) {
	pred, err := est.Predict(X)
	if err != nil {
		return nil, err
	}
	yTrue := columnVector(y)
	yPred := columnVector(pred)

	var yProba *mat.VecDense
	if prob, ok := est.(model.ProbabilityEstimator); ok {
		probas, err := prob.PredictProba(X)
		if err == nil {
			yProba = positiveClassColumn(probas)
		} else {
			errors.Warn(errors.Wrap(err, "probability prediction failed"))
		}
	}

	row := make(map[string]float64, len(t.registry.Descriptors()))
	for _, d := range t.registry.Descriptors() {
		input := yPred
		if d.NeedsProba {
			if yProba == nil {
				row[d.DisplayName] = 0
				continue
			}
			input = yProba
		}

		v, err := d.Scorer(yTrue, input)
		if err != nil {
			errors.Warn(errors.Wrapf(err, "metric %s failed", d.DisplayName))
			v = 0
		}
		row[d.DisplayName] = v
	}
	return row, nil
}

func foldLabel(i int) string {
	return "Fold " + strconv.Itoa(i)
}

// subset copies the given rows of X and y into fresh matrices.
func subset(X, y *mat.Dense, indices []int) (*mat.Dense, *mat.Dense) {
	_, cols := X.Dims()
	outX := mat.NewDense(len(indices), cols, nil)
	outY := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			outX.Set(i, j, X.At(idx, j))
		}
		outY.Set(i, 0, y.At(idx, 0))
	}
	return outX, outY
}

// columnVector copies the first column of m into a vector.
func columnVector(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}

// positiveClassColumn extracts the positive-class probability column: the
// last column, matching the sorted class order of binary classifiers.
func positiveClassColumn(probas mat.Matrix) *mat.VecDense {
	r, c := probas.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, probas.At(i, c-1))
	}
	return v
}

// modelName returns a short type name for logging and error messages.
func modelName(est model.Estimator) string {
	type namer interface{ Name() string }
	if n, ok := est.(namer); ok {
		return n.Name()
	}
	name := fmt.Sprintf("%T", est)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
