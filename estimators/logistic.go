package estimators

import (
	"encoding/gob"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/metrics"
	"github.com/apurvsibal/pycaret/pkg/errors"
)

func init() {
	gob.Register(&LogisticRegression{})
}

// LogisticRegression is a logistic regression classifier trained with batch
// gradient descent. Binary problems fit a single weight vector; multiclass
// problems fit one-vs-rest.
type LogisticRegression struct {
	model.BaseEstimator

	// LearningRate is the gradient descent step size.
	LearningRate float64

	// MaxIter caps the number of gradient descent iterations.
	MaxIter int

	// Tol stops training early when the max absolute gradient falls below it.
	Tol float64

	// Weights holds one weight vector per fitted classifier
	// (one for binary problems, one per class for one-vs-rest).
	Weights [][]float64

	// Intercepts holds one bias term per fitted classifier.
	Intercepts []float64

	// ClassValues are the sorted unique classes seen during Fit.
	ClassValues []int

	// NFeatures is the number of features seen during Fit.
	NFeatures int
}

// LogisticRegressionOption configures a LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithLearningRate sets the gradient descent step size.
func WithLearningRate(rate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.LearningRate = rate }
}

// WithMaxIter sets the iteration cap.
func WithMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.MaxIter = maxIter }
}

// WithTol sets the convergence tolerance.
func WithTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.Tol = tol }
}

// NewLogisticRegression creates a logistic regression classifier.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		LearningRate: 0.1,
		MaxIter:      1000,
		Tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit trains the classifier on X and integer labels in y.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LogisticRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}

	lr.NFeatures = c
	lr.extractClasses(y)

	if len(lr.ClassValues) < 2 {
		return errors.NewValueError("LogisticRegression.Fit", "y must contain at least two classes")
	}

	if len(lr.ClassValues) == 2 {
		// Binary: a single classifier separating ClassValues[1] from [0].
		w, b := lr.fitBinary(X, y, lr.ClassValues[1])
		lr.Weights = [][]float64{w}
		lr.Intercepts = []float64{b}
	} else {
		// One-vs-rest: one classifier per class.
		lr.Weights = make([][]float64, len(lr.ClassValues))
		lr.Intercepts = make([]float64, len(lr.ClassValues))
		for k, class := range lr.ClassValues {
			lr.Weights[k], lr.Intercepts[k] = lr.fitBinary(X, y, class)
		}
	}

	lr.SetFitted()
	return nil
}

func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	r, _ := y.Dims()
	seen := map[int]struct{}{}
	for i := 0; i < r; i++ {
		seen[int(y.At(i, 0))] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	lr.ClassValues = classes
}

// fitBinary runs gradient descent for a single positive class.
func (lr *LogisticRegression) fitBinary(X, y mat.Matrix, positive int) ([]float64, float64) {
	r, c := X.Dims()

	w := make([]float64, c)
	b := 0.0

	target := make([]float64, r)
	for i := 0; i < r; i++ {
		if int(y.At(i, 0)) == positive {
			target[i] = 1
		}
	}

	grad := make([]float64, c)
	for iter := 0; iter < lr.MaxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradB := 0.0

		for i := 0; i < r; i++ {
			z := b
			for j := 0; j < c; j++ {
				z += w[j] * X.At(i, j)
			}
			err := sigmoid(z) - target[i]
			for j := 0; j < c; j++ {
				grad[j] += err * X.At(i, j)
			}
			gradB += err
		}

		maxGrad := math.Abs(gradB)
		for j := 0; j < c; j++ {
			grad[j] /= float64(r)
			if g := math.Abs(grad[j]); g > maxGrad {
				maxGrad = g
			}
			w[j] -= lr.LearningRate * grad[j]
		}
		b -= lr.LearningRate * gradB / float64(r)

		if maxGrad < lr.Tol {
			break
		}
	}

	return w, b
}

// Predict returns the most probable class for each row of X.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}

	r, k := proba.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best, bestP := 0, proba.At(i, 0)
		for j := 1; j < k; j++ {
			if proba.At(i, j) > bestP {
				best, bestP = j, proba.At(i, j)
			}
		}
		out.Set(i, 0, float64(lr.ClassValues[best]))
	}

	return out, nil
}

// PredictProba returns per-class probability estimates, one column per class
// in the order reported by Classes.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", lr.NFeatures, c, 1)
	}

	k := len(lr.ClassValues)
	out := mat.NewDense(r, k, nil)

	if k == 2 {
		for i := 0; i < r; i++ {
			z := lr.Intercepts[0]
			for j := 0; j < c; j++ {
				z += lr.Weights[0][j] * X.At(i, j)
			}
			p := sigmoid(z)
			out.Set(i, 0, 1-p)
			out.Set(i, 1, p)
		}
		return out, nil
	}

	// One-vs-rest: normalize the per-class sigmoid scores.
	for i := 0; i < r; i++ {
		var total float64
		for ki := 0; ki < k; ki++ {
			z := lr.Intercepts[ki]
			for j := 0; j < c; j++ {
				z += lr.Weights[ki][j] * X.At(i, j)
			}
			p := sigmoid(z)
			out.Set(i, ki, p)
			total += p
		}
		if total > 0 {
			for ki := 0; ki < k; ki++ {
				out.Set(i, ki, out.At(i, ki)/total)
			}
		}
	}

	return out, nil
}

// Classes returns the unique classes seen during fitting.
func (lr *LogisticRegression) Classes() []int {
	return lr.ClassValues
}

// Score returns the accuracy on X, y.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(colVec(y), colVec(pred))
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LogisticRegression) Clone() model.Estimator {
	return NewLogisticRegression(
		WithLearningRate(lr.LearningRate),
		WithMaxIter(lr.MaxIter),
		WithTol(lr.Tol),
	)
}

// GetParams returns the model's hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": lr.LearningRate,
		"max_iter":      lr.MaxIter,
		"tol":           lr.Tol,
	}
}

// GetAllParams returns hyperparameters plus fitted state.
func (lr *LogisticRegression) GetAllParams() map[string]interface{} {
	params := lr.GetParams()
	params["n_features"] = lr.NFeatures
	params["classes"] = lr.ClassValues
	return params
}

// SetParams sets the model's hyperparameters.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		switch k {
		case "learning_rate":
			rate, ok := v.(float64)
			if !ok {
				return errors.NewValidationError(k, "must be a float64", v)
			}
			lr.LearningRate = rate
		case "max_iter":
			n, ok := v.(int)
			if !ok {
				return errors.NewValidationError(k, "must be an int", v)
			}
			lr.MaxIter = n
		case "tol":
			tol, ok := v.(float64)
			if !ok {
				return errors.NewValidationError(k, "must be a float64", v)
			}
			lr.Tol = tol
		default:
			return errors.NewValidationError(k, "unknown parameter", v)
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
