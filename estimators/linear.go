// Package estimators provides the built-in estimators shipped with the
// toolkit. Every estimator embeds model.BaseEstimator and satisfies
// model.Estimator; additional capabilities (probability estimates,
// coefficients) are expressed through the interfaces in core/model.
package estimators

import (
	"encoding/gob"

	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/metrics"
	"github.com/apurvsibal/pycaret/pkg/errors"
)

func init() {
	gob.Register(&LinearRegression{})
}

// LinearRegression is an ordinary least squares regressor solved with the
// normal equations.
type LinearRegression struct {
	model.BaseEstimator

	// Weights holds the fitted coefficients, one per feature.
	Weights []float64

	// Intercept is the fitted bias term.
	Intercept float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int
}

// NewLinearRegression creates an unfitted linear regression model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit solves w = (X^T X)^(-1) X^T y on X augmented with an intercept column.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.NFeatures = c

	// X with a leading column of ones for the intercept.
	Xi := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		Xi.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			Xi.Set(i, j+1, X.At(i, j))
		}
	}

	var xt mat.Dense
	xt.CloneFrom(Xi.T())

	var xtx mat.Dense
	xtx.Mul(&xt, Xi)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	var xty mat.Dense
	xty.Mul(&xt, y)

	var w mat.Dense
	w.Mul(&xtxInv, &xty)

	lr.Intercept = w.At(0, 0)
	lr.Weights = make([]float64, c)
	for j := 0; j < c; j++ {
		lr.Weights[j] = w.At(j+1, 0)
	}

	lr.SetFitted()
	return nil
}

// Predict returns X*w + intercept as an n×1 matrix.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		v := lr.Intercept
		for j := 0; j < c; j++ {
			v += lr.Weights[j] * X.At(i, j)
		}
		out.Set(i, 0, v)
	}

	return out, nil
}

// Score returns the coefficient of determination R² on X, y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(colVec(y), colVec(pred))
}

// Coefficients returns the fitted weights.
func (lr *LinearRegression) Coefficients() []float64 {
	return lr.Weights
}

// Clone returns an unfitted copy.
func (lr *LinearRegression) Clone() model.Estimator {
	return NewLinearRegression()
}

// GetParams returns the model's hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": true,
	}
}

// colVec copies the first column of m into a VecDense.
func colVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
