// Package model provides the estimator interfaces and capability types shared
// by the experiment orchestration layer and the built-in estimators.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the default metric of the model (accuracy for
	// classifiers, R^2 for regressors).
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// ProbabilityEstimator is the capability interface for models that produce
// per-class probability estimates. Required by ROC and calibration plots.
type ProbabilityEstimator interface {
	// PredictProba returns probability estimates for each class,
	// one column per class in the order reported by Classes.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// CoefficientProvider is the capability interface for linear models that
// expose fitted coefficients.
type CoefficientProvider interface {
	// Coefficients returns one weight per feature.
	Coefficients() []float64
}

// FeatureImportanceProvider is the capability interface for models that
// expose per-feature importance scores.
type FeatureImportanceProvider interface {
	// FeatureImportances returns one non-negative score per feature.
	FeatureImportances() []float64
}

// Classifier combines the interfaces of classification models.
type Classifier interface {
	Estimator
	Scorer
	ProbabilityEstimator
}

// Regressor combines the interfaces of regression models.
type Regressor interface {
	Estimator
	Scorer
}

// ParameterGetter is the interface for models that expose their hyperparameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// AllParameterGetter is the interface for models that expose their full
// parameter set, including derived and internal values. Preferred over
// ParameterGetter when logging runs to an experiment tracker.
type AllParameterGetter interface {
	// GetAllParams returns every parameter of the model.
	GetAllParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}

// Transformer is the interface for preprocessing steps in a pipeline.
type Transformer interface {
	// Fit learns the transformation statistics from X.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)
}
