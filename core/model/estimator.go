package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for models that can be trained.
type Fitter interface {
	// Fit trains the model on X and y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can predict.
type Predictor interface {
	// Predict returns predictions for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is the minimal surface the experiment layer requires of a model.
type Estimator interface {
	Fitter
	Predictor

	// IsFitted reports whether Fit has completed successfully.
	IsFitted() bool

	// Clone returns an unfitted copy with the same hyperparameters.
	// The experiment layer re-trains candidates through clones so the
	// container's fitted entries are never mutated in place.
	Clone() Estimator
}
