// Package log defines standard attribute keys for experiment operations.
//
// Using these keys consistently enables filtering of experiment logs by
// session, model and operation across the whole toolkit.
package log

// Session and operation context.
const (
	// SessionIDKey identifies the experiment session (USI).
	SessionIDKey = "session.id"

	// ExperimentKey carries the experiment name used for tracking.
	ExperimentKey = "experiment.name"

	// UseCaseKey records the ML use case ("classification", "regression", ...).
	UseCaseKey = "experiment.usecase"

	// OperationKey specifies the operation being performed.
	// Standard values: "automl", "plot_model", "evaluate_model",
	// "save_model", "load_model", "deploy_model", "create_model".
	OperationKey = "ml.operation"

	// ModelNameKey identifies the estimator type.
	ModelNameKey = "model.name"
)

// Model selection context.
const (
	// MetricKey is the optimization metric display name.
	MetricKey = "automl.metric"

	// SelectionBasisKey is "holdout" or "cv".
	SelectionBasisKey = "automl.basis"

	// CandidateIndexKey is the container index of the entry being compared.
	CandidateIndexKey = "automl.candidate"

	// BestScoreKey is the running best score during a selection scan.
	BestScoreKey = "automl.best_score"
)

// Data shape.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// FoldsKey indicates the number of cross-validation folds.
	FoldsKey = "data.folds"
)

// Performance.
const (
	// DurationSecondsKey records operation wall time in seconds.
	DurationSecondsKey = "perf.duration_seconds"

	// FitTimeKey records model fit time in seconds.
	FitTimeKey = "perf.fit_seconds"
)
