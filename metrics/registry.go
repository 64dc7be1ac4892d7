// Package metrics provides scoring functions and the metric registry used to
// drive model comparison and selection.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// ScorerFunc scores predictions against ground truth. For descriptors with
// NeedsProba set, yPred carries positive-class probabilities instead of
// labels.
type ScorerFunc func(yTrue, yPred *mat.VecDense) (float64, error)

// Descriptor describes a single metric: how to compute it, how to compare
// two values of it, and where it applies.
type Descriptor struct {
	// ID is the unique short key, e.g. "acc".
	ID string

	// Name is an alternate lookup name, e.g. "Accuracy".
	Name string

	// DisplayName is the human-readable label used as the column key in
	// score tables. Often equal to Name.
	DisplayName string

	// Scorer computes the metric value.
	Scorer ScorerFunc

	// GreaterIsBetter determines the comparison direction.
	GreaterIsBetter bool

	// IsMulticlass reports whether the metric is defined when the target
	// has more than two classes.
	IsMulticlass bool

	// NeedsProba marks metrics computed from positive-class probabilities
	// rather than predicted labels.
	NeedsProba bool
}

// Registry is an ordered collection of metric descriptors. Order matters:
// score table columns follow registry order.
type Registry struct {
	descriptors []*Descriptor
}

// NewRegistry creates a registry from descriptors, preserving order.
func NewRegistry(descriptors ...*Descriptor) *Registry {
	return &Registry{descriptors: descriptors}
}

// Add appends a descriptor to the registry.
func (r *Registry) Add(d *Descriptor) {
	r.descriptors = append(r.descriptors, d)
}

// Descriptors returns the descriptors in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	return r.descriptors
}

// Names returns the display names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.DisplayName
	}
	return names
}

// Resolve looks a metric up by id first, then by display name or alternate
// name. Returns MetricNotFoundError when nothing matches.
func (r *Registry) Resolve(nameOrID string) (*Descriptor, error) {
	for _, d := range r.descriptors {
		if d.ID == nameOrID {
			return d, nil
		}
	}
	for _, d := range r.descriptors {
		if d.DisplayName == nameOrID || d.Name == nameOrID {
			return d, nil
		}
	}
	return nil, errors.NewMetricNotFoundError(nameOrID)
}

// DefaultClassification returns the standard classification metric registry.
// AUC is computed from positive-class probabilities and is binary-only.
func DefaultClassification() *Registry {
	return NewRegistry(
		&Descriptor{ID: "acc", Name: "Accuracy", DisplayName: "Accuracy", Scorer: Accuracy, GreaterIsBetter: true, IsMulticlass: true},
		&Descriptor{ID: "auc", Name: "AUC", DisplayName: "AUC", Scorer: AUC, GreaterIsBetter: true, IsMulticlass: false, NeedsProba: true},
		&Descriptor{ID: "recall", Name: "Recall", DisplayName: "Recall", Scorer: Recall, GreaterIsBetter: true, IsMulticlass: true},
		&Descriptor{ID: "precision", Name: "Precision", DisplayName: "Prec.", Scorer: Precision, GreaterIsBetter: true, IsMulticlass: true},
		&Descriptor{ID: "f1", Name: "F1", DisplayName: "F1", Scorer: F1, GreaterIsBetter: true, IsMulticlass: true},
		&Descriptor{ID: "kappa", Name: "Kappa", DisplayName: "Kappa", Scorer: CohenKappa, GreaterIsBetter: true, IsMulticlass: true},
		&Descriptor{ID: "mcc", Name: "MCC", DisplayName: "MCC", Scorer: MCC, GreaterIsBetter: true, IsMulticlass: true},
	)
}

// DefaultRegression returns the standard regression metric registry.
func DefaultRegression() *Registry {
	return NewRegistry(
		&Descriptor{ID: "mae", Name: "MAE", DisplayName: "MAE", Scorer: MAE, GreaterIsBetter: false, IsMulticlass: true},
		&Descriptor{ID: "mse", Name: "MSE", DisplayName: "MSE", Scorer: MSE, GreaterIsBetter: false, IsMulticlass: true},
		&Descriptor{ID: "rmse", Name: "RMSE", DisplayName: "RMSE", Scorer: RMSE, GreaterIsBetter: false, IsMulticlass: true},
		&Descriptor{ID: "r2", Name: "R2", DisplayName: "R2", Scorer: R2Score, GreaterIsBetter: true, IsMulticlass: true},
		&Descriptor{ID: "rmsle", Name: "RMSLE", DisplayName: "RMSLE", Scorer: RMSLE, GreaterIsBetter: false, IsMulticlass: true},
		&Descriptor{ID: "mape", Name: "MAPE", DisplayName: "MAPE", Scorer: MAPE, GreaterIsBetter: false, IsMulticlass: true},
	)
}
