package experiment

import (
	"context"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/estimators"
	"github.com/apurvsibal/pycaret/pkg/errors"
	"github.com/apurvsibal/pycaret/preprocessing"
)

// ModelDescriptor describes one estimator available to the session.
type ModelDescriptor struct {
	// ID is the short key used to reference the model, e.g. "lr".
	ID string

	// Name is the human-readable estimator name.
	Name string

	// Factory builds a fresh, unfitted instance.
	Factory func() model.Estimator

	// IsSpecial marks internal variants excluded from default listings.
	IsSpecial bool
}

var classificationModels = []ModelDescriptor{
	{
		ID:      "lr",
		Name:    "Logistic Regression",
		Factory: func() model.Estimator { return estimators.NewLogisticRegression() },
	},
	{
		ID:   "lr_scaled",
		Name: "Logistic Regression (standardized)",
		Factory: func() model.Estimator {
			return model.NewPipeline(
				[]model.PipelineStep{{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()}},
				estimators.NewLogisticRegression(),
			)
		},
		IsSpecial: true,
	},
}

var regressionModels = []ModelDescriptor{
	{
		ID:      "lr",
		Name:    "Linear Regression",
		Factory: func() model.Estimator { return estimators.NewLinearRegression() },
	},
	{
		ID:   "lr_scaled",
		Name: "Linear Regression (standardized)",
		Factory: func() model.Estimator {
			return model.NewPipeline(
				[]model.PipelineStep{{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()}},
				estimators.NewLinearRegression(),
			)
		},
		IsSpecial: true,
	},
}

// Models lists the estimators available for the session's use case, in a
// stable order. Special variants are excluded unless includeSpecial is set.
func (s *Session) Models(includeSpecial bool) []ModelDescriptor {
	var catalog []ModelDescriptor
	switch s.cfg.UseCase {
	case Classification:
		catalog = classificationModels
	case Regression:
		catalog = regressionModels
	}

	out := make([]ModelDescriptor, 0, len(catalog))
	for _, d := range catalog {
		if d.IsSpecial && !includeSpecial {
			continue
		}
		out = append(out, d)
	}
	return out
}

// CreateModelByID looks a model up in the session catalog and trains it with
// cross-validation, like CreateModel.
func (s *Session) CreateModelByID(ctx context.Context, id string, foldSpec interface{}) (model.Estimator, *ScoreTable, error) {
	for _, d := range s.Models(true) {
		if d.ID == id {
			return s.CreateModel(ctx, d.Factory(), foldSpec)
		}
	}
	return nil, nil, errors.Newf("pycaret: unknown model id %q", id)
}
