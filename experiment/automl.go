package experiment

import (
	"context"
	"log/slog"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/metrics"
	"github.com/apurvsibal/pycaret/pkg/errors"
	"github.com/apurvsibal/pycaret/pkg/log"
)

// AutoMLOptions configures a model selection scan.
type AutoMLOptions struct {
	// Optimize is the metric to select on, by id or display name.
	// Empty defaults to the first registry metric.
	Optimize string

	// UseHoldout selects on holdout scores instead of cross-validation
	// aggregates.
	UseHoldout bool

	// Turbo skips entries that were scored with non-default fold settings
	// instead of re-scoring them.
	Turbo bool
}

// AutoML scans the session's model container and returns the best model by
// the chosen metric, retrained on the full training split.
//
// On the cross-validation basis only entries scored with the session's own
// fold generator are directly comparable; other entries are re-scored under
// default fold settings unless Turbo is set or the use case is unsupervised,
// in which case they are skipped. Comparison uses strict inequality, so the
// earliest entry wins ties. The container holds exactly as many entries
// after the scan as before it.
func (s *Session) AutoML(ctx context.Context, opts AutoMLOptions) (model.Estimator, error) {
	if opts.Optimize == "" {
		opts.Optimize = s.metricsReg.Descriptors()[0].DisplayName
	}

	metric, err := s.metricsReg.Resolve(opts.Optimize)
	if err != nil {
		return nil, err
	}
	if s.cfg.Multiclass && !metric.IsMulticlass {
		return nil, errors.NewMetricMulticlassError(metric.DisplayName)
	}

	basis := "cv"
	if opts.UseHoldout {
		basis = "holdout"
	}
	logger := s.logger.With(
		slog.String(log.OperationKey, "automl"),
		slog.String(log.MetricKey, metric.DisplayName),
		slog.String(log.SelectionBasisKey, basis),
	)
	logger.Info("model selection started", slog.Int("candidates", s.container.Len()))

	var (
		best      model.Estimator
		bestScore float64
		found     bool
	)

	scanned := s.container.Len()
	for i := 0; i < scanned; i++ {
		entry := s.container.At(i)

		score, ok, err := s.candidateScore(ctx, entry, metric, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "score candidate %d", i)
		}
		if !ok {
			logger.Debug("candidate skipped", slog.Int(log.CandidateIndexKey, i))
			continue
		}

		if !found || better(score, bestScore, metric.GreaterIsBetter) {
			best = entry.Model
			bestScore = score
			found = true
			logger.Debug("new best candidate",
				slog.Int(log.CandidateIndexKey, i),
				slog.Float64(log.BestScoreKey, bestScore),
			)
		}
	}

	if !found {
		return nil, errors.NewNoEligibleModelsError(metric.DisplayName, scanned)
	}

	final, _, err := s.trainer.CreateModel(best, TrainOptions{Groups: s.cfg.FoldGroups})
	if err != nil {
		return nil, errors.Wrap(err, "retrain selected model")
	}

	logger.Info("model selection finished",
		slog.String(log.ModelNameKey, modelName(final)),
		slog.Float64(log.BestScoreKey, bestScore),
	)
	return final, nil
}

// candidateScore produces the comparable score of one container entry, or
// ok=false when the entry cannot be compared under the requested settings.
func (s *Session) candidateScore(ctx context.Context, entry *ContainerEntry, metric *metrics.Descriptor, opts AutoMLOptions) (float64, bool, error) {
	if opts.UseHoldout {
		return s.holdoutScore(entry.Model, metric)
	}

	// Directly comparable only when scored with the session's own fold
	// generator; identity, not configuration, is what is compared.
	if entry.CVGenerator == s.foldGenerator {
		score, err := entry.Scores.Aggregate(metric.DisplayName)
		if err != nil {
			return 0, false, err
		}
		return score, true, nil
	}

	if opts.Turbo || s.cfg.UseCase.IsUnsupervised() {
		return 0, false, nil
	}

	// Re-score under default fold settings. The transient entry is appended
	// untracked and popped, so the container length is unchanged by the scan
	// and no run is recorded for it.
	before := s.container.Len()
	_, scores, err := s.createModel(ctx, entry.Model, nil, false)
	if err != nil {
		return 0, false, err
	}
	if s.container.Len() == before+1 {
		if _, err := s.container.Pop(); err != nil {
			return 0, false, err
		}
	}

	score, err := scores.Aggregate(metric.DisplayName)
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// holdoutScore reads the estimator's holdout score, recovering once from an
// unfitted model by retraining a throwaway copy without cross-validation.
// The stored container entry is never touched; the transient retrain exists
// only long enough to be read.
func (s *Session) holdoutScore(est model.Estimator, metric *metrics.Descriptor) (float64, bool, error) {
	table, err := s.trainer.PredictHoldout(est)
	if err != nil {
		var notFitted *errors.NotFittedError
		if !errors.As(err, &notFitted) {
			return 0, false, err
		}

		refitted, _, err := s.trainer.CreateModel(est, TrainOptions{Groups: s.cfg.FoldGroups})
		if err != nil {
			return 0, false, err
		}

		table, err = s.trainer.PredictHoldout(refitted)
		if err != nil {
			return 0, false, err
		}
	}

	score, err := table.Value(0, metric.DisplayName)
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// better reports whether candidate strictly beats incumbent in the metric's
// direction. Equal scores never displace the incumbent.
func better(candidate, incumbent float64, greaterIsBetter bool) bool {
	if greaterIsBetter {
		return candidate > incumbent
	}
	return candidate < incumbent
}
