package experiment

import (
	"log/slog"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/pkg/errors"
	"github.com/apurvsibal/pycaret/pkg/log"
)

// EvaluateModel renders every plot legal for the session and estimator into
// dir and returns the saved paths by kind. Plots the estimator lacks
// capabilities for are skipped; individual render failures are reported as
// warnings and do not abort the evaluation.
func (s *Session) EvaluateModel(est model.Estimator, dir string) (map[PlotKind]string, error) {
	if !est.IsFitted() {
		return nil, errors.NewNotFittedError(modelName(est), "EvaluateModel")
	}

	logger := s.logger.With(
		slog.String(log.OperationKey, "evaluate_model"),
		slog.String(log.ModelNameKey, modelName(est)),
	)

	saved := make(map[PlotKind]string)
	for _, kind := range s.AvailablePlots() {
		path, err := s.PlotModel(est, kind, dir)
		if err != nil {
			var unavailable *errors.PlotNotAvailableError
			if errors.As(err, &unavailable) {
				logger.Debug("plot skipped",
					slog.String("plot", string(kind)),
					slog.String("reason", unavailable.Reason),
				)
				continue
			}
			errors.Warn(errors.Wrapf(err, "plot %s failed", kind))
			continue
		}
		saved[kind] = path
	}

	logger.Info("model evaluated", slog.Int("plots", len(saved)))
	return saved, nil
}
