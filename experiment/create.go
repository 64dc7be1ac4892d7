package experiment

import (
	"context"
	"log/slog"
	"time"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/pkg/log"
)

// CreateModel trains est with cross-validation and registers the result in
// the session's model container. foldSpec may be nil (session default fold
// generator), an integer fold count, or a crossval.Splitter.
//
// When experiment logging is enabled the run is recorded on the tracker;
// tracking failures are logged and do not fail the training.
func (s *Session) CreateModel(ctx context.Context, est model.Estimator, foldSpec interface{}) (model.Estimator, *ScoreTable, error) {
	return s.createModel(ctx, est, foldSpec, true)
}

// createModel is the shared training path. Internal callers producing
// transient results pass track=false so throwaway entries never reach the
// experiment tracker.
func (s *Session) createModel(ctx context.Context, est model.Estimator, foldSpec interface{}, track bool) (model.Estimator, *ScoreTable, error) {
	splitter, err := s.resolveSplitter(foldSpec)
	if err != nil {
		return nil, nil, err
	}

	logger := s.logger.With(
		slog.String(log.OperationKey, "create_model"),
		slog.String(log.ModelNameKey, modelName(est)),
	)

	start := time.Now()
	fitted, scores, err := s.trainer.CreateModel(est, TrainOptions{
		CrossValidation: true,
		Splitter:        splitter,
		Groups:          s.cfg.FoldGroups,
	})
	if err != nil {
		logger.Error("model training failed", log.ErrAttr(err))
		return nil, nil, err
	}
	elapsed := time.Since(start)

	s.container.Append(&ContainerEntry{
		Model:       fitted,
		CVGenerator: splitter,
		Scores:      scores,
	})

	logger.Info("model trained",
		slog.Int(log.FoldsKey, splitter.NSplits()),
		slog.Float64(log.FitTimeKey, elapsed.Seconds()),
	)

	if track && s.cfg.LogExperiment && s.tracker != nil {
		if err := s.logModelRun(ctx, fitted, scores, elapsed); err != nil {
			logger.Warn("experiment tracking failed", log.ErrAttr(err))
		}
	}

	return fitted, scores, nil
}
