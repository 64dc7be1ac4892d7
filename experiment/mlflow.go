package experiment

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/pkg/errors"
	"github.com/apurvsibal/pycaret/tracking"
)

// logModelRun records one trained model on the experiment tracker: tags,
// truncated hyperparameters, aggregate metrics with the fit time as "TT",
// the score table as a CSV artifact and the serialized model bundle.
func (s *Session) logModelRun(ctx context.Context, est model.Estimator, scores *ScoreTable, elapsed time.Duration) error {
	name := modelName(est)

	runID, err := s.tracker.StartRun(ctx, s.cfg.ExperimentName, name, map[string]string{
		"Source":   "create_model",
		"USI":      s.usi,
		"Run Time": fmt.Sprintf("%.2f", elapsed.Seconds()),
	})
	if err != nil {
		return err
	}

	status := tracking.RunStatusFailed
	defer func() {
		if endErr := s.tracker.EndRun(ctx, runID, status); endErr != nil {
			errors.Warn(errors.Wrap(endErr, "end tracking run"))
		}
	}()

	if err := s.tracker.SetTag(ctx, runID, "Run ID", runID); err != nil {
		return err
	}

	params := tracking.FormatParams(model.ExtractParams(est))
	if len(params) > 0 {
		if err := s.tracker.LogParams(ctx, runID, params); err != nil {
			return err
		}
	}

	values := map[string]float64{"TT": elapsed.Seconds()}
	if scores != nil {
		for _, col := range scores.Columns {
			v, err := scores.Aggregate(col)
			if err != nil {
				return err
			}
			// Non-finite aggregates cannot be encoded by the tracking
			// backend; skip them rather than fail the run.
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values[col] = v
		}
	}
	if err := s.tracker.LogMetrics(ctx, runID, values); err != nil {
		return err
	}

	if scores != nil {
		var csvBuf bytes.Buffer
		if err := scores.WriteCSV(&csvBuf); err != nil {
			return err
		}
		if err := s.tracker.LogArtifact(ctx, runID, "Results.csv", csvBuf.Bytes()); err != nil {
			return err
		}
	}

	var modelBuf bytes.Buffer
	if err := model.SaveModelToWriter(est, &modelBuf); err != nil {
		return err
	}
	if err := s.tracker.LogArtifact(ctx, runID, name+".model", modelBuf.Bytes()); err != nil {
		return err
	}

	status = tracking.RunStatusFinished
	return nil
}
