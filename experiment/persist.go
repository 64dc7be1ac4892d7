package experiment

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/persistence"
	"github.com/apurvsibal/pycaret/pkg/errors"
	"github.com/apurvsibal/pycaret/pkg/log"
)

func init() {
	gob.Register(&ModelBundle{})
}

// bundleExt is appended to model names when saving, loading and deploying.
const bundleExt = ".model"

// ModelBundle is the serialized unit of persistence: the trained estimator,
// wrapped in the session preprocessing pipeline when one is configured.
type ModelBundle struct {
	Name  string
	Model model.Estimator
}

// bundle wraps est in the session pipeline, when configured.
func (s *Session) bundle(est model.Estimator, name string) *ModelBundle {
	wrapped := est
	if s.pipeline != nil {
		wrapped = s.pipeline.WithEstimator(est)
	}
	return &ModelBundle{Name: name, Model: wrapped}
}

// SaveModel writes est (with the session pipeline prepended, when set) to
// "<name>.model" and returns the file path.
func (s *Session) SaveModel(est model.Estimator, name string) (string, error) {
	path := name + bundleExt
	if err := model.SaveModel(s.bundle(est, name), path); err != nil {
		return "", errors.NewPersistenceError("save_model", name, "", err)
	}

	s.logger.Info("model saved",
		slog.String(log.OperationKey, "save_model"),
		slog.String(log.ModelNameKey, modelName(est)),
		slog.String("path", path),
	)
	return path, nil
}

// LoadModel reads the bundle saved as "<name>.model" and returns its model.
func LoadModel(name string) (model.Estimator, error) {
	var bundle ModelBundle
	if err := model.LoadModel(&bundle, name+bundleExt); err != nil {
		return nil, errors.NewPersistenceError("load_model", name, "", err)
	}
	if bundle.Model == nil {
		return nil, errors.NewPersistenceError("load_model", name, "", errors.New("bundle has no model"))
	}
	return bundle.Model, nil
}

// DeployModel uploads the model bundle to cloud object storage under
// "<name>.model".
func (s *Session) DeployModel(ctx context.Context, est model.Estimator, name string, platform persistence.Platform, cfg persistence.Config) error {
	store, err := persistence.NewStore(platform, cfg)
	if err != nil {
		return errors.NewPersistenceError("deploy_model", name, string(platform), err)
	}

	var buf bytes.Buffer
	if err := model.SaveModelToWriter(s.bundle(est, name), &buf); err != nil {
		return errors.NewPersistenceError("deploy_model", name, string(platform), err)
	}

	if err := store.Upload(ctx, name+bundleExt, &buf); err != nil {
		return errors.NewPersistenceError("deploy_model", name, string(platform), err)
	}

	s.logger.Info("model deployed",
		slog.String(log.OperationKey, "deploy_model"),
		slog.String(log.ModelNameKey, modelName(est)),
		slog.String("platform", string(platform)),
		slog.String("bucket", cfg.Bucket),
	)
	return nil
}

// LoadDeployedModel downloads and decodes a bundle previously uploaded with
// DeployModel.
func LoadDeployedModel(ctx context.Context, name string, platform persistence.Platform, cfg persistence.Config) (model.Estimator, error) {
	store, err := persistence.NewStore(platform, cfg)
	if err != nil {
		return nil, errors.NewPersistenceError("load_model", name, string(platform), err)
	}

	var buf bytes.Buffer
	if err := store.Download(ctx, name+bundleExt, &buf); err != nil {
		return nil, errors.NewPersistenceError("load_model", name, string(platform), err)
	}

	var bundle ModelBundle
	if err := model.LoadModelFromReader(&bundle, &buf); err != nil {
		return nil, errors.NewPersistenceError("load_model", name, string(platform), err)
	}
	if bundle.Model == nil {
		return nil, errors.NewPersistenceError("load_model", name, string(platform), errors.New("bundle has no model"))
	}
	return bundle.Model, nil
}
