// Package experiment implements the orchestration layer of the toolkit: the
// experiment session, the model container, the trainer, model selection
// (AutoML), plot dispatch, run tracking and persistence entry points.
package experiment

import (
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/crossval"
	"github.com/apurvsibal/pycaret/metrics"
	"github.com/apurvsibal/pycaret/pkg/errors"
	"github.com/apurvsibal/pycaret/pkg/log"
	"github.com/apurvsibal/pycaret/tracking"
)

// UseCase is the kind of ML problem the session works on.
type UseCase string

const (
	Classification   UseCase = "classification"
	Regression       UseCase = "regression"
	Clustering       UseCase = "clustering"
	AnomalyDetection UseCase = "anomaly"
)

// IsUnsupervised reports whether the use case has no target to validate
// against, which disables cross-validation based re-scoring.
func (u UseCase) IsUnsupervised() bool {
	return u == Clustering || u == AnomalyDetection
}

// GPUMode controls GPU usage for estimators that support it.
type GPUMode string

const (
	// GPUOff trains on CPU only.
	GPUOff GPUMode = ""
	// GPUOn uses the GPU when a capable backend is available.
	GPUOn GPUMode = "on"
	// GPUForce fails setup when no capable backend is available.
	GPUForce GPUMode = "force"
)

// Config holds the session configuration. All fields have usable zero
// values except UseCase, which is required.
type Config struct {
	UseCase UseCase `yaml:"usecase"`

	// Seed is the session random seed. Zero picks a random seed in
	// [150, 9000), matching the toolkit's historical behavior.
	Seed int `yaml:"seed"`

	// Folds is the default cross-validation fold count (default 10).
	Folds int `yaml:"folds"`

	// FoldShuffle controls shuffling in the default fold generator.
	FoldShuffle bool `yaml:"fold_shuffle"`

	// FoldGroups carries optional group labels for grouped splitters.
	FoldGroups []int `yaml:"fold_groups"`

	// Multiclass marks a classification target with more than two classes.
	Multiclass bool `yaml:"multiclass"`

	// GPU selects the GPU mode.
	GPU GPUMode `yaml:"gpu"`

	// ExperimentName names the run group in the experiment tracker.
	ExperimentName string `yaml:"experiment_name"`

	// LogExperiment enables run logging to the tracker.
	LogExperiment bool `yaml:"log_experiment"`

	// LogLevel sets the session logger level (default "info").
	LogLevel string `yaml:"log_level"`
}

// Dataset is the train/holdout split a session operates on.
type Dataset struct {
	XTrain *mat.Dense
	YTrain *mat.Dense
	XTest  *mat.Dense
	YTest  *mat.Dense

	// FeatureNames labels the columns of XTrain/XTest. Optional; plots
	// fall back to positional names.
	FeatureNames []string
}

// Session is an experiment session: configuration, the model container, the
// trainer and the collaborators every high-level operation needs. It carries
// its own logger handle; nothing in the package reads process globals.
//
// A session and its container belong to a single goroutine.
type Session struct {
	cfg    Config
	usi    string
	logger *slog.Logger

	data          *Dataset
	metricsReg    *metrics.Registry
	foldGenerator crossval.Splitter
	container     *ModelContainer
	trainer       Trainer
	tracker       tracking.Tracker
	pipeline      *model.Pipeline
}

// Option configures a Session beyond its Config.
type Option func(*Session)

// WithLogger replaces the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithTrainer replaces the default cross-validation trainer.
func WithTrainer(t Trainer) Option {
	return func(s *Session) { s.trainer = t }
}

// WithTracker attaches an experiment tracker.
func WithTracker(t tracking.Tracker) Option {
	return func(s *Session) { s.tracker = t }
}

// WithMetrics replaces the default metric registry for the use case.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Session) { s.metricsReg = r }
}

// WithPipeline sets the preprocessing pipeline bundled on save and deploy.
func WithPipeline(p *model.Pipeline) Option {
	return func(s *Session) { s.pipeline = p }
}

// WithFoldGenerator replaces the default fold generator built from Config.
func WithFoldGenerator(sp crossval.Splitter) Option {
	return func(s *Session) { s.foldGenerator = sp }
}

// NewSession validates the configuration and builds a session.
func NewSession(cfg Config, data *Dataset, opts ...Option) (*Session, error) {
	switch cfg.UseCase {
	case Classification, Regression, Clustering, AnomalyDetection:
	default:
		return nil, errors.NewValidationError("usecase", "must be one of classification, regression, clustering, anomaly", string(cfg.UseCase))
	}

	switch cfg.GPU {
	case GPUOff, GPUOn, GPUForce:
	default:
		return nil, errors.NewValidationError("gpu", "must be empty, \"on\" or \"force\"", string(cfg.GPU))
	}

	// The logger setup panics on unknown levels; reject them here so a bad
	// config file surfaces as an error.
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, errors.NewValidationError("log_level", "must be one of debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Seed == 0 {
		cfg.Seed = 150 + rand.IntN(8850)
	}
	if cfg.Folds == 0 {
		cfg.Folds = 10
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ExperimentName == "" {
		cfg.ExperimentName = string(cfg.UseCase) + "-default-name"
	}

	s := &Session{
		cfg:       cfg,
		usi:       uuid.NewString()[:8],
		data:      data,
		container: NewModelContainer(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = log.NewLogger(cfg.LogLevel)
	}
	s.logger = s.logger.With(
		slog.String(log.SessionIDKey, s.usi),
		slog.String(log.ExperimentKey, cfg.ExperimentName),
		slog.String(log.UseCaseKey, string(cfg.UseCase)),
	)

	if s.metricsReg == nil {
		if cfg.UseCase == Classification {
			s.metricsReg = metrics.DefaultClassification()
		} else {
			s.metricsReg = metrics.DefaultRegression()
		}
	}

	if s.foldGenerator == nil {
		if cfg.UseCase == Classification {
			s.foldGenerator = crossval.NewStratifiedKFold(cfg.Folds, cfg.FoldShuffle, cfg.Seed)
		} else {
			s.foldGenerator = crossval.NewKFold(cfg.Folds, cfg.FoldShuffle, cfg.Seed)
		}
	}

	if s.trainer == nil {
		if data == nil {
			return nil, errors.NewValidationError("data", "required unless a trainer is provided", nil)
		}
		s.trainer = NewCVTrainer(data, s.metricsReg)
	}

	s.logger.Info("session initialized",
		slog.Int("seed", cfg.Seed),
		slog.Int(log.FoldsKey, cfg.Folds),
	)

	return s, nil
}

// USI returns the unique session identifier.
func (s *Session) USI() string {
	return s.usi
}

// Config returns a copy of the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Container returns the session's model container.
func (s *Session) Container() *ModelContainer {
	return s.container
}

// FoldGenerator returns the session default splitter. Entries scored with
// any other splitter object are not comparable under default fold settings.
func (s *Session) FoldGenerator() crossval.Splitter {
	return s.foldGenerator
}

// Metrics returns the session metric registry.
func (s *Session) Metrics() *metrics.Registry {
	return s.metricsReg
}

// resolveSplitter resolves a fold specification against session defaults.
func (s *Session) resolveSplitter(foldSpec interface{}) (crossval.Splitter, error) {
	kind := crossval.KindKFold
	if s.cfg.UseCase == Classification {
		kind = crossval.KindStratified
	}
	return crossval.Resolve(foldSpec, s.foldGenerator, s.cfg.Seed, s.cfg.FoldShuffle, kind)
}
