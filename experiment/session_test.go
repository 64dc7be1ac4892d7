package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apurvsibal/pycaret/crossval"
	"github.com/apurvsibal/pycaret/pkg/errors"
)

func TestNewSessionValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty use case", Config{}},
		{"unknown use case", Config{UseCase: "ranking"}},
		{"bad gpu mode", Config{UseCase: Classification, GPU: "maybe"}},
		{"bad log level", Config{UseCase: Classification, LogLevel: "verbose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.cfg, nil, WithTrainer(&stubTrainer{}))
			var validation *errors.ValidationError
			assert.True(t, errors.As(err, &validation))
		})
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s, err := NewSession(Config{UseCase: Classification}, nil, WithTrainer(&stubTrainer{}))
	require.NoError(t, err)

	cfg := s.Config()
	assert.GreaterOrEqual(t, cfg.Seed, 150)
	assert.Less(t, cfg.Seed, 9000)
	assert.Equal(t, 10, cfg.Folds)
	assert.Equal(t, "classification-default-name", cfg.ExperimentName)
	assert.Len(t, s.USI(), 8)

	_, ok := s.FoldGenerator().(*crossval.StratifiedKFold)
	assert.True(t, ok, "classification defaults to stratified folds")

	r, err := NewSession(Config{UseCase: Regression}, nil, WithTrainer(&stubTrainer{}))
	require.NoError(t, err)
	_, ok = r.FoldGenerator().(*crossval.KFold)
	assert.True(t, ok, "regression defaults to plain k-fold")
}

func TestNewSessionRequiresDataWithoutTrainer(t *testing.T) {
	_, err := NewSession(Config{UseCase: Classification}, nil)
	var validation *errors.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestSessionModels(t *testing.T) {
	s, err := NewSession(Config{UseCase: Classification}, nil, WithTrainer(&stubTrainer{}))
	require.NoError(t, err)

	visible := s.Models(false)
	all := s.Models(true)
	assert.Less(t, len(visible), len(all), "special variants hidden by default")
	for _, d := range visible {
		assert.False(t, d.IsSpecial)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"usecase: regression\nseed: 123\nfolds: 5\nexperiment_name: housing\nlog_experiment: true\n",
	), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Regression, cfg.UseCase)
	assert.Equal(t, 123, cfg.Seed)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, "housing", cfg.ExperimentName)
	assert.True(t, cfg.LogExperiment)
}

func TestParseConfigRejectsGarbage(t *testing.T) {
	_, err := ParseConfig([]byte("usecase: [nested"))
	assert.Error(t, err)
}
