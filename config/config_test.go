package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topfactors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "classification", cfg.Model.Type)
	assert.Equal(t, "factorlogit", cfg.Model.Artifact)
	assert.Equal(t, 1000, cfg.Model.MaxIter)
	assert.Equal(t, 1.0, cfg.Model.C)
	assert.False(t, cfg.Model.Standardize)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "models", cfg.Store.Path)
	assert.Equal(t, 3, cfg.Attribution.K)
	assert.Equal(t, 1000, cfg.Attribution.ParallelThreshold)
	assert.False(t, cfg.Attribution.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
model:
  type: regression
  standardize: true
store:
  backend: sqlite
  path: models.db
attribution:
  k: 2
  debug: true
data:
  path: patients.csv
  target: outcome
  drop: [id]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "regression", cfg.Model.Type)
	assert.Equal(t, "factorlogit", cfg.Model.Artifact, "unset fields keep defaults")
	assert.Equal(t, 1000, cfg.Model.MaxIter)
	assert.True(t, cfg.Model.Standardize)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "models.db", cfg.Store.Path)
	assert.Equal(t, 2, cfg.Attribution.K)
	assert.True(t, cfg.Attribution.Debug)
	assert.Equal(t, 1000, cfg.Attribution.ParallelThreshold)
	assert.Equal(t, DataConfig{Path: "patients.csv", Target: "outcome", Drop: []string{"id"}}, cfg.Data)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		param   string
	}{
		{"bad log level", "log_level: loud", "log_level"},
		{"zero k", "attribution:\n  k: 0", "attribution.k"},
		{"negative threshold", "attribution:\n  parallel_threshold: -1", "attribution.parallel_threshold"},
		{"unknown backend", "store:\n  backend: redis", "store.backend"},
		{"empty path", "store:\n  path: \"\"", "store.path"},
		{"empty artifact", "model:\n  artifact: \"\"", "model.artifact"},
		{"zero max iter", "model:\n  max_iter: 0", "model.max_iter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			var validation *errors.ValidationError
			require.True(t, errors.As(err, &validation), "got %v", err)
			assert.Equal(t, tt.param, validation.ParamName)
		})
	}
}

func TestLoadUnsupportedModelType(t *testing.T) {
	_, err := Load(writeConfig(t, "model:\n  type: clustering"))
	var unsupported *errors.UnsupportedModelTypeError
	assert.True(t, errors.As(err, &unsupported))
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "model: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}
