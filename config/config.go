// Package config は要因分析ドライバの YAML 設定を読み込む。
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/topfactors/core/parallel"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/pkg/log"
	"github.com/YuminosukeSato/topfactors/store"
	"github.com/YuminosukeSato/topfactors/trainer"
)

// Default values. New() is the only place they are applied.
const (
	DefaultLogLevel     = "info"
	DefaultModelType    = "classification"
	DefaultMaxIter      = 1000
	DefaultC            = 1.0
	DefaultStoreBackend = store.BackendFile
	DefaultStorePath    = "models"
	DefaultTopK         = 3
)

// ModelConfig selects and tunes the fitting strategy.
type ModelConfig struct {
	Type     string  `yaml:"type"`
	Artifact string  `yaml:"artifact"`
	MaxIter  int     `yaml:"max_iter"`
	C        float64 `yaml:"c"`

	// Standardize は学習前に各列を標準化する（保存される係数は元の単位）
	Standardize bool `yaml:"standardize"`
}

// StoreConfig selects the model store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// AttributionConfig tunes the ranking calls.
type AttributionConfig struct {
	K                 int  `yaml:"k"`
	ParallelThreshold int  `yaml:"parallel_threshold"`
	Debug             bool `yaml:"debug"`
}

// DataConfig describes the input table.
type DataConfig struct {
	Path   string   `yaml:"path"`
	Target string   `yaml:"target"`
	Drop   []string `yaml:"drop,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Model       ModelConfig       `yaml:"model"`
	Store       StoreConfig       `yaml:"store"`
	Attribution AttributionConfig `yaml:"attribution"`
	Data        DataConfig        `yaml:"data"`
}

// New returns a Config with all defaults populated.
func New() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Model: ModelConfig{
			Type:     DefaultModelType,
			Artifact: trainer.DefaultArtifactName,
			MaxIter:  DefaultMaxIter,
			C:        DefaultC,
		},
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
			Path:    DefaultStorePath,
		},
		Attribution: AttributionConfig{
			K:                 DefaultTopK,
			ParallelThreshold: parallel.DefaultThreshold,
		},
	}
}

// Load reads path and overlays it on the defaults. A missing file yields the
// defaults; the result is validated either way.
func Load(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, cfg.Validate()
	case err != nil:
		return nil, errors.Wrapf(err, "reading %q", path)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %q", path)
	}
	return cfg, cfg.Validate()
}

// Parse は YAML を cfg に上書きで読み込む。記載のない項目は cfg の値が残る。
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "invalid yaml")
	}
	return nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", "unknown level", c.LogLevel)
	}
	if _, err := trainer.ParseModelType(c.Model.Type); err != nil {
		return err
	}
	if c.Model.Artifact == "" {
		return errors.NewValidationError("model.artifact", "must not be empty", c.Model.Artifact)
	}
	if c.Model.MaxIter < 1 {
		return errors.NewValidationError("model.max_iter", "must be at least 1", c.Model.MaxIter)
	}
	switch c.Store.Backend {
	case store.BackendFile, store.BackendSQLite:
	default:
		return errors.NewValidationError("store.backend", "must be \"file\" or \"sqlite\"", c.Store.Backend)
	}
	if c.Store.Path == "" {
		return errors.NewValidationError("store.path", "must not be empty", c.Store.Path)
	}
	if c.Attribution.K < 1 {
		return errors.NewValidationError("attribution.k", "must be at least 1", c.Attribution.K)
	}
	if c.Attribution.ParallelThreshold < 0 {
		return errors.NewValidationError("attribution.parallel_threshold", "must not be negative", c.Attribution.ParallelThreshold)
	}
	return nil
}
