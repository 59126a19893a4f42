// Package store は学習済み係数の成果物を保存・読み込みするモデルストア。
//
// FileStore はディレクトリに1成果物1ファイルで保存し、SQLiteStore は
// 1つのSQLiteデータベースにまとめて保存する。どちらも Store を満たす。
package store

import (
	"context"
	"regexp"

	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/pkg/log"
)

// ErrNotFound は指定した名前の成果物が存在しないことを表す
var ErrNotFound = errors.New("artifact not found")

// Store は学習済み係数の保存先
type Store interface {
	// Save は成果物を name で保存する。既存の成果物は上書きされる。
	Save(ctx context.Context, name string, w *model.ModelWeights) error
	// Load は name の成果物を読み込む。存在しなければ ErrNotFound を返す。
	Load(ctx context.Context, name string) (*model.ModelWeights, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return errors.NewValidationError("name", "artifact names may contain letters, digits, '.', '_' and '-'", name)
	}
	return nil
}

func validateWeights(op string, w *model.ModelWeights) error {
	if w == nil {
		return errors.NewValueError(op, "model weights must not be nil")
	}
	if err := w.Validate(); err != nil {
		return errors.NewModelError(op, "invalid weights", err)
	}
	return nil
}

// Option はストアを設定する関数
type Option func(*options)

type options struct {
	codec  model.Codec
	logger log.Logger
}

func newOptions(opts []Option) *options {
	o := &options{codec: model.JSONCodec{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.GetLoggerWithName("store")
	}
	return o
}

// WithCodec sets the artifact encoding. The default is JSON.
func WithCodec(codec model.Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open はバックエンド名から Store を開く。file ならディレクトリ、sqlite なら
// データベースファイルを path に置く。返される close 関数は必ず呼ぶこと。
func Open(ctx context.Context, backend, path string, opts ...Option) (Store, func() error, error) {
	switch backend {
	case BackendFile:
		s, err := NewFileStore(path, opts...)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case BackendSQLite:
		s, err := OpenSQLite(ctx, path, opts...)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, errors.NewValidationError("backend", "unknown store backend", backend)
	}
}
