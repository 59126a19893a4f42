package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/pkg/log"
)

// FileStore は成果物を dir/<name><拡張子> として保存する。
// 書き込みは一時ファイルからの rename で行うため、読み手が書きかけの
// ファイルを見ることはない。
type FileStore struct {
	dir    string
	codec  model.Codec
	logger log.Logger
}

// NewFileStore はディレクトリを作成し FileStore を返す。
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, errors.NewValidationError("dir", "must not be empty", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create store directory: %s", dir)
	}
	o := newOptions(opts)
	return &FileStore{
		dir:    dir,
		codec:  o.codec,
		logger: o.logger.With(log.BackendKey, BackendFile),
	}, nil
}

// Path returns the file an artifact is stored in.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+s.codec.Extension())
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, name string, w *model.ModelWeights) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateWeights("FileStore.Save", w); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if err := s.codec.Encode(tmp, w); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to encode artifact %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return errors.Wrapf(err, "failed to store artifact %s", name)
	}

	s.logger.Debug("artifact saved",
		log.OperationKey, log.OperationSave,
		log.ArtifactKey, name,
		log.ModelNameKey, w.ModelType,
	)
	return nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, name string) (*model.ModelWeights, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotFound, "%s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open artifact %s", name)
	}
	defer f.Close()

	w, err := s.codec.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode artifact %s", name)
	}

	s.logger.Debug("artifact loaded",
		log.OperationKey, log.OperationLoad,
		log.ArtifactKey, name,
		log.ModelNameKey, w.ModelType,
	)
	return w, nil
}
