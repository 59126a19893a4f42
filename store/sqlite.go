package store

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"time"

	_ "modernc.org/sqlite"

	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/pkg/log"
)

//go:embed sql/ddl.sql
var ddl string

const (
	upsertArtifact = `INSERT INTO artifacts (name, codec, body, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET codec = excluded.codec, body = excluded.body, updated_at = excluded.updated_at`
	selectArtifact = `SELECT codec, body FROM artifacts WHERE name = ?`
)

// SQLiteStore は成果物を SQLite の artifacts テーブルに保存する。
// 並行に呼び出してよい。書き込みは1本のコネクションで直列化される。
type SQLiteStore struct {
	db     *sql.DB
	codec  model.Codec
	logger log.Logger
}

// OpenSQLite はデータベースを開き、スキーマを作成する。
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", "must not be empty", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", path)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to create database schema in: %s", path)
	}

	o := newOptions(opts)
	return &SQLiteStore{
		db:     db,
		codec:  o.codec,
		logger: o.logger.With(log.BackendKey, BackendSQLite),
	}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, name string, w *model.ModelWeights) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateWeights("SQLiteStore.Save", w); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := s.codec.Encode(&body, w); err != nil {
		return errors.Wrapf(err, "failed to encode artifact %s", name)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, upsertArtifact, name, s.codec.Extension(), body.Bytes(), now); err != nil {
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
func (s *SQLiteStore) Load(ctx context.Context, name string) (*model.ModelWeights, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var codec string
	var body []byte
	err := s.db.QueryRowContext(ctx, selectArtifact, name).Scan(&codec, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "%s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query artifact %s", name)
	}
	if codec != s.codec.Extension() {
		return nil, errors.NewValueError("SQLiteStore.Load",
			"artifact "+name+" was stored with codec "+codec+" but the store uses "+s.codec.Extension())
	}

	w, err := s.codec.Decode(bytes.NewReader(body))
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
