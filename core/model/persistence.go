package model

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
)

// Codec は ModelWeights をバイト列へ変換する方式
type Codec interface {
	// Encode は成果物をwへ書き込む
	Encode(w io.Writer, mw *ModelWeights) error
	// Decode はrから成果物を読み込み、妥当性を検証する
	Decode(r io.Reader) (*ModelWeights, error)
	// Extension はファイル保存時の拡張子（"."を含む）
	Extension() string
}

// JSONCodec は人が読める形式で成果物を保存する
type JSONCodec struct{}

// Encode implements Codec.
func (JSONCodec) Encode(w io.Writer, mw *ModelWeights) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(mw); err != nil {
		return fmt.Errorf("failed to encode model weights: %w", err)
	}
	return nil
}

// Decode implements Codec.
func (JSONCodec) Decode(r io.Reader) (*ModelWeights, error) {
	var mw ModelWeights
	if err := json.NewDecoder(r).Decode(&mw); err != nil {
		return nil, fmt.Errorf("failed to decode model weights: %w", err)
	}
	if err := mw.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model weights: %w", err)
	}
	return &mw, nil
}

// Extension implements Codec.
func (JSONCodec) Extension() string { return ".json" }

// GobCodec はencoding/gobで成果物を保存する
//
// Hyperparameters/Metadata に独自型を入れる場合は gob.Register が必要になる。
type GobCodec struct{}

// Encode implements Codec.
func (GobCodec) Encode(w io.Writer, mw *ModelWeights) error {
	if err := gob.NewEncoder(w).Encode(mw); err != nil {
		return fmt.Errorf("failed to encode model weights: %w", err)
	}
	return nil
}

// Decode implements Codec.
func (GobCodec) Decode(r io.Reader) (*ModelWeights, error) {
	var mw ModelWeights
	if err := gob.NewDecoder(r).Decode(&mw); err != nil {
		return nil, fmt.Errorf("failed to decode model weights: %w", err)
	}
	if err := mw.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model weights: %w", err)
	}
	return &mw, nil
}

// Extension implements Codec.
func (GobCodec) Extension() string { return ".gob" }
