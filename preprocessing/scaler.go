// Package preprocessing は学習前の特徴量変換を提供する。
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
)

// StandardScaler は各特徴量を平均0、標準偏差1に変換する。
//
// 標準化したデータで学習した係数は Unscale で元の単位に戻せるため、
// 寄与度は常に元の特徴量の値で計算できる。
type StandardScaler struct {
	state *model.StateManager
	mean  []float64
	scale []float64
}

// NewStandardScaler は新しいStandardScalerを作成する
//
//	scaler := preprocessing.NewStandardScaler()
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager()}
}

// Fit は訓練データから列ごとの平均と母標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.mean = make([]float64, c)
	s.scale = make([]float64, c)
	values := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(values, j, X)
		mean, std := stat.PopMeanStdDev(values, nil)
		// 定数列はそのまま残す
		if math.Abs(std) < 1e-8 {
			std = 1.0
		}
		s.mean[j] = mean
		s.scale[j] = std
	}
	if err := errors.CheckNumericalStability("StandardScaler.Fit", s.mean, 0); err != nil {
		return err
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.check("Transform", X); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	}, X)
	return &out, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.check("InverseTransform", X); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return v*s.scale[j] + s.mean[j]
	}, X)
	return &out, nil
}

// Unscale は標準化データで学習した線形モデルの係数と切片を、元の単位の
// データに対して同じ予測を返す係数と切片に変換する。
//
//	w'(j) = w(j) / σ(j),  b' = b - Σ w(j)·μ(j) / σ(j)
func (s *StandardScaler) Unscale(weights []float64, intercept float64) ([]float64, float64, error) {
	if !s.state.IsFitted() {
		return nil, 0, errors.NewNotFittedError("StandardScaler", "Unscale")
	}
	if len(weights) != len(s.scale) {
		return nil, 0, errors.NewShapeMismatchError("StandardScaler.Unscale", len(weights), len(s.scale))
	}
	out := make([]float64, len(weights))
	for j, w := range weights {
		out[j] = w / s.scale[j]
		intercept -= out[j] * s.mean[j]
	}
	return out, intercept, nil
}

// Mean returns a copy of the fitted column means.
func (s *StandardScaler) Mean() []float64 {
	return append([]float64(nil), s.mean...)
}

// Scale returns a copy of the fitted column standard deviations.
func (s *StandardScaler) Scale() []float64 {
	return append([]float64(nil), s.scale...)
}

func (s *StandardScaler) check(method string, X mat.Matrix) error {
	if !s.state.IsFitted() {
		return errors.NewNotFittedError("StandardScaler", method)
	}
	nFeatures, _ := s.state.GetDimensions()
	if _, c := X.Dims(); c != nFeatures {
		return errors.NewDimensionError("StandardScaler."+method, nFeatures, c, 1)
	}
	return nil
}
