// Package metrics は学習済みモデルの評価指標を提供する。
// 入力はすべて n×1 の列ベクトル。
package metrics

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
)

// column は n×1 行列を []float64 に展開する
func column(op string, m mat.Matrix) ([]float64, error) {
	r, c := m.Dims()
	if r == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	if c != 1 {
		return nil, errors.NewDimensionError(op, 1, c, 1)
	}
	out := make([]float64, r)
	for i := range out {
		out[i] = m.At(i, 0)
	}
	return out, nil
}

func pair(op string, yTrue, yPred mat.Matrix) ([]float64, []float64, error) {
	t, err := column(op, yTrue)
	if err != nil {
		return nil, nil, err
	}
	p, err := column(op, yPred)
	if err != nil {
		return nil, nil, err
	}
	if len(t) != len(p) {
		return nil, nil, errors.NewDimensionError(op, len(t), len(p), 0)
	}
	return t, p, nil
}

// MSE は平均二乗誤差を計算する
func MSE(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range t {
		d := t[i] - p[i]
		sum += d * d
	}
	return sum / float64(len(t)), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	yMean := stat.Mean(t, nil)
	var tss, rss float64
	for i := range t {
		tss += (t[i] - yMean) * (t[i] - yMean)
		rss += (t[i] - p[i]) * (t[i] - p[i])
	}
	// すべてのyTrueが同じ値
	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// Accuracy は予測ラベルが一致した割合を計算する
func Accuracy(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range t {
		if t[i] == p[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(t)), nil
}
