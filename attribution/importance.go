package attribution

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
)

// FeatureImportance は特徴量名とその重要度の組
type FeatureImportance struct {
	Name       string
	Importance float64
}

// FeatureImportances は重要度の降順に並んだ一覧
type FeatureImportances []FeatureImportance

// Names returns the feature names in rank order.
func (fi FeatureImportances) Names() []string {
	out := make([]string, len(fi))
	for i, f := range fi {
		out[i] = f.Name
	}
	return out
}

// Values returns the importances in rank order.
func (fi FeatureImportances) Values() []float64 {
	out := make([]float64, len(fi))
	for i, f := range fi {
		out[i] = f.Importance
	}
	return out
}

// RankFeatureImportances は重要度の降順に特徴量を並べる。
// 同じ重要度は入力順を保つ。
func RankFeatureImportances(names []string, importances []float64) (FeatureImportances, error) {
	if len(names) != len(importances) {
		return nil, errors.NewShapeMismatchError("RankFeatureImportances", len(importances), len(names))
	}
	if err := errors.CheckNumericalStability("RankFeatureImportances", importances, 0); err != nil {
		return nil, err
	}
	out := make(FeatureImportances, len(names))
	for i, name := range names {
		out[i] = FeatureImportance{Name: name, Importance: importances[i]}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Importance > out[b].Importance
	})
	return out, nil
}

// CoefficientImportances は係数の絶対値を重要度として順位付けする。
// 名前のない係数は "x0", "x1", ... と呼ぶ。
func CoefficientImportances(coef Coefficients) (FeatureImportances, error) {
	names := coef.Names()
	if names == nil {
		names = make([]string, coef.Len())
		for j := range names {
			names[j] = fmt.Sprintf("x%d", j)
		}
	}
	magnitudes := make([]float64, coef.Len())
	for j, w := range coef.weights {
		magnitudes[j] = math.Abs(w)
	}
	return RankFeatureImportances(names, magnitudes)
}
