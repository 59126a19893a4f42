// Package trainer は要因分析に使う線形モデルを学習し、モデルストアに保存する。
package trainer

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/linear"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
)

// ModelType は係数を生成するアルゴリズムの種別
type ModelType int

const (
	// Classification はロジスティック回帰で学習する
	Classification ModelType = iota + 1
	// Regression は最小二乗の線形回帰で学習する
	Regression
)

var modelTypeNames = map[ModelType]string{
	Classification: "classification",
	Regression:     "regression",
}

// String returns the tag used in configuration.
func (t ModelType) String() string {
	if name, ok := modelTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// SupportedModelTypes returns the accepted tags.
func SupportedModelTypes() []string {
	return []string{Classification.String(), Regression.String()}
}

// ParseModelType は "classification" / "regression" を ModelType に変換する。
// それ以外は UnsupportedModelTypeError。
func ParseModelType(s string) (ModelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classification":
		return Classification, nil
	case "regression":
		return Regression, nil
	default:
		return 0, errors.NewUnsupportedModelTypeError(s, SupportedModelTypes())
	}
}

// Estimator は学習後に係数を成果物として書き出せる線形モデル
type Estimator interface {
	model.Fitter
	model.CoefficientProvider
	Score(X, y mat.Matrix) (float64, error)
	ExportWeights(featureNames []string) (*model.ModelWeights, error)
}

// NewEstimator は種別に対応する未学習のモデルを作る。
func (t ModelType) NewEstimator(opts ...linear.LogisticOption) (Estimator, error) {
	switch t {
	case Classification:
		return linear.NewLogisticRegression(opts...), nil
	case Regression:
		return linear.NewLinearRegression(), nil
	default:
		return nil, errors.NewUnsupportedModelTypeError(t.String(), SupportedModelTypes())
	}
}
