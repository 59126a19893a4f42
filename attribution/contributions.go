package attribution

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/pkg/log"
)

// BuildContributions は寄与度行列 C(i,j) = X(i,j)·w(j) を返す。
//
// 係数の数と列数が異なる場合は ShapeMismatchError を返す。名前付きの係数は
// 列名で対応付けられる。寄与にNaNが含まれる場合（NaN入力や 0·Inf）は
// NumericalInstabilityError を返す。
func BuildContributions(x *FeatureMatrix, coef Coefficients) (*mat.Dense, error) {
	contrib, _, err := buildContributions(x, coef, log.OperationContribution)
	return contrib, err
}

func buildContributions(x *FeatureMatrix, coef Coefficients, op string) (*mat.Dense, []float64, error) {
	weights, err := coef.alignTo(x, op)
	if err != nil {
		return nil, nil, err
	}

	var contrib mat.Dense
	contrib.Apply(func(_, j int, v float64) float64 {
		return v * weights[j]
	}, x.data)

	r, c := contrib.Dims()
	if err := errors.CheckNaN(op, &contrib, r, c); err != nil {
		return nil, nil, err
	}
	return &contrib, weights, nil
}
