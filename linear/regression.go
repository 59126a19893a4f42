// Package linear は寄与度計算に必要な係数を生成する線形モデルを提供する。
//
//   - LinearRegression: 正規方程式による最小二乗回帰
//   - LogisticRegression: 勾配降下法による二値ロジスティック回帰
//
// どちらも学習後に GetWeights で列順の係数を返し、ExportWeights で
// モデルストアに保存できる成果物を作る。
package linear

import (
	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/core/parallel"
	"github.com/YuminosukeSato/topfactors/metrics"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LinearRegression は線形回帰モデル
type LinearRegression struct {
	state     *model.StateManager
	weights   *mat.VecDense // 重み（係数）
	intercept float64       // 切片
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{state: model.NewStateManager()}
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (X^T * X)^(-1) * X^T * y を使用
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	// 切片項のために X に 1 の列を追加
	XWithIntercept := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	var XTX mat.Dense
	XTX.Mul(XWithIntercept.T(), XWithIntercept)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(XWithIntercept.T(), yVec)

	weights := mat.NewVecDense(c+1, nil)
	weights.MulVec(&XTXInv, &XTy)

	if err := errors.CheckNumericalStability("LinearRegression.Fit", weights.RawVector().Data, 0); err != nil {
		return err
	}

	lr.intercept = weights.AtVec(0)
	lr.weights = mat.VecDenseCopyOf(weights.SliceVec(1, c+1))
	lr.state.SetDimensions(c, r)
	lr.state.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	nFeatures, _ := lr.state.GetDimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", nFeatures, c, 1)
	}

	// y = X * weights + intercept
	var pred mat.VecDense
	pred.MulVec(X, lr.weights)
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, pred.AtVec(i)+lr.intercept)
	}
	return predictions, nil
}

// IsFitted はモデルが学習済みかどうかを返す
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.weights == nil {
		return nil
	}
	weights := make([]float64, lr.weights.Len())
	for i := range weights {
		weights[i] = lr.weights.AtVec(i)
	}
	return weights
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.state.IsFitted() {
		return 0
	}
	return lr.intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2Score(y, yPred)
}

// ExportWeights は学習済みの係数を成果物として書き出す。
// featureNames が空でなければ係数と同じ長さでなければならない。
func (lr *LinearRegression) ExportWeights(featureNames []string) (*model.ModelWeights, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "ExportWeights")
	}
	nFeatures, nSamples := lr.state.GetDimensions()
	mw := &model.ModelWeights{
		ModelType:       "LinearRegression",
		Version:         model.WeightsFormatVersion,
		Coefficients:    lr.GetWeights(),
		Intercept:       lr.intercept,
		Features:        featureNames,
		Hyperparameters: map[string]interface{}{"fit_intercept": true},
		Metadata:        map[string]interface{}{"n_samples": nSamples, "n_features": nFeatures},
		Fitted:          true,
	}
	if err := mw.Validate(); err != nil {
		return nil, errors.NewModelError("LinearRegression.ExportWeights", "invalid weights", err)
	}
	return mw, nil
}
