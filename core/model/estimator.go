// Package model は学習器の共通インターフェースと、学習済み係数の成果物型を提供する。
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// CoefficientProvider は特徴量ごとの係数を公開する学習済み線形モデル
type CoefficientProvider interface {
	// GetWeights は列順に並んだ係数を返す
	GetWeights() []float64
}

// FeatureNamer は係数に対応する特徴量名を公開するモデル（任意）
type FeatureNamer interface {
	GetFeatureNames() []string
}

// FittedChecker は学習状態を問い合わせ可能なモデル（任意）
type FittedChecker interface {
	IsFitted() bool
}

// LinearModel は寄与度計算に使える線形モデルのインターフェース
type LinearModel interface {
	Fitter
	Predictor
	CoefficientProvider
	FittedChecker
	// GetIntercept は学習された切片を返す
	GetIntercept() float64
	// Score はモデルの評価値（回帰はR²、分類は正解率）を返す
	Score(X, y mat.Matrix) (float64, error)
}
