package model

import (
	"encoding/json"
	"fmt"
)

// WeightsFormatVersion は成果物フォーマットのバージョン
const WeightsFormatVersion = "1.0"

// ModelWeights は学習済み線形モデルの係数を表す成果物（シリアライゼーション用）。
// モデルストアに保存され、寄与度計算では CoefficientProvider として読み戻される。
type ModelWeights struct {
	// ModelType はモデルの種類（LinearRegression, LogisticRegression等）
	ModelType string `json:"model_type"`

	// Version は成果物フォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は特徴量ごとの重み係数
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// Features は係数に対応する特徴量名（Coefficientsと同じ順序）
	Features []string `json:"features,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters,omitempty"`

	// Metadata は追加のメタデータ（学習時のサンプル数、スコア等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// Fitted はモデルが学習済みかどうか
	Fitted bool `json:"is_fitted"`
}

// GetWeights は係数のコピーを返す（CoefficientProvider）
func (mw *ModelWeights) GetWeights() []float64 {
	out := make([]float64, len(mw.Coefficients))
	copy(out, mw.Coefficients)
	return out
}

// GetFeatureNames は特徴量名のコピーを返す（FeatureNamer）
func (mw *ModelWeights) GetFeatureNames() []string {
	if len(mw.Features) == 0 {
		return nil
	}
	out := make([]string, len(mw.Features))
	copy(out, mw.Features)
	return out
}

// IsFitted は成果物が学習済みモデルから作られたかを返す（FittedChecker）
func (mw *ModelWeights) IsFitted() bool {
	return mw.Fitted
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, mw)
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}
	if mw.Version == "" {
		return fmt.Errorf("version is required")
	}
	if !mw.Fitted && len(mw.Coefficients) > 0 {
		return fmt.Errorf("unfitted model should not have coefficients")
	}
	if mw.Fitted && len(mw.Coefficients) == 0 {
		return fmt.Errorf("fitted model must have coefficients")
	}
	if len(mw.Features) > 0 && len(mw.Features) != len(mw.Coefficients) {
		return fmt.Errorf("features has %d names but there are %d coefficients", len(mw.Features), len(mw.Coefficients))
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Intercept:       mw.Intercept,
		Fitted:          mw.Fitted,
		Coefficients:    mw.GetWeights(),
		Features:        mw.GetFeatureNames(),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}
	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
