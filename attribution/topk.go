package attribution

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/core/parallel"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/pkg/log"
)

// RankedFactors は行ごとの上位要因。RankedFactors[i][p] は行iでp+1番目に
// 寄与の大きい列名。
type RankedFactors [][]string

// Transpose は順位ごとの並列スライスに変換する。
// 戻り値の[p][i]は行iのp+1番目の要因。
func (rf RankedFactors) Transpose() [][]string {
	if len(rf) == 0 {
		return nil
	}
	k := len(rf[0])
	out := make([][]string, k)
	for p := range out {
		out[p] = make([]string, len(rf))
		for i, row := range rf {
			out[p][i] = row[p]
		}
	}
	return out
}

// TopKFeatures は行ごとに寄与の大きい順に列名を並べ、先頭k個を返す。
//
// k < 1 は ValidationError、k が係数の数を超える場合は
// TooManyFeaturesRequestedError となり、どちらも寄与の計算前に返される。
// 同じ寄与の列は元の列順で並ぶ。
func TopKFeatures(x *FeatureMatrix, coef Coefficients, k int, opts ...Option) (RankedFactors, error) {
	cfg := newSettings(opts)
	logger := cfg.logger.With(log.OperationKey, log.OperationTopK, log.TopKKey, k)

	if err := validateK(k, coef.Len()); err != nil {
		logRejected(logger, err)
		return nil, err
	}

	start := time.Now()
	contrib, _, err := buildContributions(x, coef, log.OperationTopK)
	if err != nil {
		logRejected(logger, err)
		return nil, err
	}

	factors, split := rankRows(contrib, x.columns, k, cfg.parallelThreshold)
	logger.Debug("ranked rows",
		log.SamplesKey, x.NumRows(),
		log.FeaturesKey, x.NumFeatures(),
		log.ParallelKey, split,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return factors, nil
}

// TopKFeaturesForModel は学習済みモデルの係数で TopKFeatures を実行する。
// モデルが特徴量名を公開していれば、係数は列名で対応付けられる。
func TopKFeaturesForModel(m model.CoefficientProvider, x *FeatureMatrix, k int, opts ...Option) (RankedFactors, error) {
	coef, err := coefficientsOf(m, log.OperationTopK)
	if err != nil {
		return nil, err
	}
	return TopKFeatures(x, coef, k, opts...)
}

func validateK(k, available int) error {
	if k < 1 {
		return errors.NewValidationError("k", "must be at least 1", k)
	}
	if k > available {
		return errors.NewTooManyFeaturesRequestedError(k, available)
	}
	return nil
}

// rankRows は各行を独立に安定ソートする。行数が threshold を超えると
// 行範囲ごとに並列化し、分割したかどうかを返す。
func rankRows(contrib *mat.Dense, columns []string, k, threshold int) (RankedFactors, bool) {
	r, c := contrib.Dims()
	out := make(RankedFactors, r)

	split := parallel.ParallelizeWithThreshold(r, threshold, func(start, end int) {
		order := make([]int, c)
		for i := start; i < end; i++ {
			row := contrib.RawRowView(i)
			for j := range order {
				order[j] = j
			}
			sort.SliceStable(order, func(a, b int) bool {
				return row[order[a]] > row[order[b]]
			})

			names := make([]string, k)
			for p := range names {
				names[p] = columns[order[p]]
			}
			out[i] = names
		}
	})
	return out, split
}

// coefficientsOf は学習済みモデルから係数を取り出す。
func coefficientsOf(m model.CoefficientProvider, op string) (Coefficients, error) {
	if m == nil {
		return Coefficients{}, errors.NewNotFittedError("model", op)
	}
	if fc, ok := m.(model.FittedChecker); ok && !fc.IsFitted() {
		return Coefficients{}, errors.NewNotFittedError("model", op)
	}
	weights := m.GetWeights()
	if len(weights) == 0 {
		return Coefficients{}, errors.NewNotFittedError("model", op)
	}
	if namer, ok := m.(model.FeatureNamer); ok {
		if names := namer.GetFeatureNames(); len(names) > 0 {
			return NewNamedCoefficients(names, weights)
		}
	}
	return NewCoefficients(weights), nil
}

func logRejected(logger log.Logger, err error) {
	var code string
	var shapeErr *errors.ShapeMismatchError
	var tooMany *errors.TooManyFeaturesRequestedError
	switch {
	case errors.As(err, &shapeErr):
		code = log.ErrorShapeMismatch
	case errors.As(err, &tooMany):
		code = log.ErrorTooManyFeatures
	default:
		logger.Error("attribution failed", err)
		return
	}
	logger.Error("attribution request rejected", err, log.ErrorCodeKey, code)
}
