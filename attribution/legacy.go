package attribution

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/pkg/log"
	"github.com/YuminosukeSato/topfactors/report"
)

const topThree = 3

// FindTopThreeFactors は行ごとに寄与の大きい3つの列名を、順位ごとの
// 並列スライスとして返す。
//
// 寄与を負にして昇順の安定argsortを取る実装で、結果は
// TopKFeatures(x, coef, 3).Transpose() と一致する。特徴量が3つ未満なら
// TooManyFeaturesRequestedError を返す。
func FindTopThreeFactors(trained model.CoefficientProvider, x *FeatureMatrix, opts ...Option) (first, second, third []string, err error) {
	cfg := newSettings(opts)
	logger := cfg.logger.With(log.OperationKey, log.OperationTopThree)

	coef, err := coefficientsOf(trained, log.OperationTopThree)
	if err != nil {
		logRejected(logger, err)
		return nil, nil, nil, err
	}
	if err := validateK(topThree, coef.Len()); err != nil {
		logRejected(logger, err)
		return nil, nil, nil, err
	}

	start := time.Now()
	contrib, weights, err := buildContributions(x, coef, log.OperationTopThree)
	if err != nil {
		logRejected(logger, err)
		return nil, nil, nil, err
	}

	r, c := contrib.Dims()
	first = make([]string, r)
	second = make([]string, r)
	third = make([]string, r)

	negated := make([]float64, c)
	inds := make([]int, c)
	for i := 0; i < r; i++ {
		floats.ScaleTo(negated, -1, contrib.RawRowView(i))
		floats.ArgsortStable(negated, inds)
		first[i] = x.columns[inds[0]]
		second[i] = x.columns[inds[1]]
		third[i] = x.columns[inds[2]]
	}

	logger.Debug("ranked rows",
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if cfg.debug {
		reportDiagnostics(cfg, logger, x, weights, contrib, first, second, third)
	}
	return first, second, third, nil
}

// reportDiagnostics は中間結果を Reporter に渡す。出力の失敗は警告ログに留める。
func reportDiagnostics(cfg *settings, logger log.Logger, x *FeatureMatrix, weights []float64, contrib *mat.Dense, first, second, third []string) {
	const (
		featureRows      = 5
		contributionRows = 3
		factorRows       = 5
	)

	n := min(len(first), factorRows)
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{first[i], second[i], third[i]}
	}

	blocks := []struct{ title, body string }{
		{"coefficients", report.FormatCoefficients(x.columns, weights)},
		{"features (head)", report.FormatMatrix(x.data, featureRows)},
		{"contributions (head)", report.FormatMatrix(contrib, contributionRows)},
		{"top three factors (head)", report.FormatFactorTable(rows, factorRows)},
	}
	for _, b := range blocks {
		if err := cfg.reporter.Report(b.title, b.body); err != nil {
			logger.Warn("failed to write diagnostics", "report.title", b.title, log.ErrAttrKey, err)
			return
		}
	}
}
