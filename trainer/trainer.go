package trainer

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/attribution"
	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/linear"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/preprocessing"
	"github.com/YuminosukeSato/topfactors/pkg/log"
	"github.com/YuminosukeSato/topfactors/store"
)

// DefaultArtifactName は学習済みモデルを保存する既定の名前
const DefaultArtifactName = "factorlogit"

// Trainer はモデルを学習し、係数をモデルストアに保存する
type Trainer struct {
	store        store.Store
	artifactName string
	logger       log.Logger
	logisticOpts []linear.LogisticOption
	standardize  bool
}

// Option は Trainer を設定する関数
type Option func(*Trainer)

// WithArtifactName sets the name fitted models are saved under.
func WithArtifactName(name string) Option {
	return func(t *Trainer) {
		t.artifactName = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// WithLogisticOptions は分類モデルのハイパーパラメータを渡す。
func WithLogisticOptions(opts ...linear.LogisticOption) Option {
	return func(t *Trainer) {
		t.logisticOpts = append(t.logisticOpts, opts...)
	}
}

// WithStandardization は各列を標準化してから学習する。保存される係数は
// 元の単位に戻してあるため、寄与度は生の特徴量で計算できる。
func WithStandardization() Option {
	return func(t *Trainer) {
		t.standardize = true
	}
}

// NewTrainer creates a Trainer that persists to s.
func NewTrainer(s store.Store, opts ...Option) (*Trainer, error) {
	if s == nil {
		return nil, errors.NewValueError("NewTrainer", "store must not be nil")
	}
	t := &Trainer{
		store:        s,
		artifactName: DefaultArtifactName,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.GetLoggerWithName("trainer")
	}
	return t, nil
}

// FitForFactors は modelType に応じたモデルを x, y で学習し、係数を列名付きで
// 保存して返す。未知の modelType は学習せずに UnsupportedModelTypeError を返す。
// 保存に失敗した場合はそのエラーを返し、再試行はしない。
func (t *Trainer) FitForFactors(ctx context.Context, modelType string, x *attribution.FeatureMatrix, y mat.Matrix) (*model.ModelWeights, error) {
	logger := t.logger.With(log.OperationKey, log.OperationFit, log.ModelTypeKey, modelType)

	mt, err := ParseModelType(modelType)
	if err != nil {
		logger.Error("cannot fit model", err, log.ErrorCodeKey, log.ErrorUnsupportedType)
		return nil, err
	}
	if x == nil || y == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	est, err := mt.NewEstimator(t.logisticOpts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var data mat.Matrix = x.Data()
	var scaler *preprocessing.StandardScaler
	if t.standardize {
		scaler = preprocessing.NewStandardScaler()
		scaled, err := scaler.FitTransform(data)
		if err != nil {
			return nil, err
		}
		data = scaled
	}
	// gonum は形状違反を panic で報告する
	if err := errors.SafeExecute("FitForFactors", func() error { return est.Fit(data, y) }); err != nil {
		logger.Error("fit failed", err)
		return nil, err
	}

	score, err := est.Score(data, y)
	if err != nil {
		return nil, err
	}

	mw, err := est.ExportWeights(x.Columns())
	if err != nil {
		return nil, err
	}
	if mw.Metadata == nil {
		mw.Metadata = map[string]interface{}{}
	}
	if scaler != nil {
		mw.Coefficients, mw.Intercept, err = scaler.Unscale(mw.Coefficients, mw.Intercept)
		if err != nil {
			return nil, err
		}
		mw.Metadata["standardized"] = true
	}
	mw.Metadata["model_type"] = mt.String()
	mw.Metadata["training_score"] = score

	if err := t.store.Save(ctx, t.artifactName, mw); err != nil {
		logger.Error("failed to save model", err, log.ArtifactKey, t.artifactName)
		return nil, err
	}

	scoreKey := log.R2ScoreKey
	if mt == Classification {
		scoreKey = log.AccuracyKey
	}
	logger.Info("model fitted",
		log.ModelNameKey, mw.ModelType,
		log.SamplesKey, x.NumRows(),
		log.FeaturesKey, x.NumFeatures(),
		scoreKey, score,
		log.ArtifactKey, t.artifactName,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return mw, nil
}

// LoadForFactors は保存済みの係数を読み込む。name が空なら既定の名前を使う。
func (t *Trainer) LoadForFactors(ctx context.Context, name string) (*model.ModelWeights, error) {
	if name == "" {
		name = t.artifactName
	}
	mw, err := t.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if !mw.IsFitted() {
		return nil, errors.NewNotFittedError(mw.ModelType, "LoadForFactors")
	}
	return mw, nil
}
