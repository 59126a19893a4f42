package trainer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/attribution"
	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/linear"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/pkg/log"
	"github.com/YuminosukeSato/topfactors/store"
)

func TestParseModelType(t *testing.T) {
	tests := []struct {
		input    string
		expected ModelType
		wantErr  bool
	}{
		{"classification", Classification, false},
		{"regression", Regression, false},
		{" Regression ", Regression, false},
		{"clustering", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseModelType(tt.input)
			if tt.wantErr {
				var unsupported *errors.UnsupportedModelTypeError
				require.True(t, errors.As(err, &unsupported))
				assert.Equal(t, tt.input, unsupported.ModelType)
				assert.Equal(t, []string{"classification", "regression"}, unsupported.Supported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestModelTypeNewEstimator(t *testing.T) {
	est, err := Classification.NewEstimator(linear.WithMaxIter(10))
	require.NoError(t, err)
	assert.IsType(t, &linear.LogisticRegression{}, est)

	est, err = Regression.NewEstimator()
	require.NoError(t, err)
	assert.IsType(t, &linear.LinearRegression{}, est)

	_, err = ModelType(42).NewEstimator()
	assert.Error(t, err)
	assert.Equal(t, "unknown", ModelType(42).String())
}

func newTestTrainer(t *testing.T, opts ...Option) (*Trainer, store.Store) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	tr, err := NewTrainer(s, opts...)
	require.NoError(t, err)
	return tr, s
}

func classificationData(t *testing.T) (*attribution.FeatureMatrix, mat.Matrix) {
	t.Helper()
	x, err := attribution.NewFeatureMatrix([]string{"age", "bp", "bmi"}, mat.NewDense(6, 3, []float64{
		0.5, 0.5, 1,
		1.0, 1.5, 0,
		1.5, 1.0, 1,
		3.0, 2.5, 0,
		2.5, 3.0, 1,
		3.5, 3.5, 0,
	}))
	require.NoError(t, err)
	return x, mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
}

func TestFitForFactorsClassification(t *testing.T) {
	ctx := context.Background()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	tr, s := newTestTrainer(t, WithLogger(logger), WithLogisticOptions(linear.WithMaxIter(2000)))
	x, y := classificationData(t)

	mw, err := tr.FitForFactors(ctx, "classification", x, y)
	require.NoError(t, err)
	assert.Equal(t, "LogisticRegression", mw.ModelType)
	assert.Equal(t, []string{"age", "bp", "bmi"}, mw.Features)
	assert.Equal(t, "classification", mw.Metadata["model_type"])

	stored, err := s.Load(ctx, DefaultArtifactName)
	require.NoError(t, err)
	assert.Equal(t, mw.Coefficients, stored.Coefficients)

	assert.True(t, logger.ContainsMessage("model fitted"))
	assert.True(t, logger.ContainsField(log.AccuracyKey, 1.0))

	// 保存された係数でそのまま要因分析できる
	loaded, err := tr.LoadForFactors(ctx, "")
	require.NoError(t, err)
	first, second, third, err := attribution.FindTopThreeFactors(loaded, x)
	require.NoError(t, err)
	topK, err := attribution.TopKFeaturesForModel(loaded, x, 3)
	require.NoError(t, err)
	assert.Equal(t, topK.Transpose(), [][]string{first, second, third})
}

func TestFitForFactorsRegression(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTrainer(t, WithArtifactName("price"))

	x, err := attribution.NewFeatureMatrix([]string{"rooms", "age"}, mat.NewDense(5, 2, []float64{
		2, 10,
		1, 5,
		0, 1,
		4, 2,
		3, 7,
	}))
	require.NoError(t, err)
	y := mat.NewDense(5, 1, nil)
	for i := 0; i < 5; i++ {
		y.Set(i, 0, 1+3*x.At(i, 0)-x.At(i, 1))
	}

	mw, err := tr.FitForFactors(ctx, "regression", x, y)
	require.NoError(t, err)
	assert.Equal(t, "LinearRegression", mw.ModelType)
	assert.InDelta(t, 3.0, mw.Coefficients[0], 1e-8)
	assert.InDelta(t, -1.0, mw.Coefficients[1], 1e-8)

	loaded, err := tr.LoadForFactors(ctx, "price")
	require.NoError(t, err)
	assert.Equal(t, mw.Features, loaded.Features)

	_, err = tr.LoadForFactors(ctx, DefaultArtifactName)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestFitForFactorsStandardization(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTrainer(t, WithStandardization())

	x, err := attribution.NewFeatureMatrix([]string{"income", "age"}, mat.NewDense(5, 2, []float64{
		52000, 41,
		31000, 25,
		78000, 60,
		45000, 33,
		61000, 52,
	}))
	require.NoError(t, err)
	y := mat.NewDense(5, 1, nil)
	for i := 0; i < 5; i++ {
		y.Set(i, 0, 2+0.001*x.At(i, 0)-0.5*x.At(i, 1))
	}

	mw, err := tr.FitForFactors(ctx, "regression", x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.001, mw.Coefficients[0], 1e-9)
	assert.InDelta(t, -0.5, mw.Coefficients[1], 1e-7)
	assert.InDelta(t, 2.0, mw.Intercept, 1e-5)
	assert.Equal(t, true, mw.Metadata["standardized"])
}

func TestFitForFactorsStandardizedClassification(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTrainer(t, WithStandardization())
	x, y := classificationData(t)

	mw, err := tr.FitForFactors(ctx, "classification", x, y)
	require.NoError(t, err)

	// 元の単位の係数で計算した決定関数が学習ラベルを再現する
	for i := 0; i < x.NumRows(); i++ {
		z := mw.Intercept
		for j, w := range mw.Coefficients {
			z += w * x.At(i, j)
		}
		assert.Equal(t, y.At(i, 0) == 1, z >= 0, "row %d", i)
	}
}

func TestFitForFactorsUnsupportedType(t *testing.T) {
	ctx := context.Background()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	tr, s := newTestTrainer(t, WithLogger(logger))
	x, y := classificationData(t)

	mw, err := tr.FitForFactors(ctx, "clustering", x, y)
	assert.Nil(t, mw)
	var unsupported *errors.UnsupportedModelTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorUnsupportedType))

	_, err = s.Load(ctx, DefaultArtifactName)
	assert.True(t, errors.Is(err, store.ErrNotFound), "nothing must be persisted")
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, *model.ModelWeights) error {
	return errors.New("disk full")
}

func (failingStore) Load(context.Context, string) (*model.ModelWeights, error) {
	return nil, store.ErrNotFound
}

func TestFitForFactorsPropagatesStoreErrors(t *testing.T) {
	tr, err := NewTrainer(failingStore{})
	require.NoError(t, err)
	x, y := classificationData(t)

	_, err = tr.FitForFactors(context.Background(), "classification", x, y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFitForFactorsInputErrors(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTrainer(t)
	x, _ := classificationData(t)

	_, err := tr.FitForFactors(ctx, "regression", x, mat.NewDense(2, 1, []float64{1, 2}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = tr.FitForFactors(ctx, "classification", x, mat.NewDense(6, 1, []float64{0, 1, 2, 0, 1, 2}))
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	_, err = tr.FitForFactors(ctx, "regression", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = tr.FitForFactors(cancelled, "regression", x, mat.NewDense(6, 1, nil))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewTrainer(nil)
	assert.Error(t, err)
}
