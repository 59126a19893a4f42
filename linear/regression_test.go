package linear

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLinearRegressionRecoversCoefficients(t *testing.T) {
	// y = 1 + 3*x0 - 1*x1
	X := mat.NewDense(5, 2, []float64{
		2, 10,
		1, 5,
		0, 1,
		4, 2,
		3, 7,
	})
	y := mat.NewDense(5, 1, nil)
	for i := 0; i < 5; i++ {
		y.Set(i, 0, 1+3*X.At(i, 0)-X.At(i, 1))
	}

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	assert.True(t, lr.IsFitted())

	weights := lr.GetWeights()
	require.Len(t, weights, 2)
	assert.InDelta(t, 3.0, weights[0], 1e-8)
	assert.InDelta(t, -1.0, weights[1], 1e-8)
	assert.InDelta(t, 1.0, lr.GetIntercept(), 1e-8)

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-10)
}

func TestLinearRegressionLargeInputUsesParallelCopy(t *testing.T) {
	X, y := createBenchmarkData(2500, 4)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	for j, w := range lr.GetWeights() {
		assert.InDelta(t, float64(j+1)*0.5, w, 0.01)
	}
	assert.InDelta(t, 1.0, lr.GetIntercept(), 0.01)
}

func TestLinearRegressionErrors(t *testing.T) {
	lr := NewLinearRegression()

	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	_, err = lr.ExportWeights(nil)
	assert.True(t, errors.As(err, &notFitted))

	err = lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	// Duplicate column -> singular X^T X
	err = lr.Fit(mat.NewDense(3, 2, []float64{1, 1, 2, 2, 3, 3}), mat.NewDense(3, 1, []float64{1, 2, 3}))
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
}

func TestLinearRegressionExportWeights(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	mw, err := lr.ExportWeights([]string{"dose"})
	require.NoError(t, err)
	assert.Equal(t, "LinearRegression", mw.ModelType)
	assert.Equal(t, []string{"dose"}, mw.Features)
	assert.InDelta(t, 2.0, mw.Coefficients[0], 1e-9)
	assert.False(t, math.IsNaN(mw.Intercept))

	_, err = lr.ExportWeights([]string{"dose", "extra"})
	assert.Error(t, err)
}
