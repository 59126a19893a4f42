package linear

import (
	"testing"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func separableData() (*mat.Dense, *mat.Dense) {
	// Class 0 around (1, 1), class 1 around (3, 3)
	X := mat.NewDense(6, 2, []float64{
		0.5, 0.5,
		1.0, 1.5,
		1.5, 1.0,
		3.0, 2.5,
		2.5, 3.0,
		3.5, 3.5,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
	return X, y
}

func TestLogisticRegressionFitPredict(t *testing.T) {
	X, y := separableData()

	lr := NewLogisticRegression(WithMaxIter(2000), WithC(10))
	require.NoError(t, lr.Fit(X, y))

	accuracy, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, accuracy)

	XTest := mat.NewDense(2, 2, []float64{
		1.0, 1.0,
		3.0, 3.0,
	})
	pred, err := lr.Predict(XTest)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred.At(0, 0))
	assert.Equal(t, 1.0, pred.At(1, 0))

	probas, err := lr.PredictProba(XTest)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		assert.InDelta(t, 1.0, probas.At(i, 0)+probas.At(i, 1), 1e-12)
	}
	assert.Greater(t, probas.At(1, 1), 0.5)

	for _, w := range lr.GetWeights() {
		assert.Greater(t, w, 0.0, "both features push towards the positive class")
	}
}

func TestLogisticRegressionIsDeterministic(t *testing.T) {
	X, y := separableData()

	a := NewLogisticRegression(WithMaxIter(50))
	b := NewLogisticRegression(WithMaxIter(50))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	assert.Equal(t, a.GetWeights(), b.GetWeights())
	assert.Equal(t, a.GetIntercept(), b.GetIntercept())
}

func TestLogisticRegressionArbitraryLabels(t *testing.T) {
	X, _ := separableData()
	y := mat.NewDense(6, 1, []float64{-1, -1, -1, 5, 5, 5})

	lr := NewLogisticRegression(WithMaxIter(2000))
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, [2]float64{-1, 5}, lr.Classes())

	pred, err := lr.Predict(mat.NewDense(1, 2, []float64{3.5, 3.5}))
	require.NoError(t, err)
	assert.Equal(t, 5.0, pred.At(0, 0))
}

func TestLogisticRegressionRejectsMulticlass(t *testing.T) {
	X, _ := separableData()
	y := mat.NewDense(6, 1, []float64{0, 1, 2, 0, 1, 2})

	err := NewLogisticRegression().Fit(X, y)
	var valueErr *errors.ValueError
	require.True(t, errors.As(err, &valueErr))
	assert.Contains(t, err.Error(), "expected exactly 2 classes, got 3")
}

func TestLogisticRegressionConvergenceWarning(t *testing.T) {
	var warnings []error
	errors.SetZerologWarnFunc(func(w error) { warnings = append(warnings, w) })
	defer errors.SetZerologWarnFunc(nil)

	X, y := separableData()
	lr := NewLogisticRegression(WithMaxIter(1), WithTol(1e-12))
	require.NoError(t, lr.Fit(X, y))

	require.Len(t, warnings, 1)
	var conv *errors.ConvergenceWarning
	assert.True(t, errors.As(warnings[0], &conv))
	assert.Equal(t, 1, lr.NIter())
}

func TestLogisticRegressionExportWeights(t *testing.T) {
	X, y := separableData()
	lr := NewLogisticRegression()

	_, err := lr.ExportWeights(nil)
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	require.NoError(t, lr.Fit(X, y))
	mw, err := lr.ExportWeights([]string{"x0", "x1"})
	require.NoError(t, err)
	assert.Equal(t, "LogisticRegression", mw.ModelType)
	assert.Equal(t, lr.GetWeights(), mw.Coefficients)
	assert.Equal(t, 1.0, mw.Hyperparameters["C"])
}
