package linear

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/topfactors/core/model"
	"github.com/YuminosukeSato/topfactors/metrics"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression implements binary logistic regression fitted by
// full-batch gradient descent with optional L2 regularization.
//
// Weights start at zero, so fitting the same data twice yields the same
// coefficients. Labels may be any two distinct values; the larger one is
// the positive class.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	c            float64
	fitIntercept bool
	maxIter      int
	tol          float64
	learningRate float64

	// Fitted parameters
	coef      *mat.VecDense
	intercept float64
	classes   [2]float64
	nIter     int
}

// NewLogisticRegression creates a new LogisticRegression classifier.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		fitIntercept: true,
		maxIter:      1000,
		tol:          1e-4,
		learningRate: 1.0,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit trains the classifier. y must be a column vector holding exactly two
// distinct labels; more classes are rejected since multi-class attribution
// is not supported.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}
	if lr.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", lr.maxIter)
	}

	classes, err := binaryClasses(y)
	if err != nil {
		return err
	}
	lr.classes = classes

	target := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		if y.At(i, 0) == classes[1] {
			target.SetVec(i, 1)
		}
	}

	n := float64(nSamples)
	weights := mat.NewVecDense(nFeatures, nil)
	intercept := 0.0
	residual := mat.NewVecDense(nSamples, nil)
	converged := false

	for iter := 0; iter < lr.maxIter; iter++ {
		var z mat.VecDense
		z.MulVec(X, weights)

		gradIntercept := 0.0
		for i := 0; i < nSamples; i++ {
			r := sigmoid(z.AtVec(i)+intercept) - target.AtVec(i)
			residual.SetVec(i, r)
			gradIntercept += r
		}
		gradIntercept /= n

		var grad mat.VecDense
		grad.MulVec(X.T(), residual)
		grad.ScaleVec(1/n, &grad)
		if lr.c > 0 {
			grad.AddScaledVec(&grad, 1/(lr.c*n), weights)
		}

		// Decaying step size
		rate := lr.learningRate / (1.0 + 0.1*float64(iter))
		weights.AddScaledVec(weights, -rate, &grad)
		if lr.fitIntercept {
			intercept -= rate * gradIntercept
		}
		lr.nIter = iter + 1

		maxGrad := mat.Norm(&grad, math.Inf(1))
		if lr.fitIntercept {
			maxGrad = math.Max(maxGrad, math.Abs(gradIntercept))
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if err := errors.CheckNumericalStability("LogisticRegression.Fit", weights.RawVector().Data, lr.nIter); err != nil {
		return err
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.nIter, ""))
	}

	lr.coef = weights
	lr.intercept = intercept
	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// binaryClasses returns the two sorted labels of y.
func binaryClasses(y mat.Matrix) ([2]float64, error) {
	rows, _ := y.Dims()
	seen := make(map[float64]struct{})
	for i := 0; i < rows; i++ {
		seen[y.At(i, 0)] = struct{}{}
	}
	if len(seen) != 2 {
		return [2]float64{}, errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("expected exactly 2 classes, got %d", len(seen)))
	}
	labels := make([]float64, 0, 2)
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Float64s(labels)
	return [2]float64{labels[0], labels[1]}, nil
}

// DecisionFunction returns the linear score X·w + b for each row.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "DecisionFunction")
	}
	nFeatures, _ := lr.state.GetDimensions()
	if _, c := X.Dims(); c != nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.DecisionFunction", nFeatures, c, 1)
	}
	var z mat.VecDense
	z.MulVec(X, lr.coef)
	for i := 0; i < z.Len(); i++ {
		z.SetVec(i, z.AtVec(i)+lr.intercept)
	}
	return &z, nil
}

// PredictProba returns an r×2 matrix of class probabilities in class order.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	z, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	probas := mat.NewDense(z.Len(), 2, nil)
	for i := 0; i < z.Len(); i++ {
		p := sigmoid(z.AtVec(i))
		probas.Set(i, 0, 1-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Predict returns the predicted label for each row as an r×1 matrix.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	z, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	predictions := mat.NewDense(z.Len(), 1, nil)
	for i := 0; i < z.Len(); i++ {
		label := lr.classes[0]
		if z.AtVec(i) >= 0 {
			label = lr.classes[1]
		}
		predictions.Set(i, 0, label)
	}
	return predictions, nil
}

// Score returns the mean accuracy on the given data.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, predictions)
}

// IsFitted reports whether Fit has completed.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetWeights returns the coefficients in column order.
func (lr *LogisticRegression) GetWeights() []float64 {
	if lr.coef == nil {
		return nil
	}
	out := make([]float64, lr.coef.Len())
	for i := range out {
		out[i] = lr.coef.AtVec(i)
	}
	return out
}

// GetIntercept returns the fitted intercept.
func (lr *LogisticRegression) GetIntercept() float64 {
	return lr.intercept
}

// NIter returns the number of iterations the last Fit ran.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

// Classes returns the two labels seen during Fit, negative class first.
func (lr *LogisticRegression) Classes() [2]float64 {
	return lr.classes
}

// GetParams returns the hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             lr.c,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"learning_rate": lr.learningRate,
	}
}

// ExportWeights writes the fitted coefficients as a storable artifact.
func (lr *LogisticRegression) ExportWeights(featureNames []string) (*model.ModelWeights, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "ExportWeights")
	}
	nFeatures, nSamples := lr.state.GetDimensions()
	mw := &model.ModelWeights{
		ModelType:       "LogisticRegression",
		Version:         model.WeightsFormatVersion,
		Coefficients:    lr.GetWeights(),
		Intercept:       lr.intercept,
		Features:        featureNames,
		Hyperparameters: lr.GetParams(),
		Metadata: map[string]interface{}{
			"n_samples":  nSamples,
			"n_features": nFeatures,
			"n_iter":     lr.nIter,
			"classes":    []float64{lr.classes[0], lr.classes[1]},
		},
		Fitted: true,
	}
	if err := mw.Validate(); err != nil {
		return nil, errors.NewModelError("LogisticRegression.ExportWeights", "invalid weights", err)
	}
	return mw, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + errors.StabilizeExp(-z))
}
