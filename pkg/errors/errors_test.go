package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewShapeMismatchError(t *testing.T) {
	err := NewShapeMismatchError("BuildContributions", 3, 2)

	want := "topfactors: BuildContributions: coefficient vector has length 3 but the feature matrix has 2 columns"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var shapeErr *ShapeMismatchError
	if !As(err, &shapeErr) {
		t.Fatal("Error should be castable to *ShapeMismatchError")
	}
	if shapeErr.Coefficients != 3 || shapeErr.Features != 2 {
		t.Errorf("unexpected lengths: %+v", shapeErr)
	}

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}
}

func TestNewTooManyFeaturesRequestedError(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		max       int
		wantMsg   string
	}{
		{
			name:      "one over",
			requested: 4,
			max:       3,
			wantMsg:   "topfactors: you requested 4 top features, which is more than the 3 features from the original model. Please choose 3 or less.",
		},
		{
			name:      "legacy arity against two features",
			requested: 3,
			max:       2,
			wantMsg:   "topfactors: you requested 3 top features, which is more than the 2 features from the original model. Please choose 2 or less.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTooManyFeaturesRequestedError(tt.requested, tt.max)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var tooMany *TooManyFeaturesRequestedError
			if !As(err, &tooMany) {
				t.Error("Error should be castable to *TooManyFeaturesRequestedError")
			}
		})
	}
}

func TestNewUnsupportedModelTypeError(t *testing.T) {
	err := NewUnsupportedModelTypeError("clustering", []string{"classification", "regression"})

	want := `topfactors: unsupported model type "clustering"; expected one of: classification, regression`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var unsupported *UnsupportedModelTypeError
	if !As(err, &unsupported) {
		t.Error("Error should be castable to *UnsupportedModelTypeError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearRegression", "GetWeights")

	want := "topfactors: LinearRegression: this model is not fitted yet. Call Fit() before using GetWeights()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Fit", 10, 8, 0)

	want := "topfactors: Fit: dimension mismatch on axis 0 (rows). Expected 10, got 8"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestModelErrorUnwrap(t *testing.T) {
	err := NewModelError("LinearRegression.Fit", "singular matrix", ErrSingularMatrix)

	if !Is(err, ErrSingularMatrix) {
		t.Error("Expected Is(err, ErrSingularMatrix) to be true")
	}
	if !strings.Contains(err.Error(), "singular matrix") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d rows", "TopKFeatures", 1)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in TopKFeatures: expected 1 rows") {
		t.Errorf("unexpected message: %v", wrapped)
	}
}

func TestCheckNaN(t *testing.T) {
	clean := mat.NewDense(2, 2, []float64{1, math.Inf(1), -3, 4})
	if err := CheckNaN("op", clean, 2, 2); err != nil {
		t.Fatalf("infinite values must be accepted: %v", err)
	}

	dirty := mat.NewDense(3, 2, []float64{1, 2, 3, 4, math.NaN(), 6})
	err := CheckNaN("build_contributions", dirty, 3, 2)
	if err == nil {
		t.Fatal("expected NaN to be reported")
	}

	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected *NumericalInstabilityError, got %T", err)
	}
	if numErr.Iteration != 2 {
		t.Errorf("expected offending row 2, got %d", numErr.Iteration)
	}
	if len(numErr.Values) != 2 || numErr.Values[1] != 6 {
		t.Errorf("expected the offending row values, got %v", numErr.Values)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("fit", []float64{0.1, -2}, 3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckNumericalStability("fit", []float64{0.1, math.Inf(-1)}, 3); err == nil {
		t.Error("expected instability to be detected")
	}
}

func TestStabilizeExp(t *testing.T) {
	if math.IsInf(StabilizeExp(1e6), 0) {
		t.Error("StabilizeExp must not overflow")
	}
	if StabilizeExp(-1e6) != 0 {
		t.Error("StabilizeExp must underflow to zero")
	}
	if got := StabilizeExp(1); math.Abs(got-math.E) > 1e-12 {
		t.Errorf("StabilizeExp(1) = %v", got)
	}
}

func TestWarnUsesZerologFunc(t *testing.T) {
	var got error
	SetZerologWarnFunc(func(w error) { got = w })
	defer SetZerologWarnFunc(nil)

	w := NewConvergenceWarning("LogisticRegression", 100, "")
	Warn(w)

	if got != w {
		t.Errorf("expected warning to be routed to zerolog func, got %v", got)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "Multiply")
		panic("mat: dimension mismatch")
	}

	err := fn()
	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Error() != "panic in Multiply: mat: dimension mismatch" {
		t.Errorf("unexpected message: %v", panicErr)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
}

func TestSafeExecutePreservesError(t *testing.T) {
	base := fmt.Errorf("base error")
	if err := SafeExecute("noop", func() error { return base }); err != base {
		t.Errorf("expected original error, got %v", err)
	}
	if err := SafeExecute("noop", func() error { return nil }); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
