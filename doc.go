// Package topfactors explains the predictions of linear models row by row.
//
// For every observation it answers "which features pushed this prediction the
// most?" by multiplying each feature value with the model coefficient for that
// feature and ranking the products.
//
// # Installation
//
//	go get github.com/YuminosukeSato/topfactors
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/topfactors/attribution"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    x, err := attribution.NewFeatureMatrix(
//	        []string{"a", "b", "c"},
//	        mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    coef := attribution.NewCoefficients([]float64{1.0, -1.0, 0.5})
//
//	    ranked, err := attribution.TopKFeatures(x, coef, 2)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(ranked) // [[c a] [a c]]
//	}
//
// # Packages
//
//   - attribution: contribution matrix, Top-K ranking, FindTopThreeFactors
//   - linear: LinearRegression and LogisticRegression producing coefficients
//   - trainer: FitForFactors / LoadForFactors and the ModelType enum
//   - store: model store backed by a directory or SQLite
//   - report: text and plot output for diagnostics and importances
//   - preprocessing: StandardScaler
//   - metrics: R², MSE and accuracy
//   - config: YAML configuration for the topfactors command
//   - core/model: model interfaces, weights artifacts and codecs
//   - core/parallel: row-parallel helpers
//   - pkg/errors, pkg/log: error types and structured logging
//
// The topfactors command in cmd/topfactors wires these together for CSV
// input.
package topfactors
