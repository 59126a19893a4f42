package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "LinearRegression".
	ModelNameKey = "model.name"

	// ModelTypeKey is the fitting strategy tag: "classification" or "regression".
	ModelTypeKey = "model.type"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey indicates the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// CoefficientsKey indicates the length of a coefficient vector.
	CoefficientsKey = "data.coefficients"
)

// Attribution parameters.
const (
	// TopKKey records how many factors were requested per row.
	TopKKey = "attribution.k"

	// ParallelKey records whether rows were split across workers.
	ParallelKey = "attribution.parallel"
)

// Performance and training.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// IterationKey records the iteration count of an iterative solver.
	IterationKey = "training.iteration"

	// R2ScoreKey records the coefficient of determination after a regression fit.
	R2ScoreKey = "metrics.r2_score"

	// AccuracyKey records training accuracy after a classification fit.
	AccuracyKey = "metrics.accuracy"
)

// Persistence.
const (
	// ArtifactKey is the name a model artifact is stored under.
	ArtifactKey = "store.artifact"

	// BackendKey identifies the store implementation ("file", "sqlite").
	BackendKey = "store.backend"
)

// Error context.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationContribution = "build_contributions"
	OperationTopK         = "top_k_features"
	OperationTopThree     = "find_top_three_factors"
	OperationSave         = "save"
	OperationLoad         = "load"

	ErrorShapeMismatch   = "SHAPE_MISMATCH"
	ErrorTooManyFeatures = "TOO_MANY_FEATURES"
	ErrorUnsupportedType = "UNSUPPORTED_MODEL_TYPE"
)
