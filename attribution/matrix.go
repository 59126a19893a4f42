package attribution

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
)

// FeatureMatrix は列名付きの特徴量行列。列順は係数の順序と一致している必要がある。
// 構築後に変更されることはない。
type FeatureMatrix struct {
	columns []string
	index   map[string]int
	data    *mat.Dense
}

// NewFeatureMatrix は列名とデータから FeatureMatrix を作る。
// データはコピーされるため、呼び出し側の行列が変更されることはない。
func NewFeatureMatrix(columns []string, data mat.Matrix) (*FeatureMatrix, error) {
	if data == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	r, c := data.Dims()
	if r == 0 || c == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(columns) != c {
		return nil, errors.NewDimensionError("NewFeatureMatrix", c, len(columns), 1)
	}

	index := make(map[string]int, c)
	for j, name := range columns {
		if name == "" {
			return nil, errors.NewValidationError("columns", "column names must not be empty", j)
		}
		if _, dup := index[name]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", name)
		}
		index[name] = j
	}

	cols := make([]string, c)
	copy(cols, columns)
	return &FeatureMatrix{
		columns: cols,
		index:   index,
		data:    mat.DenseCopyOf(data),
	}, nil
}

// Columns returns a copy of the column names in order.
func (x *FeatureMatrix) Columns() []string {
	out := make([]string, len(x.columns))
	copy(out, x.columns)
	return out
}

// NumRows returns the number of samples.
func (x *FeatureMatrix) NumRows() int {
	r, _ := x.data.Dims()
	return r
}

// NumFeatures returns the number of columns.
func (x *FeatureMatrix) NumFeatures() int {
	return len(x.columns)
}

// ColumnIndex returns the position of the named column.
func (x *FeatureMatrix) ColumnIndex(name string) (int, bool) {
	j, ok := x.index[name]
	return j, ok
}

// At returns the value at row i, column j.
func (x *FeatureMatrix) At(i, j int) float64 {
	return x.data.At(i, j)
}

// Data returns a copy of the underlying values.
func (x *FeatureMatrix) Data() *mat.Dense {
	return mat.DenseCopyOf(x.data)
}

// Drop は指定した列を除いた新しい FeatureMatrix を返す。
// 目的変数や識別子の列を学習前に取り除くのに使う。
func (x *FeatureMatrix) Drop(names ...string) (*FeatureMatrix, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := x.index[name]; !ok {
			return nil, errors.NewValidationError("columns", "unknown column", name)
		}
		drop[name] = true
	}

	keep := make([]int, 0, len(x.columns))
	for j, name := range x.columns {
		if !drop[name] {
			keep = append(keep, j)
		}
	}
	if len(keep) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	r := x.NumRows()
	cols := make([]string, len(keep))
	data := mat.NewDense(r, len(keep), nil)
	for k, j := range keep {
		cols[k] = x.columns[j]
		for i := 0; i < r; i++ {
			data.Set(i, k, x.data.At(i, j))
		}
	}
	return NewFeatureMatrix(cols, data)
}

// Column は名前で指定した列を r×1 の行列として返す。
func (x *FeatureMatrix) Column(name string) (*mat.Dense, error) {
	j, ok := x.index[name]
	if !ok {
		return nil, errors.NewValidationError("columns", "unknown column", name)
	}
	r := x.NumRows()
	out := mat.NewDense(r, 1, nil)
	out.Copy(x.data.ColView(j))
	return out, nil
}

// Coefficients は線形モデルの係数ベクトル。
// 名前付きの場合は特徴量行列の列へ名前で対応付けられ、
// 名前なしの場合は列順にそのまま対応する。
type Coefficients struct {
	names   []string
	weights []float64
}

// NewCoefficients は位置で列に対応する係数を作る。
func NewCoefficients(weights []float64) Coefficients {
	w := make([]float64, len(weights))
	copy(w, weights)
	return Coefficients{weights: w}
}

// NewNamedCoefficients は特徴量名付きの係数を作る。
func NewNamedCoefficients(names []string, weights []float64) (Coefficients, error) {
	if len(names) != len(weights) {
		return Coefficients{}, errors.NewShapeMismatchError("NewNamedCoefficients", len(weights), len(names))
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return Coefficients{}, errors.NewValidationError("names", "feature names must not be empty", name)
		}
		if _, dup := seen[name]; dup {
			return Coefficients{}, errors.NewValidationError("names", "duplicate feature name", name)
		}
		seen[name] = struct{}{}
	}
	c := NewCoefficients(weights)
	c.names = make([]string, len(names))
	copy(c.names, names)
	return c, nil
}

// CoefficientsFromMap は特徴量名→係数のマップから係数を作る。
// order が nil の場合は名前の辞書順に並べる。
func CoefficientsFromMap(m map[string]float64, order []string) (Coefficients, error) {
	if order == nil {
		order = make([]string, 0, len(m))
		for name := range m {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	if len(order) != len(m) {
		return Coefficients{}, errors.NewShapeMismatchError("CoefficientsFromMap", len(m), len(order))
	}
	weights := make([]float64, len(order))
	for j, name := range order {
		w, ok := m[name]
		if !ok {
			return Coefficients{}, errors.NewValidationError("order", "no coefficient for feature", name)
		}
		weights[j] = w
	}
	return NewNamedCoefficients(order, weights)
}

// Len returns the number of coefficients.
func (c Coefficients) Len() int {
	return len(c.weights)
}

// Weights returns a copy of the weights in their own order.
func (c Coefficients) Weights() []float64 {
	out := make([]float64, len(c.weights))
	copy(out, c.weights)
	return out
}

// Names returns a copy of the feature names, or nil for positional coefficients.
func (c Coefficients) Names() []string {
	if c.names == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Named reports whether the coefficients carry feature names.
func (c Coefficients) Named() bool {
	return c.names != nil
}

// alignTo は係数を x の列順に並べ替えて返す。
// 長さが合わない場合は計算前に ShapeMismatchError を返す。
func (c Coefficients) alignTo(x *FeatureMatrix, op string) ([]float64, error) {
	if x == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(c.weights) != x.NumFeatures() {
		return nil, errors.NewShapeMismatchError(op, len(c.weights), x.NumFeatures())
	}
	if !c.Named() {
		return c.Weights(), nil
	}

	aligned := make([]float64, x.NumFeatures())
	for k, name := range c.names {
		j, ok := x.ColumnIndex(name)
		if !ok {
			return nil, errors.NewValidationError("coefficients", "feature is not a column of the matrix", name)
		}
		aligned[j] = c.weights[k]
	}
	return aligned, nil
}
