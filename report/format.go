package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
)

// FormatMatrix は行列の先頭 maxRows 行を整形する。maxRows <= 0 なら全行。
func FormatMatrix(m mat.Matrix, maxRows int) string {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return "[]"
	}
	if maxRows > 0 && maxRows < r {
		r = maxRows
	}
	head := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			head.Set(i, j, m.At(i, j))
		}
	}
	return fmt.Sprintf("%v", mat.Formatted(head, mat.Squeeze()))
}

// FormatCoefficients は特徴量名と係数を1行ずつ並べる。
// names が空なら列番号を使う。
func FormatCoefficients(names []string, weights []float64) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for j, w := range weights {
		name := fmt.Sprintf("x%d", j)
		if j < len(names) {
			name = names[j]
		}
		fmt.Fprintf(tw, "%s\t%g\n", name, w)
	}
	tw.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// FormatFactorTable は行ごとの上位要因を表形式にする。
// 先頭 maxRows 行のみ。maxRows <= 0 なら全行。
func FormatFactorTable(factors [][]string, maxRows int) string {
	if len(factors) == 0 {
		return "(no rows)"
	}
	n := len(factors)
	if maxRows > 0 && maxRows < n {
		n = maxRows
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "row")
	for p := range factors[0] {
		fmt.Fprintf(tw, "\tfactor_%d", p+1)
	}
	fmt.Fprintln(tw)
	for i := 0; i < n; i++ {
		fmt.Fprintf(tw, "%d", i)
		for _, name := range factors[i] {
			fmt.Fprintf(tw, "\t%s", name)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
