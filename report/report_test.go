package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/pkg/log"
)

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	require.NoError(t, r.Report("coefficients", "age  3"))
	assert.Equal(t, "coefficients\nage  3\n", buf.String())
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.Report("anything", "ignored"))
}

func TestLogReporter(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	r := NewLogReporter(logger)

	require.NoError(t, r.Report("contributions", "[6 -10]"))
	assert.True(t, logger.ContainsMessage("contributions"))
	assert.True(t, logger.ContainsField("report.body", "[6 -10]"))
}

func TestFormatMatrix(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{6, -10, 3, -5, 1, 1})

	full := FormatMatrix(m, 0)
	assert.Equal(t, 3, strings.Count(full, "\n")+1)

	head := FormatMatrix(m, 2)
	assert.Equal(t, 2, strings.Count(head, "\n")+1)
	assert.Contains(t, head, "-10")
	assert.NotContains(t, head, "1  1")

	assert.Equal(t, "[]", FormatMatrix(&mat.Dense{}, 0))
}

func TestFormatCoefficients(t *testing.T) {
	out := FormatCoefficients([]string{"age", "bp"}, []float64{3, -1})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "age  3", lines[0])
	assert.Equal(t, "bp   -1", lines[1])

	out = FormatCoefficients(nil, []float64{0.5})
	assert.Equal(t, "x0  0.5", out)
}

func TestFormatFactorTable(t *testing.T) {
	factors := [][]string{
		{"age", "bp"},
		{"bp", "age"},
		{"age", "bp"},
	}
	out := FormatFactorTable(factors, 2)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"row", "factor_1", "factor_2"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "bp", "age"}, strings.Fields(lines[2]))

	assert.Equal(t, "(no rows)", FormatFactorTable(nil, 5))
}

func TestWriteFeatureImportances(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFeatureImportances(&buf, []string{"age", "bp"}, []float64{0.75, 0.25})
	require.NoError(t, err)
	assert.Equal(t, "1. age (0.750000)\n2. bp (0.250000)\n", buf.String())

	err = WriteFeatureImportances(&buf, []string{"age"}, []float64{0.75, 0.25})
	var shapeErr *errors.ShapeMismatchError
	assert.True(t, errors.As(err, &shapeErr))
}

func TestPlotFeatureImportances(t *testing.T) {
	var buf bytes.Buffer
	err := PlotFeatureImportances(&buf, "importance", []string{"age", "bp", "bmi"}, []float64{3, 1, 0.5})
	require.NoError(t, err)
	// PNG signature
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	err = PlotFeatureImportances(&buf, "empty", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
