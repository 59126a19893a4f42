package report

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/topfactors/pkg/errors"
)

// WriteFeatureImportances は順位付け済みの重要度を "1. name (0.123456)" 形式で書き出す。
// names と values は同じ順序・同じ長さであること。
func WriteFeatureImportances(w io.Writer, names []string, values []float64) error {
	if len(names) != len(values) {
		return errors.NewShapeMismatchError("WriteFeatureImportances", len(values), len(names))
	}
	for i, name := range names {
		if _, err := fmt.Fprintf(w, "%d. %s (%f)\n", i+1, name, values[i]); err != nil {
			return errors.Wrap(err, "write feature importances")
		}
	}
	return nil
}

// PlotFeatureImportances は重要度の棒グラフを PNG として w に書き出す。
func PlotFeatureImportances(w io.Writer, title string, names []string, values []float64) error {
	if len(names) != len(values) {
		return errors.NewShapeMismatchError("PlotFeatureImportances", len(values), len(names))
	}
	if len(names) == 0 {
		return errors.WithStack(errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "importance"

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "build bar chart")
	}
	p.Add(bars)
	p.NominalX(names...)

	width := vg.Length(len(names))*0.6*vg.Inch + 2*vg.Inch
	wt, err := p.WriterTo(width, 4*vg.Inch, "png")
	if err != nil {
		return errors.Wrap(err, "render chart")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write chart")
	}
	return nil
}
