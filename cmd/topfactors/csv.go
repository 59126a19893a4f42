package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/topfactors/attribution"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
)

func readCSV(path string) (*attribution.FeatureMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return parseCSV(f)
}

// parseCSV reads a header row followed by numeric rows. Missing values are
// rejected; impute them before running topfactors.
func parseCSV(r io.Reader) (*attribution.FeatureMatrix, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if len(records) < 2 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]
	data := mat.NewDense(len(rows), len(header), nil)
	for i, record := range rows {
		for j, field := range record {
			field = strings.TrimSpace(field)
			if field == "" || strings.EqualFold(field, "none") || strings.EqualFold(field, "na") {
				return nil, errors.Newf("row %d, column %q: missing value", i+1, header[j])
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %q", i+1, header[j])
			}
			data.Set(i, j, v)
		}
	}
	return attribution.NewFeatureMatrix(header, data)
}
