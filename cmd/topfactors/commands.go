package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/YuminosukeSato/topfactors/attribution"
	"github.com/YuminosukeSato/topfactors/config"
	"github.com/YuminosukeSato/topfactors/linear"
	"github.com/YuminosukeSato/topfactors/pkg/errors"
	"github.com/YuminosukeSato/topfactors/report"
	"github.com/YuminosukeSato/topfactors/store"
	"github.com/YuminosukeSato/topfactors/trainer"
)

var (
	dataFlag = &cli.StringFlag{
		Name:  "data",
		Usage: "CSV file with a header row (overrides data.path)",
	}

	kFlag = &cli.IntFlag{
		Name:  "k",
		Usage: "Number of factors per row (overrides attribution.k)",
	}

	legacyFlag = &cli.BoolFlag{
		Name:  "top-three",
		Usage: "Use the fixed three-factor output",
	}

	plotFlag = &cli.StringFlag{
		Name:  "plot",
		Usage: "Also write a PNG bar chart to this path",
	}

	fitCmd = &cli.Command{
		Name:   "fit",
		Usage:  "Fit the configured model and save its coefficients",
		Flags:  []cli.Flag{dataFlag},
		Action: runFit,
	}

	factorsCmd = &cli.Command{
		Name:   "factors",
		Usage:  "Print the top factors of every row",
		Flags:  []cli.Flag{dataFlag, kFlag, legacyFlag},
		Action: runFactors,
	}

	importanceCmd = &cli.Command{
		Name:   "importance",
		Usage:  "Rank features by coefficient magnitude",
		Flags:  []cli.Flag{plotFlag},
		Action: runImportance,
	}
)

func openTrainer(ctx context.Context, cfg *config.Config) (*trainer.Trainer, func() error, error) {
	s, closeFn, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	opts := []trainer.Option{
		trainer.WithArtifactName(cfg.Model.Artifact),
		trainer.WithLogisticOptions(linear.WithMaxIter(cfg.Model.MaxIter), linear.WithC(cfg.Model.C)),
	}
	if cfg.Model.Standardize {
		opts = append(opts, trainer.WithStandardization())
	}
	tr, err := trainer.NewTrainer(s, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return tr, closeFn, nil
}

// loadFeatures reads the CSV and removes the configured columns and, when
// present, the target column.
func loadFeatures(cmd *cli.Command, cfg *config.Config) (table, features *attribution.FeatureMatrix, err error) {
	path := cfg.Data.Path
	if p := cmd.String(dataFlag.Name); p != "" {
		path = p
	}
	if path == "" {
		return nil, nil, errors.NewValidationError("data.path", "no input file given", path)
	}

	table, err = readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	drop := append([]string(nil), cfg.Data.Drop...)
	if _, ok := table.ColumnIndex(cfg.Data.Target); ok {
		drop = append(drop, cfg.Data.Target)
	}
	if len(drop) == 0 {
		return table, table, nil
	}
	features, err = table.Drop(drop...)
	return table, features, err
}

func runFit(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(ctx)
	if cfg.Data.Target == "" {
		return errors.NewValidationError("data.target", "a target column is required to fit", "")
	}

	table, features, err := loadFeatures(cmd, cfg)
	if err != nil {
		return err
	}
	y, err := table.Column(cfg.Data.Target)
	if err != nil {
		return err
	}

	tr, closeFn, err := openTrainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	mw, err := tr.FitForFactors(ctx, cfg.Model.Type, features, y)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "saved %s (%s) with %d coefficients\n",
		cfg.Model.Artifact, mw.ModelType, len(mw.Coefficients))
	return nil
}

func runFactors(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(ctx)
	_, features, err := loadFeatures(cmd, cfg)
	if err != nil {
		return err
	}

	tr, closeFn, err := openTrainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	trained, err := tr.LoadForFactors(ctx, cfg.Model.Artifact)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	opts := []attribution.Option{
		attribution.WithParallelThreshold(cfg.Attribution.ParallelThreshold),
		attribution.WithDebug(cfg.Attribution.Debug),
	}
	if cfg.Attribution.Debug {
		opts = append(opts, attribution.WithReporter(report.NewTextReporter(os.Stderr)))
	}

	if cmd.Bool(legacyFlag.Name) {
		first, second, third, err := attribution.FindTopThreeFactors(trained, features, opts...)
		if err != nil {
			return err
		}
		rows := make(attribution.RankedFactors, len(first))
		for i := range rows {
			rows[i] = []string{first[i], second[i], third[i]}
		}
		fmt.Fprintln(out, report.FormatFactorTable(rows, 0))
		return nil
	}

	k := cfg.Attribution.K
	if cmd.IsSet(kFlag.Name) {
		k = cmd.Int(kFlag.Name)
	}
	factors, err := attribution.TopKFeaturesForModel(trained, features, k, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, report.FormatFactorTable(factors, 0))
	return nil
}

func runImportance(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(ctx)
	tr, closeFn, err := openTrainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	trained, err := tr.LoadForFactors(ctx, cfg.Model.Artifact)
	if err != nil {
		return err
	}
	coef, err := attribution.NewNamedCoefficients(trained.GetFeatureNames(), trained.GetWeights())
	if err != nil {
		return err
	}
	ranked, err := attribution.CoefficientImportances(coef)
	if err != nil {
		return err
	}
	if err := report.WriteFeatureImportances(cmd.Root().Writer, ranked.Names(), ranked.Values()); err != nil {
		return err
	}

	path := cmd.String(plotFlag.Name)
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	return report.PlotFeatureImportances(f, cfg.Model.Artifact+" coefficient magnitude", ranked.Names(), ranked.Values())
}
