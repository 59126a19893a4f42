// Command topfactors fits a linear model on a CSV table and reports, per row,
// the features that contributed most to its score.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/YuminosukeSato/topfactors/config"
	"github.com/YuminosukeSato/topfactors/pkg/log"
)

var (
	version = "v0.0.1-default"
	commit  = ""

	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the YAML configuration file",
		Value: "topfactors.yaml",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Overrides log_level from the configuration (debug, info, warn, error)",
	}
)

type appConfigKey struct{}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.GetLogger().Error("fatal error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "topfactors",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Usage:   "Per-row feature attribution for linear models",
		Flags: []cli.Flag{
			configFlag,
			logLevelFlag,
		},
		Commands: []*cli.Command{
			fitCmd,
			factorsCmd,
			importanceCmd,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.Load(cmd.String(configFlag.Name))
			if err != nil {
				return ctx, err
			}
			if level := cmd.String(logLevelFlag.Name); level != "" {
				cfg.LogLevel = level
			}
			if err := log.SetupLoggerTo(os.Stderr, cfg.LogLevel); err != nil {
				return ctx, err
			}
			return context.WithValue(ctx, appConfigKey{}, cfg), nil
		},
	}
}

func getConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(appConfigKey{}).(*config.Config); ok {
		return cfg
	}
	return config.New()
}
