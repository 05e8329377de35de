package main

import (
	"fmt"
	"os"

	"github.com/gpulab/gemmbench/internal/config"
	"github.com/gpulab/gemmbench/internal/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// appState carries the config and logger loaded by the Before hook into the
// command actions.
type appState struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	var cfgPath string
	state := &appState{}

	app := &cli.App{
		Name:  "gemmbench",
		Usage: "Benchmark dense matrix multiplication on a GPU and track numerical drift",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Value:       "config.yaml",
				Usage:       "Path to the gemmbench config file",
				EnvVars:     []string{"GEMMBENCH_CONFIG"},
				Destination: &cfgPath,
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				if !os.IsNotExist(err) {
					return err
				}
				// No config file is fine, defaults cover everything.
				cfg = config.Default()
			}
			zapLogger, err := logger.New(cfg.Logger.Verbosity)
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.log = zapLogger.Named("gemmbench")
			return nil
		},
		Commands: []*cli.Command{
			runCommand(state),
			powerCommand(state),
			infoCommand(state),
		},
	}

	if err := app.Run(os.Args); err != nil {
		if state.log != nil {
			state.log.Fatal("failed to run app", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
