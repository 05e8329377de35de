package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/gpulab/gemmbench/internal/bench"
	"github.com/gpulab/gemmbench/internal/gpu"
	"github.com/gpulab/gemmbench/internal/metrics"
	"github.com/gpulab/gemmbench/internal/power"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func runCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the matrix multiplication benchmark",
		Action: func(c *cli.Context) error {
			figure.NewFigure("gemmbench", "", true).Print()
			fmt.Println("")

			log := st.log.Named("run")

			mgr, err := gpu.NewManager(log)
			if err != nil {
				return fmt.Errorf("failed to initialize compute backend: %w", err)
			}
			defer func() {
				if err := mgr.Cleanup(); err != nil {
					log.Warn("backend cleanup failed", zap.Error(err))
				}
			}()

			if addr := st.cfg.Metrics.ListenAddress; addr != "" {
				srv := metrics.Serve(addr, log)
				defer srv.Close()
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Power routine failures never abort the benchmark; the
			// run just proceeds at stock settings.
			if st.cfg.Power.Apply {
				ctrl := power.NewController(st.cfg.Power.Device, log)
				if err := ctrl.Limit(st.cfg.Power.Limit); err != nil {
					log.Warn("power limit failed, continuing at stock settings", zap.Error(err))
				} else {
					defer func() {
						if err := ctrl.Reset(st.cfg.Power.Reset); err != nil {
							log.Warn("power reset failed", zap.Error(err))
						}
					}()
				}
			}

			runner := bench.NewRunner(st.cfg.Benchmark, mgr, log)
			_, err = runner.Run(ctx)
			return err
		},
	}
}
