package main

import (
	"github.com/gpulab/gemmbench/internal/power"
	"github.com/urfave/cli/v2"
)

func powerCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "power",
		Usage: "Reprogram the device power ceiling and application clocks via NVML",
		Subcommands: []*cli.Command{
			{
				Name:  "limit",
				Usage: "Lower the power ceiling, pin clocks and disable auto boost",
				Action: func(c *cli.Context) error {
					ctrl := power.NewController(st.cfg.Power.Device, st.log.Named("power"))
					return ctrl.Limit(st.cfg.Power.Limit)
				},
			},
			{
				Name:  "reset",
				Usage: "Restore the power ceiling, default clocks and auto boost",
				Action: func(c *cli.Context) error {
					ctrl := power.NewController(st.cfg.Power.Device, st.log.Named("power"))
					return ctrl.Reset(st.cfg.Power.Reset)
				},
			},
		},
	}
}
